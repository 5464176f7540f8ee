package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "ONLINE"
	PaymentUPI    PaymentMethod = "UPI"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentOnline, PaymentUPI:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

type OrderStatus string

const (
	OrderPlaced         OrderStatus = "PLACED"
	OrderConfirmed      OrderStatus = "CONFIRMED"
	OrderPreparing      OrderStatus = "PREPARING"
	OrderOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderDelivered      OrderStatus = "DELIVERED"
	OrderCancelled      OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPlaced, OrderConfirmed, OrderPreparing, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are defined for the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// OrderItem is a snapshot copy of a menu item at checkout time, decoupled
// from the live menu so later edits don't retroactively alter history.
type OrderItem struct {
	ItemID   primitive.ObjectID `bson:"itemId" json:"itemId"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

type DeliveryAddress struct {
	FullAddress string   `bson:"fullAddress" json:"fullAddress"`
	Location    GeoPoint `bson:"location" json:"location"`
}

type StatusEntry struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}

type Feedback struct {
	Score     int       `bson:"score" json:"score"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type Order struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID                primitive.ObjectID `bson:"userId" json:"userId"`
	VendorID              primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	VendorName            string             `bson:"vendorName" json:"vendorName"`
	Items                 []OrderItem        `bson:"items" json:"items"`
	TotalAmount           float64            `bson:"totalAmount" json:"totalAmount"`
	DeliveryFee           float64            `bson:"deliveryFee" json:"deliveryFee"`
	GrandTotal            float64            `bson:"grandTotal" json:"grandTotal"`
	DeliveryAddress       DeliveryAddress    `bson:"deliveryAddress" json:"deliveryAddress"`
	PaymentMethod         PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus         PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	PaymentID             string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"` // gateway order reference
	OrderStatus           OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	StatusHistory         []StatusEntry      `bson:"statusHistory" json:"statusHistory"`
	EstimatedDeliveryTime time.Time          `bson:"estimatedDeliveryTime,omitempty" json:"estimatedDeliveryTime,omitempty"`
	SpecialInstructions   string             `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
	Feedback              *Feedback          `bson:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ApplyStatus appends to the history and sets the current status. The history
// is append-only; its last entry always equals OrderStatus.
func (o *Order) ApplyStatus(status OrderStatus, at time.Time) {
	o.OrderStatus = status
	o.StatusHistory = append(o.StatusHistory, StatusEntry{Status: status, Timestamp: at})
	o.UpdatedAt = at
}
