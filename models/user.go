package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Language string

const (
	LanguageUnset   Language = ""
	LanguageEnglish Language = "english"
	LanguageTamil   Language = "tamil"
)

// GeoPoint is a GeoJSON point, coordinates stored as [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

type Address struct {
	Label       string   `bson:"label" json:"label"`
	FullAddress string   `bson:"fullAddress" json:"fullAddress"`
	Location    GeoPoint `bson:"location" json:"location"`
}

type CartItem struct {
	ItemID    primitive.ObjectID `bson:"itemId" json:"itemId"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	UnitPrice float64            `bson:"price" json:"price"`
}

// Cart holds the in-progress selection for exactly one vendor. Total is always
// recomputed from the lines, never stored independently.
type Cart struct {
	VendorID primitive.ObjectID `bson:"vendorId,omitempty" json:"vendorId,omitempty"`
	Items    []CartItem         `bson:"items" json:"items"`
	Total    float64            `bson:"total" json:"total"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddItem appends or increments a cart line. Adding an item from a different
// vendor clears the cart first.
func (c *Cart) AddItem(vendorID primitive.ObjectID, item MenuItem, quantity int) {
	if c.VendorID != vendorID {
		c.Items = nil
	}
	c.VendorID = vendorID

	for i := range c.Items {
		if c.Items[i].ItemID == item.ID {
			c.Items[i].Quantity += quantity
			c.recalculate()
			return
		}
	}

	c.Items = append(c.Items, CartItem{
		ItemID:    item.ID,
		Name:      item.Name,
		Quantity:  quantity,
		UnitPrice: item.Price,
	})
	c.recalculate()
}

func (c *Cart) Clear() {
	*c = Cart{Items: []CartItem{}}
}

func (c *Cart) recalculate() {
	var total float64
	for _, it := range c.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	c.Total = total
}

// User is keyed by WhatsApp phone number and created lazily on the first
// inbound message from an unseen number.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PhoneNumber         string             `bson:"phoneNumber" json:"phoneNumber"`
	Name                string             `bson:"name,omitempty" json:"name,omitempty"`
	Email               string             `bson:"email,omitempty" json:"email,omitempty"`
	PreferredLanguage   Language           `bson:"preferredLanguage,omitempty" json:"preferredLanguage,omitempty"`
	Addresses           []Address          `bson:"addresses" json:"addresses"`
	DefaultAddressIndex int                `bson:"defaultAddressIndex" json:"defaultAddressIndex"`
	Cart                Cart               `bson:"cart" json:"cart"`
	ConversationState   ConversationState  `bson:"conversationState" json:"conversationState"`
	LastInteractionAt   time.Time          `bson:"lastInteractionAt" json:"lastInteractionAt"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AddAddress appends the address and makes it the default.
func (u *User) AddAddress(addr Address) {
	u.Addresses = append(u.Addresses, addr)
	u.DefaultAddressIndex = len(u.Addresses) - 1
}

// DefaultAddress returns the delivery address, false when none is saved.
func (u *User) DefaultAddress() (Address, bool) {
	if len(u.Addresses) == 0 {
		return Address{}, false
	}
	idx := u.DefaultAddressIndex
	if idx < 0 || idx >= len(u.Addresses) {
		idx = len(u.Addresses) - 1
	}
	return u.Addresses[idx], true
}
