package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stage is the current node of the conversation state machine for a user.
type Stage string

const (
	StageWelcome           Stage = "welcome"
	StageLanguageSelection Stage = "language_selection"
	StageLocationSharing   Stage = "location_sharing"
	StageMainMenu          Stage = "main_menu"

	StageVendorBrowsing  Stage = "vendor_browsing"
	StageVendorSelection Stage = "vendor_selection"
	StageFoodSearch      Stage = "food_search"
	StageMenuBrowsing    Stage = "menu_browsing"
	StageItemSelection   Stage = "item_selection"

	StageCartManagement Stage = "cart_management"
	StageViewCart       Stage = "view_cart"

	StageAddressConfirmation Stage = "address_confirmation"
	StagePaymentSelection    Stage = "payment_selection"
	StageSpecialInstructions Stage = "special_instructions"

	StageOrderStatus  Stage = "order_status"
	StageOrderHistory Stage = "order_history"

	StageHelp           Stage = "help"
	StageHelpOrdering   Stage = "help_ordering"
	StageHelpPayment    Stage = "help_payment"
	StageHelpDelivery   Stage = "help_delivery"
	StageContactSupport Stage = "contact_support"
)

// ListingRow is the uniform {id, title, description} triple used to render
// vendor lists, category lists and menu-item lists, and to resolve bare
// ordinal replies against the list last shown.
type ListingRow struct {
	ID          string `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
}

// StageData is the stage-scoped scratch payload. Each stage that needs to
// remember anything carries its own concrete type, so a handler can never read
// another stage's shape.
type StageData interface {
	stageDataKind() string
}

// VendorListData remembers the vendor rows last shown, for ordinal re-selection.
type VendorListData struct {
	Rows []ListingRow `bson:"rows"`
}

// SearchListData remembers cross-vendor food search results; row ids are
// "vendorID:itemID" pairs.
type SearchListData struct {
	Rows []ListingRow `bson:"rows"`
}

// CategoryListData remembers the selected vendor and its category rows.
type CategoryListData struct {
	VendorID primitive.ObjectID `bson:"vendorId"`
	Rows     []ListingRow       `bson:"rows"`
}

// ItemListData remembers the vendor, the browsed category and its item rows.
type ItemListData struct {
	VendorID primitive.ObjectID `bson:"vendorId"`
	Category string             `bson:"category"`
	Rows     []ListingRow       `bson:"rows"`
}

// QuantityPromptData remembers the item awaiting a quantity reply.
type QuantityPromptData struct {
	VendorID primitive.ObjectID `bson:"vendorId"`
	ItemID   primitive.ObjectID `bson:"itemId"`
}

// PaymentData remembers the chosen payment method while instructions are
// being collected.
type PaymentData struct {
	Method PaymentMethod `bson:"method"`
}

// OrderRefData points a read-only stage at a specific order.
type OrderRefData struct {
	OrderID primitive.ObjectID `bson:"orderId"`
}

func (VendorListData) stageDataKind() string     { return "vendor_list" }
func (SearchListData) stageDataKind() string     { return "search_list" }
func (CategoryListData) stageDataKind() string   { return "category_list" }
func (ItemListData) stageDataKind() string       { return "item_list" }
func (QuantityPromptData) stageDataKind() string { return "quantity_prompt" }
func (PaymentData) stageDataKind() string        { return "payment" }
func (OrderRefData) stageDataKind() string       { return "order_ref" }

// ConversationState pairs the current stage with its typed scratch data.
type ConversationState struct {
	Stage Stage
	Data  StageData
}

// stageDataDoc is the flat persisted envelope; Kind selects which fields are
// meaningful.
type stageDataDoc struct {
	Kind     string             `bson:"kind,omitempty"`
	VendorID primitive.ObjectID `bson:"vendorId,omitempty"`
	ItemID   primitive.ObjectID `bson:"itemId,omitempty"`
	Category string             `bson:"category,omitempty"`
	Method   PaymentMethod      `bson:"method,omitempty"`
	OrderID  primitive.ObjectID `bson:"orderId,omitempty"`
	Rows     []ListingRow       `bson:"rows,omitempty"`
}

type conversationStateDoc struct {
	Stage Stage        `bson:"context"`
	Data  stageDataDoc `bson:"data,omitempty"`
}

func (c ConversationState) MarshalBSON() ([]byte, error) {
	doc := conversationStateDoc{Stage: c.Stage}
	switch d := c.Data.(type) {
	case VendorListData:
		doc.Data = stageDataDoc{Kind: d.stageDataKind(), Rows: d.Rows}
	case SearchListData:
		doc.Data = stageDataDoc{Kind: d.stageDataKind(), Rows: d.Rows}
	case CategoryListData:
		doc.Data = stageDataDoc{Kind: d.stageDataKind(), VendorID: d.VendorID, Rows: d.Rows}
	case ItemListData:
		doc.Data = stageDataDoc{Kind: d.stageDataKind(), VendorID: d.VendorID, Category: d.Category, Rows: d.Rows}
	case QuantityPromptData:
		doc.Data = stageDataDoc{Kind: d.stageDataKind(), VendorID: d.VendorID, ItemID: d.ItemID}
	case PaymentData:
		doc.Data = stageDataDoc{Kind: d.stageDataKind(), Method: d.Method}
	case OrderRefData:
		doc.Data = stageDataDoc{Kind: d.stageDataKind(), OrderID: d.OrderID}
	}
	return bson.Marshal(doc)
}

func (c *ConversationState) UnmarshalBSON(data []byte) error {
	var doc conversationStateDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	c.Stage = doc.Stage
	switch doc.Data.Kind {
	case "vendor_list":
		c.Data = VendorListData{Rows: doc.Data.Rows}
	case "search_list":
		c.Data = SearchListData{Rows: doc.Data.Rows}
	case "category_list":
		c.Data = CategoryListData{VendorID: doc.Data.VendorID, Rows: doc.Data.Rows}
	case "item_list":
		c.Data = ItemListData{VendorID: doc.Data.VendorID, Category: doc.Data.Category, Rows: doc.Data.Rows}
	case "quantity_prompt":
		c.Data = QuantityPromptData{VendorID: doc.Data.VendorID, ItemID: doc.Data.ItemID}
	case "payment":
		c.Data = PaymentData{Method: doc.Data.Method}
	case "order_ref":
		c.Data = OrderRefData{OrderID: doc.Data.OrderID}
	default:
		c.Data = nil
	}
	return nil
}
