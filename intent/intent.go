// Package intent normalizes inbound chat events into canonical intents and
// slot parameters. An external NLU can sit behind the Detector interface; the
// built-in RuleDetector covers button ids, list replies, bare ordinals,
// location events and keyword text.
package intent

import (
	"context"

	"github.com/ajith2401/delivery-app-fresh/models"
)

type Intent string

const (
	IntentGreeting      Intent = "greeting"
	IntentSetLanguage   Intent = "set_language"
	IntentShareLocation Intent = "share_location"

	IntentBrowseVendors Intent = "browse_vendors"
	IntentSearchFood    Intent = "search_food"
	IntentMyOrders      Intent = "my_orders"
	IntentOrderStatus   Intent = "order_status"

	IntentAddMore   Intent = "add_more"
	IntentViewCart  Intent = "view_cart"
	IntentClearCart Intent = "clear_cart"
	IntentCheckout  Intent = "checkout"

	IntentConfirmAddress Intent = "confirm_address"
	IntentNewAddress     Intent = "new_address"
	IntentSelectPayment  Intent = "select_payment"

	IntentMainMenu       Intent = "main_menu"
	IntentHelp           Intent = "help"
	IntentHelpOrdering   Intent = "help_ordering"
	IntentHelpPayment    Intent = "help_payment"
	IntentHelpDelivery   Intent = "help_delivery"
	IntentContactSupport Intent = "contact_support"

	IntentOrdinal   Intent = "ordinal"   // bare numeric reply against the last shown list
	IntentQuantity  Intent = "quantity"  // qty:N button
	IntentSelection Intent = "selection" // structured list/button reply carrying an id
	IntentFeedback  Intent = "feedback"

	IntentAffirm Intent = "affirm"
	IntentDeny   Intent = "deny"

	IntentFreeText Intent = "free_text"
	IntentUnknown  Intent = "unknown"
)

// Slots carries the intent's typed parameters; only the fields relevant to
// the detected intent are set.
type Slots struct {
	Language    models.Language
	Query       string
	Ordinal     int
	Quantity    int
	Method      models.PaymentMethod
	SelectionID string
	Score       int
	Latitude    float64
	Longitude   float64
	Address     string
	Text        string
}

type Result struct {
	Intent Intent
	Slots  Slots
}

// Detector maps one normalized inbound event to an intent and slots.
type Detector interface {
	Detect(ctx context.Context, ev models.InboundEvent, lang models.Language) (Result, error)
}

// Global reports whether the intent must be honored from any conversation
// stage, bypassing the stage-specific handler.
func Global(i Intent) bool {
	switch i {
	case IntentMainMenu, IntentHelp, IntentContactSupport:
		return true
	}
	return false
}
