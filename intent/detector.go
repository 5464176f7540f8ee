package intent

import (
	"context"
	"strconv"
	"strings"

	"github.com/ajith2401/delivery-app-fresh/models"
)

// buttonIntents maps interactive reply ids to intents.
var buttonIntents = map[string]Intent{
	"nearby_vendors":  IntentBrowseVendors,
	"search_food":     IntentSearchFood,
	"my_orders":       IntentMyOrders,
	"track_order":     IntentOrderStatus,
	"add_more":        IntentAddMore,
	"view_cart":       IntentViewCart,
	"clear_cart":      IntentClearCart,
	"checkout":        IntentCheckout,
	"confirm_address": IntentConfirmAddress,
	"new_address":     IntentNewAddress,
	"help":            IntentHelp,
	"help_ordering":   IntentHelpOrdering,
	"help_payment":    IntentHelpPayment,
	"help_delivery":   IntentHelpDelivery,
	"contact_support": IntentContactSupport,
	"main_menu":       IntentMainMenu,
	"back_to_menu":    IntentMainMenu,
}

// RuleDetector is the in-process detector. It resolves structured replies
// exactly and falls back to keyword matching for free text, so plain-text
// clients and rich clients land on the same intents.
type RuleDetector struct{}

func NewRuleDetector() *RuleDetector { return &RuleDetector{} }

func (d *RuleDetector) Detect(_ context.Context, ev models.InboundEvent, _ models.Language) (Result, error) {
	if ev.Kind == models.InboundLocation {
		return Result{
			Intent: IntentShareLocation,
			Slots:  Slots{Latitude: ev.Latitude, Longitude: ev.Longitude, Address: ev.Address},
		}, nil
	}

	raw := strings.TrimSpace(ev.Text)

	if ev.Kind == models.InboundButton || ev.Kind == models.InboundListSelection {
		return detectReplyID(raw), nil
	}

	return detectText(raw), nil
}

// detectReplyID handles structured button and list reply ids.
func detectReplyID(id string) Result {
	if in, ok := buttonIntents[id]; ok {
		return Result{Intent: in}
	}

	switch {
	case id == "english":
		return Result{Intent: IntentSetLanguage, Slots: Slots{Language: models.LanguageEnglish}}
	case id == "tamil":
		return Result{Intent: IntentSetLanguage, Slots: Slots{Language: models.LanguageTamil}}
	case strings.HasPrefix(id, "payment_"):
		method := models.PaymentMethod(strings.TrimPrefix(id, "payment_"))
		if method.Valid() {
			return Result{Intent: IntentSelectPayment, Slots: Slots{Method: method}}
		}
	case strings.HasPrefix(id, "qty:"):
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "qty:")); err == nil && n > 0 {
			return Result{Intent: IntentQuantity, Slots: Slots{Quantity: n}}
		}
	case strings.HasPrefix(id, "feedback_"):
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "feedback_")); err == nil {
			return Result{Intent: IntentFeedback, Slots: Slots{Score: n}}
		}
	}

	// Vendor ids, "category:...", "item:...", "order_..." rows resolve inside
	// the stage handler that produced them.
	return Result{Intent: IntentSelection, Slots: Slots{SelectionID: id}}
}

func detectText(text string) Result {
	if text == "" {
		return Result{Intent: IntentUnknown}
	}

	if n, err := strconv.Atoi(text); err == nil {
		return Result{Intent: IntentOrdinal, Slots: Slots{Ordinal: n}}
	}

	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "hi", "hello", "hey", "start", "vanakkam", "வணக்கம்"):
		return Result{Intent: IntentGreeting}
	case strings.Contains(lower, "english"):
		return Result{Intent: IntentSetLanguage, Slots: Slots{Language: models.LanguageEnglish}}
	case strings.Contains(lower, "tamil") || strings.Contains(lower, "தமிழ்"):
		return Result{Intent: IntentSetLanguage, Slots: Slots{Language: models.LanguageTamil}}
	case containsAny(lower, "main menu", "menu", "முகப்பு"):
		return Result{Intent: IntentMainMenu}
	case containsAny(lower, "nearby", "vendors", "home cooks", "browse", "உணவகங்கள்"):
		return Result{Intent: IntentBrowseVendors}
	case strings.Contains(lower, "search"):
		return Result{Intent: IntentSearchFood, Slots: Slots{Query: searchQuery(lower)}}
	case containsAny(lower, "order status", "track"):
		return Result{Intent: IntentOrderStatus}
	case containsAny(lower, "my orders", "order history", "previous orders", "ஆர்டர்கள்"):
		return Result{Intent: IntentMyOrders}
	case strings.Contains(lower, "view cart"):
		return Result{Intent: IntentViewCart}
	case strings.Contains(lower, "clear cart"):
		return Result{Intent: IntentClearCart}
	case strings.Contains(lower, "checkout"):
		return Result{Intent: IntentCheckout}
	case containsAny(lower, "cod", "cash on delivery"):
		return Result{Intent: IntentSelectPayment, Slots: Slots{Method: models.PaymentCOD}}
	case containsAny(lower, "upi", "gpay", "paytm", "phonepe"):
		return Result{Intent: IntentSelectPayment, Slots: Slots{Method: models.PaymentUPI}}
	case containsAny(lower, "online", "card"):
		return Result{Intent: IntentSelectPayment, Slots: Slots{Method: models.PaymentOnline}}
	case strings.Contains(lower, "support"):
		return Result{Intent: IntentContactSupport}
	case strings.Contains(lower, "help"):
		return Result{Intent: IntentHelp}
	case lower == "yes" || lower == "ஆம்":
		return Result{Intent: IntentAffirm}
	case lower == "no" || lower == "இல்லை":
		return Result{Intent: IntentDeny}
	}

	return Result{Intent: IntentFreeText, Slots: Slots{Text: text}}
}

// searchQuery strips the leading search verb: "search chicken biryani" wants
// "chicken biryani" as the query slot.
func searchQuery(lower string) string {
	q := strings.TrimSpace(strings.TrimPrefix(lower, "search for"))
	if q == lower {
		q = strings.TrimSpace(strings.TrimPrefix(lower, "search"))
	}
	return q
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
