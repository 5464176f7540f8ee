package intent

import (
	"context"
	"testing"

	"github.com/ajith2401/delivery-app-fresh/models"
)

func detect(t *testing.T, ev models.InboundEvent) Result {
	t.Helper()
	res, err := NewRuleDetector().Detect(context.Background(), ev, models.LanguageEnglish)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	return res
}

func TestDetectButtonIDs(t *testing.T) {
	cases := []struct {
		id   string
		want Intent
	}{
		{"nearby_vendors", IntentBrowseVendors},
		{"view_cart", IntentViewCart},
		{"checkout", IntentCheckout},
		{"confirm_address", IntentConfirmAddress},
		{"new_address", IntentNewAddress},
		{"back_to_menu", IntentMainMenu},
		{"contact_support", IntentContactSupport},
	}
	for _, c := range cases {
		res := detect(t, models.InboundEvent{Kind: models.InboundButton, Text: c.id})
		if res.Intent != c.want {
			t.Errorf("button %q: got %s want %s", c.id, res.Intent, c.want)
		}
	}
}

func TestDetectTypedButtonSlots(t *testing.T) {
	res := detect(t, models.InboundEvent{Kind: models.InboundButton, Text: "payment_UPI"})
	if res.Intent != IntentSelectPayment || res.Slots.Method != models.PaymentUPI {
		t.Errorf("expected UPI payment selection, got %+v", res)
	}

	res = detect(t, models.InboundEvent{Kind: models.InboundButton, Text: "qty:3"})
	if res.Intent != IntentQuantity || res.Slots.Quantity != 3 {
		t.Errorf("expected quantity 3, got %+v", res)
	}

	res = detect(t, models.InboundEvent{Kind: models.InboundButton, Text: "feedback_4"})
	if res.Intent != IntentFeedback || res.Slots.Score != 4 {
		t.Errorf("expected feedback score 4, got %+v", res)
	}

	res = detect(t, models.InboundEvent{Kind: models.InboundButton, Text: "english"})
	if res.Intent != IntentSetLanguage || res.Slots.Language != models.LanguageEnglish {
		t.Errorf("expected english language selection, got %+v", res)
	}
}

func TestDetectListSelectionFallsThrough(t *testing.T) {
	res := detect(t, models.InboundEvent{Kind: models.InboundListSelection, Text: "item:66f2a1"})
	if res.Intent != IntentSelection || res.Slots.SelectionID != "item:66f2a1" {
		t.Errorf("expected raw selection id, got %+v", res)
	}
}

func TestDetectLocation(t *testing.T) {
	res := detect(t, models.InboundEvent{Kind: models.InboundLocation, Latitude: 12.97, Longitude: 77.59})
	if res.Intent != IntentShareLocation {
		t.Fatalf("expected share_location, got %s", res.Intent)
	}
	if res.Slots.Latitude != 12.97 || res.Slots.Longitude != 77.59 {
		t.Errorf("location slots lost: %+v", res.Slots)
	}
}

func TestDetectTextKeywords(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"hi", IntentGreeting},
		{"Hello there", IntentGreeting},
		{"I prefer English", IntentSetLanguage},
		{"தமிழ்", IntentSetLanguage},
		{"show me nearby vendors", IntentBrowseVendors},
		{"main menu", IntentMainMenu},
		{"checkout", IntentCheckout},
		{"cash on delivery", IntentSelectPayment},
		{"help", IntentHelp},
		{"yes", IntentAffirm},
		{"no", IntentDeny},
	}
	for _, c := range cases {
		res := detect(t, models.InboundEvent{Kind: models.InboundText, Text: c.text})
		if res.Intent != c.want {
			t.Errorf("text %q: got %s want %s", c.text, res.Intent, c.want)
		}
	}
}

func TestDetectOrdinal(t *testing.T) {
	res := detect(t, models.InboundEvent{Kind: models.InboundText, Text: "2"})
	if res.Intent != IntentOrdinal || res.Slots.Ordinal != 2 {
		t.Errorf("expected ordinal 2, got %+v", res)
	}
}

func TestDetectFreeText(t *testing.T) {
	res := detect(t, models.InboundEvent{Kind: models.InboundText, Text: "extra spicy please"})
	if res.Intent != IntentFreeText || res.Slots.Text != "extra spicy please" {
		t.Errorf("expected free text passthrough, got %+v", res)
	}
}
