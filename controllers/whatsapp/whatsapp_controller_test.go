package whatsapp

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/gofiber/fiber/v2"

	"github.com/ajith2401/delivery-app-fresh/models"
)

func TestVerifyHandshake(t *testing.T) {
	app := fiber.New()
	h := NewController(nil, "secret-token", zap.NewNop())
	app.Get("/webhook/whatsapp", h.Verify)

	req := httptest.NewRequest("GET",
		"/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "12345" {
		t.Fatalf("body = %q, want challenge echoed", body)
	}
}

func TestVerifyRejectsWrongToken(t *testing.T) {
	app := fiber.New()
	h := NewController(nil, "secret-token", zap.NewNop())
	app.Get("/webhook/whatsapp", h.Verify)

	req := httptest.NewRequest("GET",
		"/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

const sampleDelivery = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "changes": [{
      "value": {
        "messages": [
          {"id": "wamid.1", "from": "919800000001", "type": "text",
           "text": {"body": "hi"}},
          {"id": "wamid.2", "from": "919800000001", "type": "location",
           "location": {"latitude": 13.08, "longitude": 80.27, "name": "Chennai"}},
          {"id": "wamid.3", "from": "919800000001", "type": "interactive",
           "interactive": {"type": "button_reply",
             "button_reply": {"id": "nearby_vendors", "title": "Nearby Home Cooks"}}},
          {"id": "wamid.4", "from": "919800000001", "type": "interactive",
           "interactive": {"type": "list_reply",
             "list_reply": {"id": "category:Tiffin", "title": "Tiffin"}}},
          {"id": "wamid.5", "from": "919800000001", "type": "sticker"}
        ]
      }
    }]
  }]
}`

func TestPayloadNormalization(t *testing.T) {
	var payload webhookPayload
	if err := json.Unmarshal([]byte(sampleDelivery), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	events := payload.events()
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4 (sticker skipped)", len(events))
	}

	if events[0].Kind != models.InboundText || events[0].Text != "hi" || events[0].EventID != "wamid.1" {
		t.Fatalf("text event = %+v", events[0])
	}
	if events[1].Kind != models.InboundLocation || events[1].Latitude != 13.08 {
		t.Fatalf("location event = %+v", events[1])
	}
	if events[1].Address != "Chennai" {
		t.Fatalf("location name not used as address fallback: %+v", events[1])
	}
	if events[2].Kind != models.InboundButton || events[2].Text != "nearby_vendors" {
		t.Fatalf("button event = %+v", events[2])
	}
	if events[3].Kind != models.InboundListSelection || events[3].Text != "category:Tiffin" {
		t.Fatalf("list event = %+v", events[3])
	}
	for _, ev := range events {
		if ev.From != "919800000001" {
			t.Fatalf("from = %q", ev.From)
		}
	}
}

func TestOtherObjectsIgnored(t *testing.T) {
	payload := webhookPayload{Object: "instagram"}
	if got := payload.events(); got != nil {
		t.Fatalf("events = %v, want nil for foreign object", got)
	}
}
