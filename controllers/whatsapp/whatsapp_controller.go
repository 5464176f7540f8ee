// Package whatsapp adapts the WhatsApp Cloud API webhook to the
// conversation engine: it answers Meta's subscription handshake, normalizes
// inbound payloads into events and acknowledges immediately, before
// processing.
package whatsapp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/conversation"
	"github.com/ajith2401/delivery-app-fresh/models"
)

const processTimeout = 60 * time.Second

type Controller struct {
	engine      *conversation.Engine
	verifyToken string
	logger      *zap.Logger
}

func NewController(engine *conversation.Engine, verifyToken string, logger *zap.Logger) *Controller {
	return &Controller{engine: engine, verifyToken: verifyToken, logger: logger}
}

// Verify answers Meta's webhook subscription handshake by echoing the
// challenge when the verify token matches.
func (h *Controller) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		return c.Status(fiber.StatusOK).SendString(challenge)
	}
	return c.SendStatus(fiber.StatusForbidden)
}

// Receive ingests one webhook delivery. The 200 goes out before processing:
// Meta retries on anything else, and slow handlers get the whole batch
// redelivered. Replay safety comes from the engine's event dedup.
func (h *Controller) Receive(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		h.logger.Warn("unparseable webhook payload", zap.Error(err))
		return c.SendStatus(fiber.StatusOK)
	}

	events := payload.events()
	if len(events) > 0 {
		go h.processAll(events)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Controller) processAll(events []models.InboundEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	for _, ev := range events {
		if err := h.engine.HandleEvent(ctx, ev); err != nil {
			h.logger.Error("inbound event processing failed",
				zap.String("eventId", ev.EventID),
				zap.String("from", ev.From),
				zap.Error(err))
		}
	}
}

// webhookPayload mirrors the Cloud API delivery envelope, down to the fields
// the bot reads. Status updates and unknown message types are skipped.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Address   string  `json:"address"`
	} `json:"location"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
		ListReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

func (p *webhookPayload) events() []models.InboundEvent {
	if p.Object != "whatsapp_business_account" {
		return nil
	}

	var out []models.InboundEvent
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				if ev, ok := m.event(); ok {
					out = append(out, ev)
				}
			}
		}
	}
	return out
}

func (m *inboundMessage) event() (models.InboundEvent, bool) {
	ev := models.InboundEvent{EventID: m.ID, From: m.From}

	switch m.Type {
	case "text":
		if m.Text == nil {
			return ev, false
		}
		ev.Kind = models.InboundText
		ev.Text = m.Text.Body
	case "location":
		if m.Location == nil {
			return ev, false
		}
		ev.Kind = models.InboundLocation
		ev.Latitude = m.Location.Latitude
		ev.Longitude = m.Location.Longitude
		ev.Address = m.Location.Address
		if ev.Address == "" {
			ev.Address = m.Location.Name
		}
	case "interactive":
		if m.Interactive == nil {
			return ev, false
		}
		switch {
		case m.Interactive.ButtonReply != nil:
			ev.Kind = models.InboundButton
			ev.Text = m.Interactive.ButtonReply.ID
		case m.Interactive.ListReply != nil:
			ev.Kind = models.InboundListSelection
			ev.Text = m.Interactive.ListReply.ID
		default:
			return ev, false
		}
	default:
		return ev, false
	}
	return ev, true
}
