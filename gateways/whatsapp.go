package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/models"
)

// Channel limits. Anything longer is truncated, anything extra is dropped.
const (
	maxBodyLen         = 1024
	maxButtonTitleLen  = 20
	maxButtons         = 3
	maxRowTitleLen     = 24
	maxRowDescLen      = 72
	maxHeaderFooterLen = 60
	maxSectionTitleLen = 24
	maxListRows        = 10
)

const (
	graphAPIVersion = "v22.0"
	sendRetries     = 3
	retryDelay      = 5 * time.Second
)

type WhatsAppGateway struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	client        *http.Client
	logger        *zap.Logger
	sleep         func(time.Duration)
}

func NewWhatsAppGateway(accessToken, phoneNumberID string, logger *zap.Logger) *WhatsAppGateway {
	return &WhatsAppGateway{
		baseURL:       "https://graph.facebook.com",
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		client:        &http.Client{Timeout: 15 * time.Second},
		logger:        logger,
		sleep:         time.Sleep,
	}
}

func (g *WhatsAppGateway) Send(ctx context.Context, to string, msg models.Message) error {
	payload, err := buildPayload(to, msg)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s/messages", g.baseURL, graphAPIVersion, g.phoneNumberID)

	var lastErr error
	for attempt := 1; attempt <= sendRetries; attempt++ {
		lastErr = g.post(ctx, url, body)
		if lastErr == nil {
			g.logger.Info("whatsapp message sent",
				zap.String("to", to),
				zap.String("type", string(msg.Type)))
			return nil
		}
		if !retryable(lastErr) {
			break
		}
		g.logger.Warn("whatsapp send failed, retrying",
			zap.String("to", to),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
		g.sleep(retryDelay)
	}

	g.logger.Error("whatsapp send failed",
		zap.String("to", to),
		zap.String("type", string(msg.Type)),
		zap.Error(lastErr))
	return lastErr
}

type apiError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("whatsapp api: status %d code %d: %s", e.StatusCode, e.Code, e.Message)
}

func (g *WhatsAppGateway) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	var errBody struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &errBody)
	return &apiError{
		StatusCode: resp.StatusCode,
		Code:       errBody.Error.Code,
		Message:    errBody.Error.Message,
	}
}

// retryable matches rate limiting and transient network failures.
func retryable(err error) bool {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Code == 130429
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func buildPayload(to string, msg models.Message) (map[string]any, error) {
	base := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
	}

	switch msg.Type {
	case models.MessageText:
		base["type"] = "text"
		base["text"] = map[string]any{
			"body":        Truncate(msg.Body, maxBodyLen),
			"preview_url": msg.PreviewURL,
		}

	case models.MessageButtons:
		buttons := msg.Buttons
		if len(buttons) > maxButtons {
			buttons = buttons[:maxButtons]
		}
		replies := make([]map[string]any, 0, len(buttons))
		for _, b := range buttons {
			replies = append(replies, map[string]any{
				"type": "reply",
				"reply": map[string]any{
					"id":    b.ID,
					"title": Truncate(b.Title, maxButtonTitleLen),
				},
			})
		}
		interactive := map[string]any{
			"type":   "button",
			"body":   map[string]any{"text": Truncate(msg.Body, maxBodyLen)},
			"action": map[string]any{"buttons": replies},
		}
		if msg.Header != "" {
			interactive["header"] = map[string]any{
				"type": "text",
				"text": Truncate(msg.Header, maxHeaderFooterLen),
			}
		}
		if msg.Footer != "" {
			interactive["footer"] = map[string]any{"text": Truncate(msg.Footer, maxHeaderFooterLen)}
		}
		base["type"] = "interactive"
		base["interactive"] = interactive

	case models.MessageList:
		if len(msg.Rows) == 0 {
			return nil, errors.New("list message has no rows")
		}
		rows := msg.Rows
		if len(rows) > maxListRows {
			rows = rows[:maxListRows]
		}
		items := make([]map[string]any, 0, len(rows))
		for _, r := range rows {
			items = append(items, map[string]any{
				"id":          r.ID,
				"title":       Truncate(r.Title, maxRowTitleLen),
				"description": Truncate(r.Description, maxRowDescLen),
			})
		}
		interactive := map[string]any{
			"type": "list",
			"body": map[string]any{"text": Truncate(msg.Body, maxBodyLen)},
			"action": map[string]any{
				"button": Truncate(msg.ButtonLabel, maxButtonTitleLen),
				"sections": []map[string]any{{
					"title": Truncate(msg.SectionTitle, maxSectionTitleLen),
					"rows":  items,
				}},
			},
		}
		if msg.Header != "" {
			interactive["header"] = map[string]any{
				"type": "text",
				"text": Truncate(msg.Header, maxHeaderFooterLen),
			}
		}
		if msg.Footer != "" {
			interactive["footer"] = map[string]any{"text": Truncate(msg.Footer, maxHeaderFooterLen)}
		}
		base["type"] = "interactive"
		base["interactive"] = interactive

	case models.MessageLocationRequest:
		base["type"] = "interactive"
		base["interactive"] = map[string]any{
			"type":   "location_request_message",
			"body":   map[string]any{"text": Truncate(msg.Body, maxBodyLen)},
			"action": map[string]any{"name": "send_location"},
		}

	case models.MessageImage:
		image := map[string]any{"link": msg.URL}
		if msg.Caption != "" {
			image["caption"] = Truncate(msg.Caption, maxBodyLen)
		}
		base["type"] = "image"
		base["image"] = image

	default:
		return nil, fmt.Errorf("unsupported message type %q", msg.Type)
	}

	return base, nil
}

// Truncate cuts s to max runes, replacing the tail with an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
