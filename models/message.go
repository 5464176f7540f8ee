package models

// MessageType discriminates the outbound message union consumed by the
// channel sender.
type MessageType string

const (
	MessageText            MessageType = "text"
	MessageButtons         MessageType = "interactive_buttons"
	MessageList            MessageType = "interactive_list"
	MessageLocationRequest MessageType = "location_request"
	MessageImage           MessageType = "image"
)

type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Message is one outbound message descriptor. Only the fields relevant to
// Type are set; the channel gateway enforces the hard length/count limits
// before handoff.
type Message struct {
	Type         MessageType  `json:"type"`
	Body         string       `json:"body,omitempty"`
	PreviewURL   bool         `json:"previewUrl,omitempty"`
	Buttons      []Button     `json:"buttons,omitempty"`
	Header       string       `json:"header,omitempty"`
	Footer       string       `json:"footer,omitempty"`
	ButtonLabel  string       `json:"buttonLabel,omitempty"`
	SectionTitle string       `json:"sectionTitle,omitempty"`
	Rows         []ListingRow `json:"rows,omitempty"`
	URL          string       `json:"url,omitempty"`
	Caption      string       `json:"caption,omitempty"`
}

func TextMessage(body string) Message {
	return Message{Type: MessageText, Body: body}
}

func ButtonsMessage(body string, buttons ...Button) Message {
	return Message{Type: MessageButtons, Body: body, Buttons: buttons}
}

func ListMessage(body, buttonLabel, sectionTitle string, rows []ListingRow) Message {
	return Message{
		Type:         MessageList,
		Body:         body,
		ButtonLabel:  buttonLabel,
		SectionTitle: sectionTitle,
		Rows:         rows,
	}
}

func LocationRequestMessage(body string) Message {
	return Message{Type: MessageLocationRequest, Body: body}
}

// InboundKind is the normalized kind of an inbound chat event.
type InboundKind string

const (
	InboundText          InboundKind = "text"
	InboundLocation      InboundKind = "location"
	InboundButton        InboundKind = "button"
	InboundListSelection InboundKind = "list_selection"
)

// InboundEvent is one chat event after the channel adapter normalizes it.
// EventID is the channel message id, used for at-least-once deduplication.
type InboundEvent struct {
	EventID   string      `json:"eventId"`
	From      string      `json:"from"`
	Kind      InboundKind `json:"kind"`
	Text      string      `json:"text,omitempty"` // body text or button/list reply id
	Latitude  float64     `json:"latitude,omitempty"`
	Longitude float64     `json:"longitude,omitempty"`
	Address   string      `json:"address,omitempty"`
}
