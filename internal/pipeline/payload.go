package pipeline

// WebhookPayload mirrors the nesting of WhatsApp Cloud API webhook bodies.
// Only the fields the pipeline reads are declared; everything else the
// provider sends is ignored by the decoder.
type WebhookPayload struct {
	Entry []Entry `json:"entry"`
}

type Entry struct {
	Changes []Change `json:"changes"`
}

type Change struct {
	Value ChangeValue `json:"value"`
}

// ChangeValue carries either user messages or status callbacks. Status
// callbacks have no messages array and are skipped.
type ChangeValue struct {
	Messages []Message `json:"messages"`
}

type Message struct {
	From string       `json:"from"`
	Text *MessageText `json:"text"`
}

type MessageText struct {
	Body string `json:"body"`
}

// InboundMessage is one user message lifted out of a webhook payload.
type InboundMessage struct {
	From string
	Body string
}

// FirstMessage extracts the first user message from the payload. ok is false
// when the payload carries no messages array, which is the normal shape of
// delivery-status callbacks. Additional messages in the same payload are
// ignored.
func (p *WebhookPayload) FirstMessage() (InboundMessage, bool) {
	if p == nil || len(p.Entry) == 0 {
		return InboundMessage{}, false
	}
	changes := p.Entry[0].Changes
	if len(changes) == 0 {
		return InboundMessage{}, false
	}
	messages := changes[0].Value.Messages
	if len(messages) == 0 {
		return InboundMessage{}, false
	}

	msg := messages[0]
	body := ""
	if msg.Text != nil {
		body = msg.Text.Body
	}
	return InboundMessage{From: msg.From, Body: body}, true
}
