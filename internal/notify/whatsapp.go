package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultGraphBaseURL is the WhatsApp Cloud API endpoint.
const DefaultGraphBaseURL = "https://graph.facebook.com/v18.0"

// WhatsAppNotifier sends plain-text messages through the WhatsApp Cloud API.
// Delivery is fire-and-forget: no retries, no delivery-status tracking beyond
// the HTTP response.
type WhatsAppNotifier struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	phoneNumberID string
}

// NewWhatsAppNotifier creates a notifier sending from the given business
// phone number.
func NewWhatsAppNotifier(token, phoneNumberID string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		baseURL:       DefaultGraphBaseURL,
		token:         token,
		phoneNumberID: phoneNumberID,
	}
}

type sendMessageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             messageText `json:"text"`
}

type messageText struct {
	Body string `json:"body"`
}

// Send delivers one text message to the recipient identified by its
// provider-assigned phone number.
func (n *WhatsAppNotifier) Send(ctx context.Context, to, text string) error {
	payload := sendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             messageText{Body: text},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("send message: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", n.baseURL, n.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, detail)
	}

	return nil
}
