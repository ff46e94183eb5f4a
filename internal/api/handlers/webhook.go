package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-bot/internal/api/middleware"
	"github.com/dvloznov/expense-bot/internal/pipeline"
)

// MessageProcessor runs one webhook payload through the ingestion pipeline.
type MessageProcessor interface {
	Process(ctx context.Context, payload *pipeline.WebhookPayload) pipeline.Outcome
}

// WebhookHandler handles the WhatsApp webhook endpoints.
type WebhookHandler struct {
	processor   MessageProcessor
	verifyToken string
	log         zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(processor MessageProcessor, verifyToken string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor:   processor,
		verifyToken: verifyToken,
		log:         log,
	}
}

// Verify handles GET /webhook, the provider's verification handshake.
// The challenge is echoed back as an integer when the verify token matches.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if token != h.verifyToken {
		h.log.Warn().Str("remote_addr", r.RemoteAddr).Msg("Webhook verification with wrong token")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	n, err := strconv.Atoi(challenge)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "hub.challenge must be an integer")
		return
	}

	h.log.Info().Msg("Webhook verified")
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "%d", n)
}

// Receive handles POST /webhook. It always acknowledges with 200 "OK":
// a failure status would trigger provider-side retries and reprocess the
// same payload, so internal outcomes never leak into the response.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload pipeline.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Warn().Err(err).Msg("Undecodable webhook body, acknowledging anyway")
	} else {
		outcome := h.processor.Process(r.Context(), &payload)
		h.log.Debug().Stringer("outcome", outcome).Msg("Webhook payload processed")
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}

// Health handles GET /.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "Kharchaa Bot is Alive!",
	})
}
