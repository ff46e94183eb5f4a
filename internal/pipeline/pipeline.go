package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-bot/internal/extraction"
	"github.com/dvloznov/expense-bot/internal/store"
)

// Outcome is the terminal state of processing one webhook payload.
type Outcome int

const (
	// OutcomeSkipped means no work was needed: the payload carried no user
	// message, the body was empty, or the text was not a transaction.
	OutcomeSkipped Outcome = iota

	// OutcomeFailed means extraction, persistence, or delivery failed.
	// Failures never propagate past the pipeline.
	OutcomeFailed

	// OutcomeReplied means the expense was recorded and confirmed.
	OutcomeReplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeReplied:
		return "replied"
	default:
		return "unknown"
	}
}

// Pipeline turns one webhook payload into zero or one persisted expense plus
// zero or one confirmation reply. It holds no per-message state, so a single
// instance handles concurrent webhook calls.
type Pipeline struct {
	extractor Extractor
	store     ExpenseStore
	notifier  Notifier
	log       zerolog.Logger
}

// New creates a pipeline with explicitly injected collaborators.
func New(extractor Extractor, expenseStore ExpenseStore, notifier Notifier, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		store:     expenseStore,
		notifier:  notifier,
		log:       log,
	}
}

// Process runs one webhook payload to a terminal state. It never returns an
// error: every failure is logged and absorbed here so the webhook endpoint
// can acknowledge the provider unconditionally. A non-2xx acknowledgment
// would trigger provider retries and reprocess the same payload.
func (p *Pipeline) Process(ctx context.Context, payload *WebhookPayload) Outcome {
	msg, ok := payload.FirstMessage()
	if !ok {
		// Status callbacks and other non-message events land here; this is
		// routine, not a failure.
		p.log.Debug().Msg("Webhook payload carries no user message, skipping")
		return OutcomeSkipped
	}
	if msg.Body == "" {
		p.log.Debug().Str("from", msg.From).Msg("Empty message body, skipping")
		return OutcomeSkipped
	}

	result, err := p.extractor.Extract(ctx, msg.Body)
	if err != nil {
		p.log.Error().Err(err).Str("from", msg.From).Msg("Extraction failed")
		return OutcomeFailed
	}
	if result.Transaction == nil {
		// Deliberately silent: no reply for chatter, or every message would
		// earn a response.
		p.log.Debug().Str("from", msg.From).Msg("Not a transaction, skipping")
		return OutcomeSkipped
	}

	tx := result.Transaction
	expense := &store.Expense{
		UserPhone: msg.From,
		Amount:    tx.Amount,
		Merchant:  tx.Merchant,
		Category:  tx.Category,
		RawText:   msg.Body,
	}

	id, err := p.store.Record(ctx, expense)
	if err != nil {
		// No reply for a transaction that failed to persist: never confirm
		// something that was not recorded.
		p.log.Error().Err(err).Str("from", msg.From).Msg("Failed to record expense")
		return OutcomeFailed
	}

	if err := p.notifier.Send(ctx, msg.From, ConfirmationText(tx)); err != nil {
		// The expense is already persisted and stays persisted. A lost
		// confirmation is acceptable; a lost record is not.
		p.log.Error().Err(err).Int64("expense_id", id).Str("from", msg.From).Msg("Failed to send confirmation")
		return OutcomeFailed
	}

	p.log.Info().
		Int64("expense_id", id).
		Str("from", msg.From).
		Str("merchant", tx.Merchant).
		Str("category", tx.Category).
		Msg("Expense recorded and confirmed")
	return OutcomeReplied
}

// ConfirmationText renders the reply sent after a successful recording.
// Amounts print without trailing zeros, so 50 renders as ₹50, not ₹50.00.
func ConfirmationText(tx *extraction.Transaction) string {
	amount := strconv.FormatFloat(tx.Amount, 'f', -1, 64)
	return fmt.Sprintf("✅ Recorded ₹%s for %s (%s)", amount, tx.Merchant, tx.Category)
}
