package pipeline

import (
	"context"

	"github.com/dvloznov/expense-bot/internal/extraction"
	"github.com/dvloznov/expense-bot/internal/store"
)

// Extractor turns free-form message text into a structured extraction result.
// This interface enables mocking the Gemini-backed extractor in tests.
type Extractor interface {
	Extract(ctx context.Context, text string) (extraction.Result, error)
}

// ExpenseStore persists one extracted expense and returns the store-assigned
// row id.
type ExpenseStore interface {
	Record(ctx context.Context, exp *store.Expense) (int64, error)
}

// Notifier delivers one outbound text message to a recipient.
type Notifier interface {
	Send(ctx context.Context, to, text string) error
}
