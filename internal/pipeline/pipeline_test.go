package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-bot/internal/extraction"
	"github.com/dvloznov/expense-bot/internal/store"
)

// fakeExtractor is a test double for the Gemini-backed extractor.
type fakeExtractor struct {
	result   extraction.Result
	err      error
	calls    int
	lastText string
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) (extraction.Result, error) {
	f.calls++
	f.lastText = text
	return f.result, f.err
}

type fakeStore struct {
	id    int64
	err   error
	calls int
	last  *store.Expense
}

func (f *fakeStore) Record(ctx context.Context, exp *store.Expense) (int64, error) {
	f.calls++
	f.last = exp
	if f.err != nil {
		return 0, f.err
	}
	return f.id, nil
}

type fakeNotifier struct {
	err      error
	calls    int
	lastTo   string
	lastText string
}

func (f *fakeNotifier) Send(ctx context.Context, to, text string) error {
	f.calls++
	f.lastTo = to
	f.lastText = text
	return f.err
}

func transactionResult(amount float64, merchant, category string) extraction.Result {
	return extraction.Result{
		Transaction: &extraction.Transaction{
			Amount:   amount,
			Merchant: merchant,
			Category: category,
		},
	}
}

func messagePayload(from, body string) *WebhookPayload {
	return &WebhookPayload{
		Entry: []Entry{{
			Changes: []Change{{
				Value: ChangeValue{
					Messages: []Message{{
						From: from,
						Text: &MessageText{Body: body},
					}},
				},
			}},
		}},
	}
}

func newTestPipeline(e *fakeExtractor, s *fakeStore, n *fakeNotifier) *Pipeline {
	return New(e, s, n, zerolog.Nop())
}

func TestProcess_StatusCallbackSkipped(t *testing.T) {
	extractor := &fakeExtractor{}
	expenseStore := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(extractor, expenseStore, notifier)

	// Delivery-status callbacks have a value object without a messages array.
	payload := &WebhookPayload{
		Entry: []Entry{{
			Changes: []Change{{Value: ChangeValue{}}},
		}},
	}

	outcome := p.Process(context.Background(), payload)

	if outcome != OutcomeSkipped {
		t.Errorf("outcome = %v, want skipped", outcome)
	}
	if extractor.calls != 0 || expenseStore.calls != 0 || notifier.calls != 0 {
		t.Errorf("collaborators called for status callback: extractor=%d store=%d notifier=%d",
			extractor.calls, expenseStore.calls, notifier.calls)
	}
}

func TestProcess_EmptyBodySkipped(t *testing.T) {
	extractor := &fakeExtractor{}
	expenseStore := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(extractor, expenseStore, notifier)

	outcome := p.Process(context.Background(), messagePayload("919876543210", ""))

	if outcome != OutcomeSkipped {
		t.Errorf("outcome = %v, want skipped", outcome)
	}
	if extractor.calls != 0 {
		t.Errorf("extractor called %d times for empty body, want 0", extractor.calls)
	}
}

func TestProcess_NotATransactionSkipped(t *testing.T) {
	extractor := &fakeExtractor{result: extraction.Result{NotTransaction: true}}
	expenseStore := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(extractor, expenseStore, notifier)

	outcome := p.Process(context.Background(), messagePayload("919876543210", "Hey, how are you?"))

	if outcome != OutcomeSkipped {
		t.Errorf("outcome = %v, want skipped", outcome)
	}
	if extractor.lastText != "Hey, how are you?" {
		t.Errorf("extractor saw %q, want the message body", extractor.lastText)
	}
	if expenseStore.calls != 0 {
		t.Errorf("store called %d times, want 0", expenseStore.calls)
	}
	if notifier.calls != 0 {
		t.Errorf("notifier called %d times, want 0", notifier.calls)
	}
}

func TestProcess_ExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("backend unreachable")}
	expenseStore := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(extractor, expenseStore, notifier)

	outcome := p.Process(context.Background(), messagePayload("919876543210", "Paid 50 for Tea"))

	if outcome != OutcomeFailed {
		t.Errorf("outcome = %v, want failed", outcome)
	}
	if expenseStore.calls != 0 || notifier.calls != 0 {
		t.Errorf("side effects after extraction failure: store=%d notifier=%d",
			expenseStore.calls, notifier.calls)
	}
}

func TestProcess_RecordsAndReplies(t *testing.T) {
	extractor := &fakeExtractor{result: transactionResult(50, "Tea", "Food")}
	expenseStore := &fakeStore{id: 7}
	notifier := &fakeNotifier{}
	p := newTestPipeline(extractor, expenseStore, notifier)

	outcome := p.Process(context.Background(), messagePayload("919876543210", "Paid 50 for Tea"))

	if outcome != OutcomeReplied {
		t.Fatalf("outcome = %v, want replied", outcome)
	}

	if expenseStore.calls != 1 {
		t.Fatalf("store called %d times, want exactly 1", expenseStore.calls)
	}
	exp := expenseStore.last
	if exp.UserPhone != "919876543210" {
		t.Errorf("UserPhone = %q, want sender id", exp.UserPhone)
	}
	if exp.Amount != 50 || exp.Merchant != "Tea" || exp.Category != "Food" {
		t.Errorf("stored expense = %+v, want amount 50, merchant Tea, category Food", exp)
	}
	if exp.RawText != "Paid 50 for Tea" {
		t.Errorf("RawText = %q, want the original message text", exp.RawText)
	}

	if notifier.calls != 1 {
		t.Fatalf("notifier called %d times, want exactly 1", notifier.calls)
	}
	if notifier.lastTo != "919876543210" {
		t.Errorf("reply sent to %q, want the sender", notifier.lastTo)
	}
	if notifier.lastText != "✅ Recorded ₹50 for Tea (Food)" {
		t.Errorf("reply text = %q, want the confirmation format", notifier.lastText)
	}
}

func TestProcess_StoreFailureSendsNoReply(t *testing.T) {
	extractor := &fakeExtractor{result: transactionResult(50, "Tea", "Food")}
	expenseStore := &fakeStore{err: errors.New("insert failed")}
	notifier := &fakeNotifier{}
	p := newTestPipeline(extractor, expenseStore, notifier)

	outcome := p.Process(context.Background(), messagePayload("919876543210", "Paid 50 for Tea"))

	if outcome != OutcomeFailed {
		t.Errorf("outcome = %v, want failed", outcome)
	}
	if notifier.calls != 0 {
		t.Errorf("notifier called %d times after store failure, want 0 (no false confirmation)", notifier.calls)
	}
}

func TestProcess_NotifierFailureKeepsRecord(t *testing.T) {
	extractor := &fakeExtractor{result: transactionResult(50, "Tea", "Food")}
	expenseStore := &fakeStore{id: 7}
	notifier := &fakeNotifier{err: errors.New("delivery failed")}
	p := newTestPipeline(extractor, expenseStore, notifier)

	outcome := p.Process(context.Background(), messagePayload("919876543210", "Paid 50 for Tea"))

	if outcome != OutcomeFailed {
		t.Errorf("outcome = %v, want failed", outcome)
	}
	if expenseStore.calls != 1 {
		t.Errorf("store called %d times, want 1 (record is kept despite reply failure)", expenseStore.calls)
	}
}

func TestConfirmationText(t *testing.T) {
	tests := []struct {
		name string
		tx   extraction.Transaction
		want string
	}{
		{
			name: "whole amount",
			tx:   extraction.Transaction{Amount: 50, Merchant: "Tea", Category: "Food"},
			want: "✅ Recorded ₹50 for Tea (Food)",
		},
		{
			name: "fractional amount",
			tx:   extraction.Transaction{Amount: 249.5, Merchant: "Uber", Category: "Travel"},
			want: "✅ Recorded ₹249.5 for Uber (Travel)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfirmationText(&tt.tx)
			if got != tt.want {
				t.Errorf("ConfirmationText() = %q, want %q", got, tt.want)
			}
		})
	}
}
