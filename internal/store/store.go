package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
)

// ExpensesTable is the Supabase table that holds recorded expenses.
const ExpensesTable = "expenses"

// Expense is one recorded transaction row. The id and creation timestamp are
// assigned by the store.
type Expense struct {
	UserPhone string  `json:"user_phone"`
	Amount    float64 `json:"amount"`
	Merchant  string  `json:"merchant"`
	Category  string  `json:"category"`
	RawText   string  `json:"raw_text"`
}

// SupabaseStore appends expenses to a Supabase table over PostgREST.
// It has no read path; the insert is the only operation.
type SupabaseStore struct {
	client *postgrest.Client
	table  string
}

// NewSupabaseStore creates a store for the given Supabase project.
// supabaseURL is the project base URL, without the /rest/v1 suffix.
func NewSupabaseStore(supabaseURL, apiKey string) *SupabaseStore {
	restURL := strings.TrimRight(supabaseURL, "/") + "/rest/v1"
	client := postgrest.NewClient(restURL, "public", map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	return &SupabaseStore{
		client: client,
		table:  ExpensesTable,
	}
}

// Record inserts a single expense and returns the store-assigned row id.
// There is no idempotency key: a duplicate delivery produces a duplicate row.
func (s *SupabaseStore) Record(ctx context.Context, exp *Expense) (int64, error) {
	data, _, err := s.client.From(s.table).
		Insert(exp, false, "", "representation", "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("record expense: %w", err)
	}

	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("record expense: decode response: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("record expense: empty response from store")
	}

	return rows[0].ID, nil
}
