package extraction

import "errors"

// Categories is the closed set the model is instructed to choose from.
// Values outside this list are stored as-is; the enumeration constrains the
// prompt, not the pipeline.
var Categories = []string{"Food", "Travel", "Bills", "Shopping", "Other"}

// Transaction holds the structured fields extracted from one message.
type Transaction struct {
	Amount   float64
	Merchant string
	Category string
}

// Result is the outcome of one extraction call. Exactly one variant holds:
// either Transaction is non-nil, or NotTransaction is true.
type Result struct {
	Transaction    *Transaction
	NotTransaction bool
}

// ErrMalformedResponse marks model output that could not be parsed into the
// expected structure. It is distinct from transport failures so callers can
// tell a broken response apart from an unreachable backend.
var ErrMalformedResponse = errors.New("malformed model response")
