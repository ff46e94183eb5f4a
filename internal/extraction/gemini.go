package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for extraction.
const DefaultModelName = "gemini-2.0-flash"

// GeminiExtractor extracts transaction details from message text with a
// single Gemini call per message. No retries.
type GeminiExtractor struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGeminiExtractor creates an extractor backed by the given GenAI client.
func NewGeminiExtractor(client *genai.Client, log zerolog.Logger) *GeminiExtractor {
	return &GeminiExtractor{
		client: client,
		model:  DefaultModelName,
		log:    log,
	}
}

// Extract sends the message text to the model and parses its output.
// text must be non-empty; empty messages are filtered by the pipeline.
func (e *GeminiExtractor) Extract(ctx context.Context, text string) (Result, error) {
	prompt := buildExtractionPrompt(text)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return Result{}, fmt.Errorf("extract: generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return Result{}, fmt.Errorf("extract: %w: empty response", ErrMalformedResponse)
	}

	result, err := parseExtraction(raw)
	if err != nil {
		e.log.Debug().Str("raw", raw).Msg("Unparseable model output")
		return Result{}, err
	}
	return result, nil
}

// modelResponse mirrors the JSON object the prompt asks for. Pointer fields
// distinguish absent keys from zero values.
type modelResponse struct {
	Error    string   `json:"error"`
	Amount   *float64 `json:"amount"`
	Merchant *string  `json:"merchant"`
	Category *string  `json:"category"`
}

// parseExtraction turns the raw model text into a tagged Result. Downstream
// code never inspects untyped JSON.
func parseExtraction(raw string) (Result, error) {
	clean := cleanModelJSON(raw)

	var resp modelResponse
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return Result{}, fmt.Errorf("parse extraction: %w: %v", ErrMalformedResponse, err)
	}

	if resp.Error != "" {
		return Result{NotTransaction: true}, nil
	}

	if resp.Amount == nil || resp.Merchant == nil || resp.Category == nil {
		return Result{}, fmt.Errorf("parse extraction: %w: missing required fields", ErrMalformedResponse)
	}
	if *resp.Amount < 0 {
		return Result{}, fmt.Errorf("parse extraction: %w: negative amount %v", ErrMalformedResponse, *resp.Amount)
	}

	return Result{
		Transaction: &Transaction{
			Amount:   *resp.Amount,
			Merchant: *resp.Merchant,
			Category: *resp.Category,
		},
	}, nil
}

// cleanModelJSON strips Markdown fences and surrounding prose the model may
// emit despite the prompt instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			// Single-line weirdness; just return as-is.
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there's still junk around the JSON object,
	// try to keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}
