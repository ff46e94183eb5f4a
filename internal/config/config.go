package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all process configuration. It is read once at startup and never
// mutated afterwards.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// WhatsAppToken is the bearer token for the WhatsApp Cloud API.
	WhatsAppToken string

	// PhoneNumberID is the WhatsApp Business phone number identifier used as
	// the sender of outbound replies.
	PhoneNumberID string

	// VerifyToken is the shared secret for the webhook verification handshake.
	VerifyToken string

	// GeminiAPIKey authenticates calls to the Gemini API.
	GeminiAPIKey string

	// SupabaseURL is the base URL of the Supabase project.
	SupabaseURL string

	// SupabaseKey is the Supabase service key used for inserts.
	SupabaseKey string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present, so local development does not
// need exported variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		WhatsAppToken: os.Getenv("WHATSAPP_TOKEN"),
		PhoneNumberID: os.Getenv("PHONE_NUMBER_ID"),
		VerifyToken:   os.Getenv("VERIFY_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_KEY"),
		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		SupabaseKey:   os.Getenv("SUPABASE_KEY"),
	}

	var missing []string
	for _, v := range []struct {
		name  string
		value string
	}{
		{"WHATSAPP_TOKEN", cfg.WhatsAppToken},
		{"PHONE_NUMBER_ID", cfg.PhoneNumberID},
		{"VERIFY_TOKEN", cfg.VerifyToken},
		{"GEMINI_KEY", cfg.GeminiAPIKey},
		{"SUPABASE_URL", cfg.SupabaseURL},
		{"SUPABASE_KEY", cfg.SupabaseKey},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
