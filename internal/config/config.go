// Package config assembles the process configuration from environment
// variables. The result is an explicit value handed to every component at
// startup; nothing reads the environment after Load returns.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Provider names accepted in DOCGEN_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// Config holds everything the service needs to run.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DatabasePath is the SQLite file location.
	DatabasePath string
	// BaseURL is the public root of this service; the webhook callback and
	// OAuth return URLs are derived from it.
	BaseURL string

	// TrelloAPIKey is the application key paired with per-user tokens.
	TrelloAPIKey string
	// TrelloBaseURL overrides the Trello API root (tests, proxies).
	TrelloBaseURL string

	// Provider selects the generation backend.
	Provider string
	// ProviderAPIKey authenticates against the selected provider.
	ProviderAPIKey string
	// Model overrides the provider's default model name.
	Model string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          envOr("AUTODOCGEN_ADDR", ":8080"),
		DatabasePath:  envOr("AUTODOCGEN_DB", "autodocgen.db"),
		BaseURL:       strings.TrimRight(os.Getenv("BASE_URL"), "/"),
		TrelloAPIKey:  os.Getenv("TRELLO_API_KEY"),
		TrelloBaseURL: os.Getenv("TRELLO_BASE_URL"),
		Provider:      strings.ToLower(envOr("DOCGEN_PROVIDER", ProviderGemini)),
		Model:         os.Getenv("DOCGEN_MODEL"),
	}

	if cfg.TrelloAPIKey == "" {
		return nil, fmt.Errorf("TRELLO_API_KEY missing from environment")
	}

	switch cfg.Provider {
	case ProviderGemini:
		cfg.ProviderAPIKey = os.Getenv("GEMINI_API_KEY")
	case ProviderOpenAI:
		cfg.ProviderAPIKey = os.Getenv("OPENAI_API_KEY")
	case ProviderClaude:
		cfg.ProviderAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	if cfg.ProviderAPIKey == "" {
		return nil, fmt.Errorf("API key for provider %s missing from environment", cfg.Provider)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
