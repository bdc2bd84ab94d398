// Package registry picks the inference provider for a think cycle from the
// configured credentials.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/internal/providers/anthropic"
	"github.com/agentstation/continuity/internal/providers/google"
	"github.com/agentstation/continuity/pkg/errors"
)

// NoKeyMessage is reported when no credential is configured.
const NoKeyMessage = "No API key found. Set GEMINI_API_KEY or ANTHROPIC_API_KEY."

// Config carries the provider settings resolved from configuration.
type Config struct {
	// Provider forces a provider ID; empty selects by available key.
	Provider string
	Model    string
	BaseURL  string

	GeminiAPIKey    string
	AnthropicAPIKey string

	// Vertex AI settings, used only when Provider is "vertex"
	Project  string
	Location string
}

// Key returns the API key configured for the provider id.
func (c Config) Key(id string) string {
	switch id {
	case providers.IDGemini:
		return c.GeminiAPIKey
	case providers.IDAnthropic:
		return c.AnthropicAPIKey
	}
	return ""
}

// Factory builds a provider from an API key and config.
type Factory func(apiKey string, cfg Config) (providers.Provider, error)

var (
	factories = map[string]Factory{
		providers.IDGemini: func(apiKey string, cfg Config) (providers.Provider, error) {
			return google.NewClient(apiKey, google.WithModel(cfg.Model), google.WithBaseURL(cfg.BaseURL))
		},
		providers.IDVertex: func(_ string, cfg Config) (providers.Provider, error) {
			return google.NewVertexClient(cfg.Project, cfg.Location, google.WithModel(cfg.Model), google.WithBaseURL(cfg.BaseURL))
		},
		providers.IDAnthropic: func(apiKey string, cfg Config) (providers.Provider, error) {
			opts := []anthropic.Option{anthropic.WithModel(cfg.Model)}
			if cfg.BaseURL != "" {
				opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
			}
			return anthropic.NewClient(apiKey, opts...)
		},
	}

	// preference order when no provider is forced; vertex authenticates
	// without a key and is only used when selected
	preference = []string{providers.IDGemini, providers.IDAnthropic}
)

// Supported returns the registered provider IDs in sorted order.
func Supported() []string {
	ids := make([]string, 0, len(factories))
	for id := range factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Select returns the provider for cfg. An explicit cfg.Provider wins;
// otherwise Gemini is preferred over Anthropic when both keys are set.
func Select(cfg Config) (providers.Provider, error) {
	if id := strings.ToLower(strings.TrimSpace(cfg.Provider)); id != "" {
		f, ok := factories[id]
		if !ok {
			return nil, errors.NewValidationError("provider", cfg.Provider,
				fmt.Sprintf("unknown provider (supported: %s)", strings.Join(Supported(), ", ")))
		}
		return f(cfg.Key(id), cfg)
	}

	for _, id := range preference {
		key := cfg.Key(id)
		if key == "" {
			continue
		}
		return factories[id](key, cfg)
	}

	return nil, &errors.AuthenticationError{
		Method:  "api_key",
		Message: NoKeyMessage,
		Err:     errors.ErrAPIKeyRequired,
	}
}
