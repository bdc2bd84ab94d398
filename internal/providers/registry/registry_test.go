package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/internal/providers/anthropic"
	"github.com/agentstation/continuity/internal/providers/google"
	"github.com/agentstation/continuity/internal/providers/registry"
	"github.com/agentstation/continuity/pkg/errors"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		cfg     registry.Config
		wantID  string
		wantErr error
	}{
		{
			name:   "gemini preferred when both keys set",
			cfg:    registry.Config{GeminiAPIKey: "g", AnthropicAPIKey: "a"},
			wantID: providers.IDGemini,
		},
		{
			name:   "anthropic when only its key is set",
			cfg:    registry.Config{AnthropicAPIKey: "a"},
			wantID: providers.IDAnthropic,
		},
		{
			name:   "explicit provider overrides preference",
			cfg:    registry.Config{Provider: "Anthropic", GeminiAPIKey: "g", AnthropicAPIKey: "a"},
			wantID: providers.IDAnthropic,
		},
		{
			name:   "vertex needs no key",
			cfg:    registry.Config{Provider: "vertex", Project: "p", AnthropicAPIKey: "a"},
			wantID: providers.IDVertex,
		},
		{
			name:    "no keys",
			cfg:     registry.Config{},
			wantErr: errors.ErrAPIKeyRequired,
		},
		{
			name:    "explicit provider without its key",
			cfg:     registry.Config{Provider: "gemini", AnthropicAPIKey: "a"},
			wantErr: errors.ErrAPIKeyRequired,
		},
		{
			name:    "unknown provider",
			cfg:     registry.Config{Provider: "openai", GeminiAPIKey: "g"},
			wantErr: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := registry.Select(tt.cfg)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID())
		})
	}
}

func TestSelect_NoKeyMessage(t *testing.T) {
	_, err := registry.Select(registry.Config{})
	var authErr *errors.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, registry.NoKeyMessage, authErr.Message)
}

func TestSelect_Model(t *testing.T) {
	p, err := registry.Select(registry.Config{GeminiAPIKey: "g"})
	require.NoError(t, err)
	assert.Equal(t, google.DefaultModel, p.Model())

	p, err = registry.Select(registry.Config{AnthropicAPIKey: "a", Model: "claude-opus-4-1"})
	require.NoError(t, err)
	assert.Equal(t, "claude-opus-4-1", p.Model())
	assert.NotEqual(t, anthropic.DefaultModel, p.Model())
}

func TestSupported(t *testing.T) {
	assert.Equal(t, []string{providers.IDAnthropic, providers.IDGemini, providers.IDVertex}, registry.Supported())
}
