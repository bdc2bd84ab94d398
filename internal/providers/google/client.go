// Package google provides a Provider for the Gemini API built on the
// official genai SDK.
package google

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"cloud.google.com/go/auth"
	"google.golang.org/genai"

	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Client implements providers.Provider for Gemini.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client

	// Vertex AI backend, authenticated with Application Default Credentials
	vertex      bool
	project     string
	location    string
	credentials *auth.Credentials

	// genai client, created lazily and reused across calls
	genaiClient *genai.Client
	mu          sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Gemini client authenticated by apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, &errors.AuthenticationError{
			Provider: providers.IDGemini,
			Method:   "api_key",
			Message:  "GEMINI_API_KEY is not set",
			Err:      errors.ErrAPIKeyRequired,
		}
	}
	c := &Client{apiKey: apiKey, model: DefaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ID implements providers.Provider.
func (c *Client) ID() string {
	if c.vertex {
		return providers.IDVertex
	}
	return providers.IDGemini
}

// Model implements providers.Provider.
func (c *Client) Model() string { return c.model }

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.genaiClient != nil {
		return c.genaiClient, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.vertex {
		var err error
		if cfg, err = c.vertexConfig(ctx); err != nil {
			return nil, err
		}
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, &errors.ConfigError{
			Component: c.ID(),
			Message:   "creating genai client",
			Err:       err,
		}
	}
	c.genaiClient = gc
	return gc, nil
}

// Generate implements providers.Provider.
func (c *Client) Generate(ctx context.Context, req providers.Request) (providers.Response, error) {
	req = req.WithDefaults()

	gc, err := c.client(ctx)
	if err != nil {
		return providers.Response{}, err
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
		Temperature:     genai.Ptr(float32(*req.Temperature)),
	}

	logging.FromContext(ctx).Debug().
		Str("model", c.model).
		Int("prompt_chars", len(req.Prompt)).
		Str("backend", c.ID()).
		Msg("Calling Gemini")

	resp, err := gc.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return providers.Response{}, &errors.APIError{
			Provider: c.ID(),
			Endpoint: c.model + ":generateContent",
			Message:  err.Error(),
			Err:      err,
		}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		msg := "unexpected response: no candidate text"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
		}
		return providers.Response{}, &errors.APIError{
			Provider: c.ID(),
			Endpoint: c.model + ":generateContent",
			Message:  msg,
			Err:      errors.ErrEmptyResponse,
		}
	}

	return providers.Response{
		Text:     text,
		Provider: c.ID(),
		Model:    c.model,
	}, nil
}
