// Package anthropic provides a Provider for the Anthropic Messages API.
package anthropic

import (
	"context"
	"strings"

	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/internal/transport"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-sonnet-4-20250514"

	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"

	// MaxTemperature is the highest sampling temperature the Messages API accepts.
	MaxTemperature = 1.0
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Content    []contentBlock `json:"content"`
}

// Client implements providers.Provider for Anthropic.
type Client struct {
	model     string
	baseURL   string
	transport *transport.Client
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
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTransportOptions passes options through to the HTTP transport.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(c *Client) {
		for _, opt := range opts {
			opt(c.transport)
		}
	}
}

// NewClient creates an Anthropic client authenticated by apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, &errors.AuthenticationError{
			Provider: providers.IDAnthropic,
			Method:   "api_key",
			Message:  "ANTHROPIC_API_KEY is not set",
			Err:      errors.ErrAPIKeyRequired,
		}
	}
	c := &Client{
		model:   DefaultModel,
		baseURL: DefaultBaseURL,
		transport: transport.New(
			providers.IDAnthropic,
			&transport.HeaderAuth{Header: "x-api-key"},
			apiKey,
			transport.WithHeader("anthropic-version", APIVersion),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ID implements providers.Provider.
func (c *Client) ID() string { return providers.IDAnthropic }

// Model implements providers.Provider.
func (c *Client) Model() string { return c.model }

// Generate implements providers.Provider.
func (c *Client) Generate(ctx context.Context, req providers.Request) (providers.Response, error) {
	req = req.WithDefaults()

	temperature := *req.Temperature
	if temperature > MaxTemperature {
		logging.FromContext(ctx).Debug().
			Float64("requested", temperature).
			Float64("sent", MaxTemperature).
			Msg("Clamping temperature to the Anthropic range")
		temperature = MaxTemperature
	}

	body := messagesRequest{
		Model:       c.model,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
		Messages:    []message{{Role: "user", Content: req.Prompt}},
	}

	logging.FromContext(ctx).Debug().
		Str("model", c.model).
		Int("prompt_chars", len(req.Prompt)).
		Msg("Calling Anthropic")

	var resp messagesResponse
	if err := c.transport.PostJSON(ctx, c.baseURL+"/v1/messages", body, &resp); err != nil {
		return providers.Response{}, err
	}

	text := firstText(resp.Content)
	if text == "" {
		return providers.Response{}, &errors.APIError{
			Provider: providers.IDAnthropic,
			Endpoint: c.baseURL + "/v1/messages",
			Message:  "unexpected response: no text content",
			Err:      errors.ErrEmptyResponse,
		}
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return providers.Response{
		Text:     text,
		Provider: providers.IDAnthropic,
		Model:    model,
	}, nil
}

func firstText(blocks []contentBlock) string {
	for _, b := range blocks {
		if b.Type == "" || b.Type == "text" {
			if strings.TrimSpace(b.Text) != "" {
				return b.Text
			}
		}
	}
	return ""
}
