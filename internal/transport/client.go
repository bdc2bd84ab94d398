package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sethgrid/pester"

	"github.com/agentstation/continuity/pkg/constants"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client performs authenticated HTTP requests with retries on transport
// errors and 5xx responses.
type Client struct {
	http     *pester.Client
	auth     Authenticator
	apiKey   string
	provider string
	headers  map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithMaxRetries overrides the number of retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.http.MaxRetries = n
	}
}

// WithBackoff overrides the delay between retries.
func WithBackoff(backoff func(retry int) time.Duration) Option {
	return func(c *Client) {
		c.http.Backoff = backoff
	}
}

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a client for provider that authenticates with apiKey.
func New(provider string, auth Authenticator, apiKey string, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}

	hc := pester.New()
	hc.MaxRetries = constants.MaxRetries
	hc.Backoff = pester.ExponentialJitterBackoff
	hc.KeepLog = true
	hc.Timeout = DefaultHTTPTimeout

	c := &Client{
		http:     hc,
		auth:     auth,
		apiKey:   apiKey,
		provider: provider,
		headers:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication and common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logging.FromContext(req.Context()).Debug().
			Str("provider", c.provider).
			Str("attempts", c.http.LogString()).
			Msg("Request failed after retries")
		return nil, &errors.APIError{
			Provider: c.provider,
			Endpoint: req.URL.String(),
			Message:  "request failed",
			Err:      err,
		}
	}
	return resp, nil
}

// PostJSON marshals body, posts it to url and decodes the JSON answer into target.
func (c *Client) PostJSON(ctx context.Context, url string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.WrapParse("json", "request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &errors.APIError{Provider: c.provider, Endpoint: url, Message: "creating request", Err: err}
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	return DecodeResponse(resp, c.provider, target)
}
