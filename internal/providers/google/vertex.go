package google

import (
	"context"
	"time"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"google.golang.org/genai"

	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/pkg/errors"
)

// DefaultLocation is the Vertex AI region used when none is configured.
const DefaultLocation = "us-central1"

// credentialTimeout bounds Application Default Credentials detection.
const credentialTimeout = 2 * time.Second

var vertexScopes = []string{"https://www.googleapis.com/auth/cloud-platform"}

// detectCredentials is replaced in tests.
var detectCredentials = func() (*auth.Credentials, error) {
	return credentials.DetectDefault(&credentials.DetectOptions{Scopes: vertexScopes})
}

// WithCredentials sets the credentials used for Vertex AI instead of
// detecting Application Default Credentials.
func WithCredentials(creds *auth.Credentials) Option {
	return func(c *Client) {
		c.credentials = creds
	}
}

// NewVertexClient creates a client for Gemini on Vertex AI. An empty project
// is read from the credentials; an empty location selects DefaultLocation.
func NewVertexClient(project, location string, opts ...Option) (*Client, error) {
	if location == "" {
		location = DefaultLocation
	}
	c := &Client{
		model:    DefaultModel,
		vertex:   true,
		project:  project,
		location: location,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// vertexConfig resolves credentials and project for the Vertex backend.
// Called with c.mu held.
func (c *Client) vertexConfig(ctx context.Context) (*genai.ClientConfig, error) {
	creds, err := c.detect(ctx)
	if err != nil {
		return nil, err
	}

	if c.project == "" {
		c.project = projectFrom(ctx, creds)
	}
	if c.project == "" {
		return nil, &errors.ConfigError{
			Component: providers.IDVertex,
			Message:   "project ID not configured - set GOOGLE_CLOUD_PROJECT or configure ADC with a project",
		}
	}

	return &genai.ClientConfig{
		Backend:     genai.BackendVertexAI,
		Project:     c.project,
		Location:    c.location,
		Credentials: creds,
		HTTPClient:  c.httpClient,
	}, nil
}

// detect returns the configured credentials or detects Application Default
// Credentials. DetectDefault takes no context, so it runs in a goroutine.
func (c *Client) detect(ctx context.Context) (*auth.Credentials, error) {
	if c.credentials != nil {
		return c.credentials, nil
	}

	type result struct {
		creds *auth.Credentials
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		creds, err := detectCredentials()
		ch <- result{creds: creds, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, &errors.AuthenticationError{
				Provider: providers.IDVertex,
				Method:   "adc",
				Message:  "no Application Default Credentials found - run gcloud auth application-default login",
				Err:      res.err,
			}
		}
		c.credentials = res.creds
		return res.creds, nil
	case <-time.After(credentialTimeout):
		return nil, &errors.ConfigError{
			Component: providers.IDVertex,
			Message:   "credential detection timed out",
			Err:       errors.ErrTimeout,
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// projectFrom reads the quota project, then the project, from creds.
func projectFrom(ctx context.Context, creds *auth.Credentials) string {
	if id, err := creds.QuotaProjectID(ctx); err == nil && id != "" {
		return id
	}
	if id, err := creds.ProjectID(ctx); err == nil && id != "" {
		return id
	}
	return ""
}
