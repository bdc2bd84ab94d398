// Package fake provides an in-memory Provider for tests.
package fake

import (
	"context"
	"sync"

	"github.com/agentstation/continuity/internal/providers"
)

// Provider returns canned responses and records every request.
type Provider struct {
	Name      string
	ModelName string

	mu        sync.Mutex
	responses []string
	err       error
	requests  []providers.Request
}

// New creates a fake provider that answers with responses in order,
// repeating the last one once exhausted.
func New(responses ...string) *Provider {
	return &Provider{Name: "fake", ModelName: "fake-model", responses: responses}
}

// Fail makes every subsequent Generate call return err.
func (p *Provider) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Requests returns the requests received so far.
func (p *Provider) Requests() []providers.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]providers.Request, len(p.requests))
	copy(out, p.requests)
	return out
}

// ID implements providers.Provider.
func (p *Provider) ID() string { return p.Name }

// Model implements providers.Provider.
func (p *Provider) Model() string { return p.ModelName }

// Generate implements providers.Provider.
func (p *Provider) Generate(ctx context.Context, req providers.Request) (providers.Response, error) {
	if err := ctx.Err(); err != nil {
		return providers.Response{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if p.err != nil {
		return providers.Response{}, p.err
	}

	text := ""
	switch n := len(p.requests); {
	case len(p.responses) == 0:
	case n <= len(p.responses):
		text = p.responses[n-1]
	default:
		text = p.responses[len(p.responses)-1]
	}
	return providers.Response{Text: text, Provider: p.Name, Model: p.ModelName}, nil
}
