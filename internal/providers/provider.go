// Package providers defines the contract between the think cycle and the
// hosted inference APIs it calls.
package providers

import (
	"context"

	"github.com/agentstation/continuity/pkg/constants"
)

// Provider identifiers.
const (
	IDGemini    = "gemini"
	IDVertex    = "vertex"
	IDAnthropic = "anthropic"
)

// Request is one inference call.
type Request struct {
	Prompt    string
	MaxTokens int

	// Temperature is the sampling temperature. Nil selects the default;
	// zero is a valid setting and is sent as is.
	Temperature *float64
}

// WithDefaults fills unset fields with the package defaults.
func (r Request) WithDefaults() Request {
	if r.MaxTokens <= 0 {
		r.MaxTokens = constants.DefaultMaxTokens
	}
	if r.Temperature == nil {
		t := constants.DefaultTemperature
		r.Temperature = &t
	}
	return r
}

// Float returns a pointer to v, for setting Request.Temperature.
func Float(v float64) *float64 { return &v }

// Response is the text produced by an inference call.
type Response struct {
	Text     string
	Provider string
	Model    string
}

// Provider generates text from a prompt.
type Provider interface {
	// ID returns the provider identifier (gemini, anthropic).
	ID() string

	// Model returns the model the provider calls.
	Model() string

	// Generate performs one inference call.
	Generate(ctx context.Context, req Request) (Response, error)
}
