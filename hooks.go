package continuity

import (
	"sync"

	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for stream events.
type (
	// ThoughtHook is called after a thought is stored and rendered
	ThoughtHook func(t thoughts.Thought)

	// FailureHook is called when a think cycle fails
	FailureHook func(err error)
)

// Hooks registers event callbacks.
type Hooks interface {
	// OnThought registers a callback for new thoughts
	OnThought(fn ThoughtHook)

	// OnFailure registers a callback for failed cycles
	OnFailure(fn FailureHook)
}

// OnThought registers a callback for new thoughts.
func (c *client) OnThought(fn ThoughtHook) {
	c.hooks.onThought(fn)
}

// OnFailure registers a callback for failed cycles.
func (c *client) OnFailure(fn FailureHook) {
	c.hooks.onFailure(fn)
}

// hooks manages event callbacks.
type hooks struct {
	mu      sync.RWMutex
	thought []ThoughtHook
	failure []FailureHook
}

func newHooks() *hooks {
	return &hooks{}
}

func (h *hooks) onThought(fn ThoughtHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.thought = append(h.thought, fn)
}

func (h *hooks) onFailure(fn FailureHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failure = append(h.failure, fn)
}

func (h *hooks) triggerThought(t thoughts.Thought) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.thought {
		safeCall(func() { fn(t) })
	}
}

func (h *hooks) triggerFailure(err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.failure {
		safeCall(func() { fn(err) })
	}
}

// safeCall runs fn, logging instead of propagating a panic.
func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Msg("Hook panicked")
		}
	}()
	fn()
}
