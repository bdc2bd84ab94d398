package continuity

import (
	"sync"

	"github.com/agentstation/continuity/internal/schedule"
	"github.com/agentstation/continuity/internal/site"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/prompt"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client runs think cycles and exposes the stored stream.
//
// Example usage:
//
//	provider, err := registry.Select(registry.Config{GeminiAPIKey: os.Getenv("GEMINI_API_KEY")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c, err := continuity.New(
//	    continuity.WithProvider(provider),
//	    continuity.WithThoughtsDir("thoughts"),
//	    continuity.WithInterval(time.Hour),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c.OnThought(func(t thoughts.Thought) {
//	    log.Printf("Thought #%d", t.Number)
//	})
//
//	t, err := c.Think(ctx)
type Client interface {
	// Thinker runs single think cycles
	Thinker

	// Stream gives access to stored thoughts and the site
	Stream

	// AutoThinker provides access to scheduled thinking controls
	AutoThinker

	// Hooks provides access to event callback registration
	Hooks
}

// Stream reads the stored thoughts and rebuilds the site from them.
type Stream interface {
	// Thoughts returns every stored thought, oldest first
	Thoughts() ([]thoughts.Thought, error)

	// Render rebuilds the site from the stored thoughts
	Render() ([]string, error)
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	store  *thoughts.Store
	site   *site.Renderer
	prompt *prompt.Builder

	// cycle serialises think cycles
	cycle sync.Mutex

	// scheduled thinking state
	schedMu   sync.Mutex
	scheduler *schedule.Scheduler

	hooks *hooks
}

// New creates a Client with the given options.
func New(opts ...Option) (Client, error) {
	o := defaults().apply(opts...)

	if o.contextSize <= 0 {
		return nil, errors.NewValidationError("context_size", o.contextSize, "context size must be positive")
	}

	builder := prompt.New(o.contextSize)
	if o.identity != "" {
		builder.Identity = o.identity
	}
	if err := builder.LoadIdentity(o.identityFile); err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		store:   thoughts.NewStore(o.thoughtsDir, thoughts.WithClock(o.now)),
		site:    site.New(o.site),
		prompt:  builder,
		hooks:   newHooks(),
	}

	logging.Debug().
		Str("thoughts_dir", c.store.Dir()).
		Str("site_dir", c.site.Dir()).
		Bool("memory", o.memory != nil).
		Msg("Client created")

	return c, nil
}

// Thoughts returns every stored thought, oldest first.
func (c *client) Thoughts() ([]thoughts.Thought, error) {
	return c.store.Load()
}

// Render rebuilds the site from the stored thoughts and returns the written
// paths.
func (c *client) Render() ([]string, error) {
	all, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	return c.site.Render(all)
}
