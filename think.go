package continuity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/continuity/internal/memory"
	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// Compile-time interface check to ensure proper implementation.
var _ Thinker = (*client)(nil)

// Thinker runs think cycles.
type Thinker interface {
	// Think runs one cycle: load history, build the prompt, call the
	// provider, store the thought, render the site and commit.
	Think(ctx context.Context) (thoughts.Thought, error)
}

// Think runs one think cycle. Cycles never run concurrently.
//
// Nothing is written when the provider call fails. Once the thought is
// stored it stays on disk even when rendering or committing fails; that
// error is returned alongside the thought.
func (c *client) Think(ctx context.Context) (thoughts.Thought, error) {
	t, err := c.think(ctx)
	if err != nil {
		c.hooks.triggerFailure(err)
	}
	return t, err
}

func (c *client) think(ctx context.Context) (thoughts.Thought, error) {
	provider := c.options.provider
	if provider == nil {
		return thoughts.Thought{}, &errors.ConfigError{
			Component: "provider",
			Message:   "no provider configured",
			Err:       errors.ErrAPIKeyRequired,
		}
	}

	c.cycle.Lock()
	defer c.cycle.Unlock()

	ctx = logging.WithCycle(ctx, uuid.NewString())
	ctx = logging.WithProvider(ctx, provider.ID())
	ctx = logging.WithModel(ctx, provider.Model())
	logger := logging.FromContext(ctx)
	start := time.Now()

	history, err := c.store.Load()
	if err != nil {
		return thoughts.Thought{}, err
	}

	logger.Info().Int("history", len(history)).Msg("Thinking")

	resp, err := provider.Generate(ctx, providers.Request{
		Prompt:      c.prompt.Build(history),
		MaxTokens:   c.options.maxTokens,
		Temperature: providers.Float(c.options.temperature),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Inference call failed")
		return thoughts.Thought{}, err
	}

	t, err := c.store.Save(resp.Text, thoughts.Meta{Provider: resp.Provider, Model: resp.Model})
	if err != nil {
		return thoughts.Thought{}, err
	}
	logger.Info().
		Int("thought", t.Number).
		Str("file", t.File).
		Int("chars", len(t.Content)).
		Msg("Thought saved")

	paths := []string{c.store.Path(t)}
	if c.options.renderSite {
		written, err := c.site.Render(append(history, t))
		if err != nil {
			return t, err
		}
		paths = append(paths, written...)
	}

	c.hooks.triggerThought(t)

	if err := c.remember(ctx, t, paths); err != nil {
		return t, err
	}

	logger.Info().Dur("elapsed", time.Since(start)).Msg("Cycle complete")
	return t, nil
}

// remember commits the cycle's files and pushes when enabled.
func (c *client) remember(ctx context.Context, t thoughts.Thought, paths []string) error {
	m := c.options.memory
	if m == nil {
		return nil
	}

	hash, err := m.Commit(ctx, paths, memory.Message(t))
	if err != nil {
		return err
	}
	if hash == "" || !m.PushEnabled() {
		return nil
	}
	return m.Push(ctx)
}
