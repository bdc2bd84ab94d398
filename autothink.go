package continuity

import (
	"context"
	"time"

	"github.com/agentstation/continuity/internal/schedule"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoThinker = (*client)(nil)

// AutoThinker provides controls for scheduled thinking.
type AutoThinker interface {
	// AutoThinkOn starts thinking on the configured schedule
	AutoThinkOn() error

	// AutoThinkOff stops scheduled thinking
	AutoThinkOff() error

	// NextThink returns when the next scheduled cycle runs, or the zero
	// time when scheduled thinking is off
	NextThink() time.Time
}

// AutoThinkOn starts thinking on the configured schedule. Failed cycles are
// logged and the schedule keeps running. Calling it again restarts the
// schedule.
func (c *client) AutoThinkOn() error {
	c.schedMu.Lock()
	defer c.schedMu.Unlock()

	if c.scheduler == nil {
		s, err := schedule.New(c.options.schedule)
		if err != nil {
			return err
		}
		c.scheduler = s
	}

	return c.scheduler.Start(context.Background(), func(ctx context.Context) error {
		_, err := c.Think(ctx)
		return err
	})
}

// AutoThinkOff stops scheduled thinking. A running cycle is canceled.
func (c *client) AutoThinkOff() error {
	c.schedMu.Lock()
	defer c.schedMu.Unlock()

	if c.scheduler != nil {
		c.scheduler.Stop()
	}
	return nil
}

// NextThink returns when the next scheduled cycle runs.
func (c *client) NextThink() time.Time {
	c.schedMu.Lock()
	defer c.schedMu.Unlock()

	if c.scheduler == nil {
		return time.Time{}
	}
	return c.scheduler.NextRun()
}
