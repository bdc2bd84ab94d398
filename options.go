package continuity

import (
	"context"
	"time"

	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/internal/schedule"
	"github.com/agentstation/continuity/internal/site"
	"github.com/agentstation/continuity/pkg/constants"
)

// Memory records the files written by a cycle.
type Memory interface {
	// Commit stages paths and commits them, returning "" when nothing changed
	Commit(ctx context.Context, paths []string, message string) (string, error)

	// Push publishes commits to the remote
	Push(ctx context.Context) error

	// PushEnabled reports whether Push should follow a commit
	PushEnabled() bool
}

// options holds the configuration for a client.
type options struct {
	thoughtsDir  string
	site         site.Config
	renderSite   bool
	provider     providers.Provider
	memory       Memory
	schedule     schedule.Spec
	contextSize  int
	identity     string
	identityFile string
	maxTokens    int
	temperature  float64
	now          func() time.Time
}

// Option is a function that configures a client.
type Option func(*options)

func defaults() *options {
	return &options{
		thoughtsDir: constants.DefaultThoughtsDir,
		site:        site.Config{Dir: constants.DefaultSiteDir},
		renderSite:  true,
		schedule:    schedule.Spec{Cron: constants.DefaultSchedule},
		contextSize: constants.DefaultContextSize,
		maxTokens:   constants.DefaultMaxTokens,
		temperature: constants.DefaultTemperature,
		now:         time.Now,
	}
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithThoughtsDir sets the directory thought files are stored in.
func WithThoughtsDir(dir string) Option {
	return func(o *options) {
		o.thoughtsDir = dir
	}
}

// WithSiteDir sets the directory the site is rendered into.
func WithSiteDir(dir string) Option {
	return func(o *options) {
		o.site.Dir = dir
	}
}

// WithSite replaces the whole site configuration.
func WithSite(cfg site.Config) Option {
	return func(o *options) {
		o.site = cfg
	}
}

// WithoutSite disables rendering after each thought.
func WithoutSite() Option {
	return func(o *options) {
		o.renderSite = false
	}
}

// WithProvider sets the inference provider.
func WithProvider(p providers.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithMemory commits every thought through m.
func WithMemory(m Memory) Option {
	return func(o *options) {
		o.memory = m
	}
}

// WithSchedule sets when scheduled thinking runs.
func WithSchedule(spec schedule.Spec) Option {
	return func(o *options) {
		o.schedule = spec
	}
}

// WithInterval runs scheduled thinking every d instead of on a cron expression.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		o.schedule = schedule.Spec{Interval: d}
	}
}

// WithImmediate runs one scheduled cycle as soon as the scheduler starts,
// keeping the configured schedule.
func WithImmediate() Option {
	return func(o *options) {
		o.schedule.Immediate = true
	}
}

// WithContextSize sets how many recent thoughts go into each prompt.
func WithContextSize(n int) Option {
	return func(o *options) {
		o.contextSize = n
	}
}

// WithIdentity replaces the identity preamble.
func WithIdentity(identity string) Option {
	return func(o *options) {
		o.identity = identity
	}
}

// WithIdentityFile reads the identity preamble from path.
func WithIdentityFile(path string) Option {
	return func(o *options) {
		o.identityFile = path
	}
}

// WithMaxTokens bounds the length of each thought.
func WithMaxTokens(n int) Option {
	return func(o *options) {
		o.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *options) {
		o.temperature = t
	}
}

// WithClock overrides the time source used to stamp thoughts.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
