// Package app wires configuration, logging, the continuity client and its
// collaborators together for the CLI.
package app

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/continuity"
	"github.com/agentstation/continuity/internal/cmd/application"
	"github.com/agentstation/continuity/internal/memory"
	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/internal/providers/registry"
	"github.com/agentstation/continuity/internal/server"
	"github.com/agentstation/continuity/internal/site"
	"github.com/agentstation/continuity/pkg/errors"
)

// Compile-time interface check.
var _ application.Application = (*App)(nil)

// App is the continuity application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// lazily built, guarded by mu
	mu       sync.Mutex
	client   continuity.Client
	provider providers.Provider
	memory   *memory.Memory
	memOpen  bool
}

// Option configures the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithProvider sets the inference provider instead of selecting one from keys.
func WithProvider(p providers.Provider) Option {
	return func(a *App) error {
		a.provider = p
		return nil
	}
}

// New creates an App. Configuration is loaded from the default locations;
// the --config flag reloads it before a command runs.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		a.config = config
	}
	if a.logger == nil {
		logger := NewLogger(a.config)
		a.logger = &logger
	}

	return a, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format value.
func (a *App) OutputFormat() string { return a.config.Format }

// ThoughtsDir returns the configured thoughts directory.
func (a *App) ThoughtsDir() string { return a.config.ThoughtsDir }

// Provider selects the inference provider from the configured keys.
func (a *App) Provider() (providers.Provider, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.providerLocked()
}

func (a *App) providerLocked() (providers.Provider, error) {
	if a.provider != nil {
		return a.provider, nil
	}

	p, err := registry.Select(registry.Config{
		Provider:        a.config.Provider,
		Model:           a.config.Model,
		BaseURL:         a.config.BaseURL,
		GeminiAPIKey:    a.config.GeminiAPIKey,
		AnthropicAPIKey: a.config.AnthropicAPIKey,
		Project:         a.config.GoogleProject,
		Location:        a.config.GoogleLocation,
	})
	if err != nil {
		return nil, err
	}

	a.logger.Debug().Str("provider", p.ID()).Str("model", p.Model()).Msg("Provider selected")
	a.provider = p
	return p, nil
}

// Memory opens the git repository containing the thoughts directory. It
// returns nil when git is disabled.
func (a *App) Memory() (*memory.Memory, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memoryLocked()
}

func (a *App) memoryLocked() (*memory.Memory, error) {
	if a.memOpen || !a.config.Git.Enabled {
		return a.memory, nil
	}

	g := a.config.Git
	m, err := memory.Open(memory.Config{
		Dir:         filepath.Dir(filepath.Clean(a.config.ThoughtsDir)),
		Init:        g.Init,
		Push:        g.Push,
		Remote:      g.Remote,
		Branch:      g.Branch,
		Token:       g.Token,
		AuthorName:  g.AuthorName,
		AuthorEmail: g.AuthorEmail,
	})
	if err != nil {
		return nil, errors.NewConfigError("memory",
			"thoughts directory is not inside a git repository (set git.init or disable git.enabled)", err)
	}

	a.memory = m
	a.memOpen = true
	return m, nil
}

// Client returns the continuity client. Called without options it returns
// the cached default client; options build a fresh client on top of the
// configured ones.
func (a *App) Client(opts ...continuity.Option) (continuity.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(opts) == 0 && a.client != nil {
		return a.client, nil
	}

	base, err := a.clientOptions()
	if err != nil {
		return nil, err
	}

	c, err := continuity.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		a.client = c
	}
	return c, nil
}

func (a *App) clientOptions() ([]continuity.Option, error) {
	cfg := a.config

	spec, err := cfg.ScheduleSpec()
	if err != nil {
		return nil, err
	}

	opts := []continuity.Option{
		continuity.WithThoughtsDir(cfg.ThoughtsDir),
		continuity.WithSite(site.Config{
			Dir:            cfg.SiteDir,
			Title:          cfg.Site.Title,
			BaseURL:        cfg.Site.BaseURL,
			PageSize:       cfg.Site.PageSize,
			RenderMarkdown: cfg.Site.RenderMarkdown,
		}),
		continuity.WithSchedule(spec),
		continuity.WithContextSize(cfg.ContextSize),
		continuity.WithMaxTokens(cfg.MaxTokens),
		continuity.WithTemperature(cfg.Temperature),
		continuity.WithIdentityFile(cfg.IdentityFile),
	}

	// A missing key only matters once a cycle runs; reading and rendering
	// work without a provider.
	p, err := a.providerLocked()
	switch {
	case err == nil:
		opts = append(opts, continuity.WithProvider(p))
	case !errors.IsAPIKeyError(err):
		return nil, err
	}

	m, err := a.memoryLocked()
	if err != nil {
		return nil, err
	}
	if m != nil {
		opts = append(opts, continuity.WithMemory(m))
	}

	return opts, nil
}

// ServeConfig returns the server configuration derived from the config.
func (a *App) ServeConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.Host = a.config.Serve.Host
	cfg.Port = a.config.Serve.Port
	cfg.SiteDir = a.config.SiteDir
	cfg.RateLimit = a.config.Serve.RateLimit
	if a.config.Serve.CacheTTL > 0 {
		cfg.CacheTTL = a.config.Serve.CacheTTL
	}
	if a.config.Serve.APIKey != "" {
		cfg.AuthEnabled = true
		cfg.APIKey = a.config.Serve.APIKey
	}
	cfg.Version = a.version
	return cfg
}

// Shutdown stops scheduled thinking if it is running.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	c := a.client
	a.mu.Unlock()

	if c != nil {
		if err := c.AutoThinkOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop scheduled thinking during shutdown")
			return err
		}
	}
	return nil
}

// reload re-reads configuration from file, keeping flag values.
func (a *App) reload(configFile string) error {
	config, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	config.UpdateFromFlags(a.config.Verbose, a.config.Quiet, a.config.NoColor, a.config.Format, a.config.LogLevel)

	a.mu.Lock()
	a.config = config
	a.client = nil
	a.memory = nil
	a.memOpen = false
	a.mu.Unlock()
	return nil
}
