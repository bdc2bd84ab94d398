// Package serve provides the serve command: the static site, the JSON API
// and live updates over WebSocket and SSE.
package serve

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agentstation/continuity/internal/cmd/application"
	"github.com/agentstation/continuity/internal/server"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Serve the site with live updates",
		Long: `Serve renders the site and serves it over HTTP together with a small
JSON API and live updates:

  /                        the rendered site
  /health                  liveness
  /api/v1/thoughts         stored thoughts (GET)
  /api/v1/think            run one cycle (POST, API key when configured)
  /ws, /api/v1/updates/ws  WebSocket stream of new thoughts
  /api/v1/updates/stream   Server-Sent Events stream

With --think the scheduler runs in-process and every new thought is pushed
to connected clients.`,
		Example: `  continuity serve
  continuity serve --port 3000 --think
  continuity serve --cors-origins "https://example.com" --api-key s3cret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, app)
		},
	}

	flags := cmd.Flags()
	flags.Int("port", 8080, "server port")
	flags.String("host", "localhost", "bind address")
	flags.String("prefix", "/api/v1", "API path prefix")
	flags.Bool("cors", false, "enable CORS for all origins")
	flags.StringSlice("cors-origins", nil, "allowed CORS origins (comma-separated)")
	flags.String("api-key", "", "require this key for POST /think")
	flags.String("auth-header", "X-API-Key", "authentication header name")
	flags.Int("rate-limit", 100, "requests per minute per IP (0 to disable)")
	flags.Duration("cache-ttl", 5*time.Minute, "API response cache TTL")
	flags.Bool("think", false, "run scheduled thinking in-process")

	return cmd
}

func runServer(cmd *cobra.Command, app application.Application) error {
	logger := app.Logger()
	cfg := parseConfig(cmd.Flags(), app.ServeConfig())

	think, _ := cmd.Flags().GetBool("think")
	if think {
		if _, err := app.Provider(); err != nil {
			return err
		}
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	if _, err := client.Render(); err != nil {
		return err
	}

	srv, err := server.New(client, cfg, logger)
	if err != nil {
		return err
	}

	if think {
		if err := client.AutoThinkOn(); err != nil {
			return err
		}
		defer func() {
			if err := client.AutoThinkOff(); err != nil {
				logger.Error().Err(err).Msg("Failed to stop scheduler")
			}
		}()
		logger.Info().Time("next", client.NextThink()).Msg("Scheduled thinking enabled")
	}

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("site_dir", cfg.SiteDir).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Msg("Starting server")

	return srv.ListenAndServe(cmd.Context())
}

// parseConfig overrides cfg with the flags the user set.
func parseConfig(flags *pflag.FlagSet, cfg server.Config) server.Config {
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("prefix") {
		cfg.PathPrefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("cors") {
		cfg.CORSEnabled, _ = flags.GetBool("cors")
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
		cfg.CORSEnabled = true
	}
	if flags.Changed("api-key") {
		cfg.APIKey, _ = flags.GetString("api-key")
		cfg.AuthEnabled = cfg.APIKey != ""
	}
	if flags.Changed("auth-header") {
		cfg.AuthHeader, _ = flags.GetString("auth-header")
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit, _ = flags.GetInt("rate-limit")
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL, _ = flags.GetDuration("cache-ttl")
	}

	return cfg
}
