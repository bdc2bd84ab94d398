// Package application defines what CLI commands need from the application.
//
// Commands accept this interface rather than the concrete app type so they
// can be tested with Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func(...continuity.Option) (continuity.Client, error) {
//	        return testClient, nil
//	    },
//	}
//	cmd := think.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/continuity"
	"github.com/agentstation/continuity/internal/memory"
	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/internal/server"
)

// Application provides the dependencies commands use.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the continuity client. Without extra options the
	// cached default client is returned; with options a new one is built.
	// The client has no provider when no API key is configured, so
	// Thoughts and Render still work.
	Client(opts ...continuity.Option) (continuity.Client, error)

	// Provider returns the selected inference provider, or the
	// authentication error explaining why none is available.
	Provider() (providers.Provider, error)

	// Memory returns the git memory, or nil when git is disabled.
	Memory() (*memory.Memory, error)

	// ServeConfig returns the server configuration from config files and env.
	ServeConfig() server.Config

	// ThoughtsDir returns the configured thoughts directory.
	ThoughtsDir() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
