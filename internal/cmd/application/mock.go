package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/continuity"
	"github.com/agentstation/continuity/internal/memory"
	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/internal/server"
	"github.com/agentstation/continuity/pkg/constants"
)

// Compile-time interface check.
var _ Application = (*Mock)(nil)

// Mock is a configurable Application for tests. Nil function fields return
// zero values.
type Mock struct {
	ClientFunc       func(opts ...continuity.Option) (continuity.Client, error)
	ProviderFunc     func() (providers.Provider, error)
	MemoryFunc       func() (*memory.Memory, error)
	ServeConfigFunc  func() server.Config
	ThoughtsDirFunc  func() string
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

// Client returns a client using the mock function or nil.
func (m *Mock) Client(opts ...continuity.Option) (continuity.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return nil, nil
}

// Provider returns a provider using the mock function or nil.
func (m *Mock) Provider() (providers.Provider, error) {
	if m.ProviderFunc != nil {
		return m.ProviderFunc()
	}
	return nil, nil
}

// Memory returns the memory using the mock function or nil.
func (m *Mock) Memory() (*memory.Memory, error) {
	if m.MemoryFunc != nil {
		return m.MemoryFunc()
	}
	return nil, nil
}

// ServeConfig returns the mock server config or server.DefaultConfig.
func (m *Mock) ServeConfig() server.Config {
	if m.ServeConfigFunc != nil {
		return m.ServeConfigFunc()
	}
	return server.DefaultConfig()
}

// ThoughtsDir returns the mock directory or the default.
func (m *Mock) ThoughtsDir() string {
	if m.ThoughtsDirFunc != nil {
		return m.ThoughtsDirFunc()
	}
	return constants.DefaultThoughtsDir
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
