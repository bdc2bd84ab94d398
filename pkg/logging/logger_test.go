package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity/pkg/logging"
)

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)

	logging.Debug().Msg("debug message")
	logging.Info().Str("provider", "anthropic").Msg("info message")
	logging.Warn().Msg("warning message")

	captured.AssertContains(t, "info message")
	captured.AssertContains(t, "anthropic")
	assert.Len(t, captured.Lines(), 3)
}

func TestDisableLoggingForTest(t *testing.T) {
	logging.DisableLoggingForTest(t)
	// Must not panic or write anywhere observable.
	logging.Error().Msg("silenced")
}

func TestNewLoggerFromConfig(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("file output in json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "continuity.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "warn",
			Format: "json",
			Output: path,
		})

		logger.Info().Msg("dropped")
		logger.Warn().Msg("kept")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		out := string(data)
		assert.Contains(t, out, `"message":"kept"`)
		assert.NotContains(t, out, "dropped")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "loud", Output: "discard"})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("warning alias", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "WARNING", Output: "discard"})
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("nil config", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(nil)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestTestLoggerLines(t *testing.T) {
	tl := logging.NewTestLogger(t)
	assert.Empty(t, tl.Lines())

	tl.Info().Msg("one")
	tl.Info().Msg("two")
	assert.Len(t, tl.Lines(), 2)
	assert.True(t, strings.HasPrefix(tl.Lines()[0], "{"))
	tl.AssertNotContains(t, "three")
}
