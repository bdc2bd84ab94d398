package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity"
	"github.com/agentstation/continuity/internal/providers/fake"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		ThoughtsDir: filepath.Join(dir, "thoughts"),
		SiteDir:     dir,
		ContextSize: 10,
		MaxTokens:   1000,
		Temperature: 0.9,
		Schedule:    "0 * * * *",
		LogFormat:   "json",
		LogOutput:   "stderr",
		Serve:       ServeConfig{Host: "127.0.0.1", Port: 9000, RateLimit: 10},
	}
}

func newTestApp(t *testing.T, cfg *Config, opts ...Option) *App {
	t.Helper()
	logging.DisableLoggingForTest(t)
	a, err := New("1.0.0", "abc123", "2026-01-01", "test", append([]Option{WithConfig(cfg)}, opts...)...)
	require.NoError(t, err)
	return a
}

func TestApp_New(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	assert.Equal(t, "1.0.0", a.Version())
	assert.Equal(t, "abc123", a.Commit())
	assert.Equal(t, "2026-01-01", a.Date())
	assert.Equal(t, "test", a.BuiltBy())
	assert.NotNil(t, a.Logger())
	assert.NotNil(t, a.Config())
}

func TestApp_ProviderRequiresKey(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	_, err := a.Provider()
	assert.True(t, errors.IsAPIKeyError(err))
}

func TestApp_ProviderFromKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.AnthropicAPIKey = "sk-test"
	a := newTestApp(t, cfg)

	p, err := a.Provider()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.ID())
}

func TestApp_ClientWithoutProvider(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	c, err := a.Client()
	require.NoError(t, err)

	all, err := c.Thoughts()
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = c.Think(context.Background())
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
}

func TestApp_ClientSingleton(t *testing.T) {
	a := newTestApp(t, testConfig(t), WithProvider(fake.New("x")))

	const goroutines = 20
	var wg sync.WaitGroup
	clients := make([]continuity.Client, goroutines)
	for i := range goroutines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := a.Client()
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range clients[1:] {
		assert.Same(t, clients[0], c)
	}

	fresh, err := a.Client(continuity.WithContextSize(3))
	require.NoError(t, err)
	assert.NotSame(t, clients[0], fresh, "options build a new client")
}

func TestApp_ThinkCycle(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg, WithProvider(fake.New("a first thought")))

	c, err := a.Client()
	require.NoError(t, err)

	th, err := c.Think(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, th.Number)
	assert.FileExists(t, filepath.Join(cfg.ThoughtsDir, th.File))
	assert.FileExists(t, filepath.Join(cfg.SiteDir, "index.html"))
}

func TestApp_MemoryDisabled(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	m, err := a.Memory()
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestApp_MemoryOutsideRepository(t *testing.T) {
	cfg := testConfig(t)
	cfg.Git.Enabled = true
	a := newTestApp(t, cfg)

	_, err := a.Memory()
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "memory", cfgErr.Component)
}

func TestApp_MemoryInit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Git = GitConfig{Enabled: true, Init: true, AuthorName: "Test", AuthorEmail: "test@example.com"}
	a := newTestApp(t, cfg)

	m, err := a.Memory()
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.DirExists(t, filepath.Join(m.Root(), ".git"))

	again, err := a.Memory()
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestApp_ServeConfig(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg)

	sc := a.ServeConfig()
	assert.Equal(t, "127.0.0.1", sc.Host)
	assert.Equal(t, 9000, sc.Port)
	assert.Equal(t, cfg.SiteDir, sc.SiteDir)
	assert.Equal(t, 10, sc.RateLimit)
	assert.False(t, sc.AuthEnabled)
	assert.Equal(t, "1.0.0", sc.Version)

	cfg.Serve.APIKey = "k"
	sc = a.ServeConfig()
	assert.True(t, sc.AuthEnabled)
	assert.Equal(t, "k", sc.APIKey)
}

func TestApp_Shutdown(t *testing.T) {
	a := newTestApp(t, testConfig(t), WithProvider(fake.New("x")))
	require.NoError(t, a.Shutdown(context.Background()), "no client yet")

	c, err := a.Client()
	require.NoError(t, err)
	require.NoError(t, c.AutoThinkOn())

	require.NoError(t, a.Shutdown(context.Background()))
	assert.True(t, c.NextThink().IsZero())
}

func TestApp_ExecuteVersion(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out := captureStdout(t, func() {
		require.NoError(t, a.Execute(context.Background(), []string{"version", "-o", "table"}))
	})
	assert.Contains(t, out, "continuity version 1.0.0")
}

func TestApp_ExecuteRender(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg)

	out := captureStdout(t, func() {
		require.NoError(t, a.Execute(context.Background(), []string{"render", "--log-level", "error"}))
	})
	assert.Contains(t, out, "Rendered 0 thoughts.")
	assert.FileExists(t, filepath.Join(cfg.SiteDir, "index.html"))
	assert.Equal(t, "error", a.Config().LogLevel)
}

func TestApp_ExecuteThinkWithoutKey(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	err := a.Execute(context.Background(), []string{"think"})
	assert.True(t, errors.IsAPIKeyError(err))
	assert.Equal(t, "No API key found. Set GEMINI_API_KEY or ANTHROPIC_API_KEY.", userMessage(err))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "plain", userMessage(errors.New("plain")))
	assert.Equal(t, "missing key", userMessage(&errors.AuthenticationError{Method: "api_key", Message: "missing key"}))
}

// captureStdout collects what fn writes to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, r)
		close(done)
	}()

	fn()
	require.NoError(t, w.Close())
	<-done
	return buf.String()
}
