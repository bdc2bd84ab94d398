package history

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity"
	"github.com/agentstation/continuity/internal/cmd/application"
	"github.com/agentstation/continuity/internal/memory"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/thoughts"
)

func seeded(t *testing.T, contents ...string) (continuity.Client, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "thoughts")
	store := thoughts.NewStore(dir)
	for _, c := range contents {
		_, err := store.Save(c, thoughts.Meta{Provider: "gemini"})
		require.NoError(t, err)
	}
	client, err := continuity.New(continuity.WithThoughtsDir(dir), continuity.WithoutSite())
	require.NoError(t, err)
	return client, dir
}

func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHistory_Table(t *testing.T) {
	logging.DisableLoggingForTest(t)
	client, _ := seeded(t, "## First light\nbody", "second")

	out, err := execute(t, &application.Mock{
		ClientFunc: func(...continuity.Option) (continuity.Client, error) { return client, nil },
	})
	require.NoError(t, err)

	assert.Contains(t, strings.ToUpper(out), "PROVIDER")
	assert.Contains(t, out, "First light")
	assert.Contains(t, out, "second")
}

func TestHistory_LimitJSON(t *testing.T) {
	logging.DisableLoggingForTest(t)
	client, _ := seeded(t, "one", "two", "three")

	out, err := execute(t, &application.Mock{
		ClientFunc:       func(...continuity.Option) (continuity.Client, error) { return client, nil },
		OutputFormatFunc: func() string { return "json" },
	}, "--limit", "2")
	require.NoError(t, err)

	var got []thoughts.Thought
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Content)
	assert.Equal(t, "three", got[1].Content)
}

func TestHistory_NegativeLimit(t *testing.T) {
	_, err := execute(t, &application.Mock{}, "--limit", "-1")
	assert.True(t, errors.IsValidationError(err))
}

func TestHistory_GitDisabled(t *testing.T) {
	_, err := execute(t, &application.Mock{}, "--git")
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "git", cfgErr.Component)
}

func TestHistory_Git(t *testing.T) {
	logging.DisableLoggingForTest(t)
	root := t.TempDir()
	mem, err := memory.Open(memory.Config{Dir: root, Init: true})
	require.NoError(t, err)

	dir := filepath.Join(root, "thoughts")
	saved, err := thoughts.NewStore(dir).Save("remember me", thoughts.Meta{})
	require.NoError(t, err)
	_, err = mem.Commit(t.Context(), []string{filepath.Join(dir, saved.File)}, memory.Message(saved))
	require.NoError(t, err)

	out, err := execute(t, &application.Mock{
		MemoryFunc:       func() (*memory.Memory, error) { return mem, nil },
		ThoughtsDirFunc:  func() string { return dir },
		OutputFormatFunc: func() string { return "json" },
	}, "--git")
	require.NoError(t, err)

	var entries []memory.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Thought #1", entries[0].Subject)
}
