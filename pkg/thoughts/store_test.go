package thoughts_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/thoughts"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStore_LoadMissingDir(t *testing.T) {
	store := thoughts.NewStore(filepath.Join(t.TempDir(), "nope"))

	all, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, all)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "thoughts")
	now := time.Date(2026, 2, 11, 21, 4, 5, 123456000, time.UTC)
	store := thoughts.NewStore(dir, thoughts.WithClock(fixedClock(now)))

	saved, err := store.Save("I am still here.", thoughts.Meta{Provider: "gemini", Model: "gemini-1.5-flash"})
	require.NoError(t, err)

	assert.Equal(t, 1, saved.Number)
	assert.Equal(t, "20260211_210405.json", saved.File)
	assert.Equal(t, "2026-02-11T21:04:05.123456Z", saved.Timestamp)
	assert.FileExists(t, store.Path(saved))

	raw, err := os.ReadFile(store.Path(saved))
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, "I am still here.", onDisk["content"])
	assert.EqualValues(t, 1, onDisk["thought_number"])
	assert.Contains(t, string(raw), "\n  \"content\"")

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	if diff := cmp.Diff(saved, loaded[0]); diff != "" {
		t.Errorf("loaded thought mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestStore_SameSecondDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := thoughts.NewStore(dir, thoughts.WithClock(fixedClock(now)))

	first, err := store.Save("first", thoughts.Meta{})
	require.NoError(t, err)
	second, err := store.Save("second", thoughts.Meta{})
	require.NoError(t, err)

	assert.Equal(t, "20260301_090000.json", first.File)
	assert.Equal(t, "20260301_090000_2.json", second.File)
	assert.Equal(t, 2, second.Number)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "first", loaded[0].Content)
	assert.Equal(t, "second", loaded[1].Content)
}

func TestStore_NumberingCountsAllFiles(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101_000000.json"), []byte(`{"content":"a","timestamp":"2025-01-01T00:00:00+00:00","thought_number":1}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101_010000.json"), []byte(`{not json`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o644))

	store := thoughts.NewStore(dir, thoughts.WithClock(fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1, "malformed files are skipped")
	assert.Equal(t, "a", loaded[0].Content)

	saved, err := store.Save("b", thoughts.Meta{})
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Number, "numbering counts every json file on disk")
}

func TestStore_LoadSkipsMalformedWithWarning(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`[`), 0o644))

	loaded, err := thoughts.NewStore(dir).Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
	captured.AssertContains(t, "Skipping malformed thought")
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store := thoughts.NewStore(dir)
	_, err := store.Save("x", thoughts.Meta{})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}
