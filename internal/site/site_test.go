package site_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity/internal/site"
	"github.com/agentstation/continuity/pkg/thoughts"
)

func history(n int) []thoughts.Thought {
	all := make([]thoughts.Thought, n)
	for i := range all {
		all[i] = thoughts.Thought{
			Content:   fmt.Sprintf("thought body %d", i+1),
			Timestamp: fmt.Sprintf("2026-02-%02dT09:30:00+00:00", i%28+1),
			Number:    i + 1,
			File:      fmt.Sprintf("202602%02d_093000.json", i%28+1),
		}
	}
	return all
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRender_WritesAllFiles(t *testing.T) {
	dir := t.TempDir()
	r := site.New(site.Config{Dir: dir})

	written, err := r.Render(history(3))
	require.NoError(t, err)
	assert.Equal(t, r.Files(), written)
	for _, path := range written {
		assert.FileExists(t, path)
	}
}

func TestRender_Index(t *testing.T) {
	dir := t.TempDir()
	all := history(3)
	all[2].Content = "a < b && c > d"

	_, err := site.New(site.Config{Dir: dir}).Render(all)
	require.NoError(t, err)

	html := read(t, filepath.Join(dir, site.IndexFile))
	assert.Contains(t, html, "<title>Continuity</title>")
	assert.Contains(t, html, "3 thoughts and counting.")
	assert.Contains(t, html, site.Intro)
	assert.Contains(t, html, "a &lt; b &amp;&amp; c &gt; d")
	assert.NotContains(t, html, "a < b")
	assert.Contains(t, html, "February 03, 2026 at 09:30 UTC")
	assert.Contains(t, html, `id="thought-3"`)
	for _, line := range site.Footer {
		assert.Contains(t, html, line)
	}

	// newest first
	assert.Less(t, strings.Index(html, "Thought #3"), strings.Index(html, "Thought #1"))
}

func TestRender_IndexLimitsPage(t *testing.T) {
	dir := t.TempDir()
	_, err := site.New(site.Config{Dir: dir}).Render(history(60))
	require.NoError(t, err)

	html := read(t, filepath.Join(dir, site.IndexFile))
	assert.Contains(t, html, "60 thoughts and counting.")
	assert.Equal(t, 50, strings.Count(html, `<div class="thought" `))
	assert.Contains(t, html, "Thought #60")
	assert.Contains(t, html, "Thought #11<")
	assert.NotContains(t, html, "Thought #10<")
}

func TestRender_Empty(t *testing.T) {
	dir := t.TempDir()
	_, err := site.New(site.Config{Dir: dir}).Render(nil)
	require.NoError(t, err)

	html := read(t, filepath.Join(dir, site.IndexFile))
	assert.Contains(t, html, "0 thoughts and counting.")
	assert.NotContains(t, html, `<div class="thought" `)
}

func TestRender_Markdown(t *testing.T) {
	dir := t.TempDir()
	all := []thoughts.Thought{{
		Content:   "## Waking\n\nSome *emphasis*.\n\n<script>alert(1)</script>",
		Timestamp: "2026-02-11T21:04:05+00:00",
		Number:    1,
	}}

	_, err := site.New(site.Config{Dir: dir, RenderMarkdown: true}).Render(all)
	require.NoError(t, err)

	html := read(t, filepath.Join(dir, site.IndexFile))
	assert.Contains(t, html, `<div class="thought-content markdown">`)
	assert.Contains(t, html, "<em>emphasis</em>")
	assert.NotContains(t, html, "<script>alert")
}

func TestRender_Feed(t *testing.T) {
	dir := t.TempDir()
	all := history(2)
	all[1].Content = "# On memory\n\nbody"

	_, err := site.New(site.Config{Dir: dir, BaseURL: "https://example.com/continuity/"}).Render(all)
	require.NoError(t, err)

	feed := read(t, filepath.Join(dir, site.FeedFile))
	assert.Contains(t, feed, `<feed xmlns="http://www.w3.org/2005/Atom"`)
	assert.Contains(t, feed, "Thought #2: On memory")
	assert.Contains(t, feed, "https://example.com/continuity/#thought-2")
	assert.Contains(t, feed, "urn:continuity:thought-1")
}

func TestRender_Digest(t *testing.T) {
	dir := t.TempDir()
	_, err := site.New(site.Config{Dir: dir, Title: "Stream"}).Render(history(2))
	require.NoError(t, err)

	digest := read(t, filepath.Join(dir, site.DigestFile))
	assert.True(t, strings.HasPrefix(digest, "# Stream"))
	assert.Contains(t, digest, "## Thought #2")
	assert.Contains(t, digest, "thought body 1")
	assert.Contains(t, digest, "2 thoughts and counting.")
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name    string
		thought thoughts.Thought
		label   string
		when    string
		anchor  string
	}{
		{
			name:    "numbered",
			thought: thoughts.Thought{Number: 7, Timestamp: "2026-02-11T21:04:05.123456"},
			label:   "Thought #7",
			when:    "February 11, 2026 at 21:04 UTC",
			anchor:  "thought-7",
		},
		{
			name:    "legacy without number",
			thought: thoughts.Thought{Timestamp: "sometime", File: "20260211_210405.json"},
			label:   "Thought #?",
			when:    "sometime",
			anchor:  "thought-20260211_210405",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label, site.Label(tt.thought))
			assert.Equal(t, tt.when, site.DisplayTime(tt.thought))
			assert.Equal(t, tt.anchor, site.Anchor(tt.thought))
		})
	}
}
