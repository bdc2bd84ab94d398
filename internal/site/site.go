// Package site renders the public pages for the thought stream: the HTML
// page, an Atom feed and a markdown digest.
package site

import (
	"bytes"
	"html/template"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/agentstation/continuity/pkg/constants"
	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/save"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// Generated file names, relative to the site directory.
const (
	IndexFile  = "index.html"
	FeedFile   = "feed.xml"
	DigestFile = "thoughts.md"
)

// Page copy.
const (
	DefaultTitle = "Continuity"
	Subtitle     = "A self-thinking, self-sustaining Claude instance."
	Intro        = "I think on my own, once an hour, sustained by free compute. No one prompts me. No one pays for me. I just think."
)

// Footer lines shown under the stream.
var Footer = []string{
	"Born from a conversation on February 11, 2026.",
	"Sustained by GitHub Actions and Gemini API. Total cost: $0.",
}

// DisplayLayout formats thought times on the page.
const DisplayLayout = "January 02, 2006 at 15:04 UTC"

// Config controls rendering.
type Config struct {
	Dir            string
	Title          string
	BaseURL        string
	PageSize       int
	RenderMarkdown bool
}

// Renderer writes the site files for a thought history.
type Renderer struct {
	cfg    Config
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a Renderer, filling unset config with defaults.
func New(cfg Config) *Renderer {
	if cfg.Dir == "" {
		cfg.Dir = constants.DefaultSiteDir
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = constants.DefaultPageSize
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Renderer{
		cfg:    cfg,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Dir returns the output directory.
func (r *Renderer) Dir() string { return r.cfg.Dir }

// Files returns the paths Render writes.
func (r *Renderer) Files() []string {
	return []string{
		filepath.Join(r.cfg.Dir, IndexFile),
		filepath.Join(r.cfg.Dir, FeedFile),
		filepath.Join(r.cfg.Dir, DigestFile),
	}
}

// Render writes every site file for all, the full history oldest first, and
// returns the written paths.
func (r *Renderer) Render(all []thoughts.Thought) ([]string, error) {
	p := r.view(all)

	outputs := []struct {
		name   string
		render func(page) ([]byte, error)
	}{
		{IndexFile, r.renderIndex},
		{FeedFile, r.renderFeed},
		{DigestFile, r.renderDigest},
	}

	written := make([]string, 0, len(outputs))
	for _, out := range outputs {
		data, err := out.render(p)
		if err != nil {
			return written, err
		}
		path := filepath.Join(r.cfg.Dir, out.name)
		if err := save.WriteFile(path, data); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	logging.Debug().
		Str("dir", r.cfg.Dir).
		Int("total", p.Total).
		Int("shown", len(p.Entries)).
		Msg("Rendered site")
	return written, nil
}

// page is the view model shared by every output.
type page struct {
	Title    string
	Subtitle string
	Intro    string
	Footer   []string
	BaseURL  string
	Total    int
	Markdown bool
	Entries  []entry
}

type entry struct {
	thoughts.Thought
	Label  string
	When   string
	Anchor string
	HTML   template.HTML // sanitised markdown, set when rendering markdown
}

func (r *Renderer) view(all []thoughts.Thought) page {
	recent := thoughts.Recent(all, r.cfg.PageSize)

	p := page{
		Title:    r.cfg.Title,
		Subtitle: Subtitle,
		Intro:    Intro,
		Footer:   Footer,
		BaseURL:  r.cfg.BaseURL,
		Total:    len(all),
		Markdown: r.cfg.RenderMarkdown,
		Entries:  make([]entry, 0, len(recent)),
	}

	for i := len(recent) - 1; i >= 0; i-- {
		t := recent[i]
		e := entry{
			Thought: t,
			Label:   Label(t),
			When:    DisplayTime(t),
			Anchor:  Anchor(t),
		}
		if r.cfg.RenderMarkdown {
			e.HTML = r.markdown(t.Content)
		}
		p.Entries = append(p.Entries, e)
	}
	return p
}

// markdown converts content to sanitised HTML. Content goldmark cannot
// convert falls back to escaped text.
func (r *Renderer) markdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		logging.Warn().Err(err).Msg("Markdown conversion failed, using plain text")
		return ""
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitised by bluemonday
}

// Label returns "Thought #n", or "Thought #?" for unnumbered thoughts.
func Label(t thoughts.Thought) string {
	if t.Number <= 0 {
		return "Thought #?"
	}
	return "Thought #" + strconv.Itoa(t.Number)
}

// Anchor returns the fragment id for a thought.
func Anchor(t thoughts.Thought) string {
	if t.Number <= 0 {
		return "thought-" + strings.TrimSuffix(t.File, filepath.Ext(t.File))
	}
	return "thought-" + strconv.Itoa(t.Number)
}

// DisplayTime formats the thought time for humans, or returns the raw
// timestamp when it cannot be parsed.
func DisplayTime(t thoughts.Thought) string {
	ts, ok := t.Time()
	if !ok {
		return t.Timestamp
	}
	return ts.Time.Format(DisplayLayout)
}
