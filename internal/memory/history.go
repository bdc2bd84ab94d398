package memory

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/agentstation/continuity/pkg/errors"
)

// Entry is one commit in the memory history.
type Entry struct {
	Hash    string    `json:"hash" yaml:"hash"`
	Subject string    `json:"subject" yaml:"subject"`
	Author  string    `json:"author" yaml:"author"`
	When    time.Time `json:"when" yaml:"when"`
}

// Short returns the abbreviated hash.
func (e Entry) Short() string {
	if len(e.Hash) > 7 {
		return e.Hash[:7]
	}
	return e.Hash
}

// History lists commits newest first that touch paths under dir. An empty
// dir matches every commit; limit <= 0 means no limit.
func (m *Memory) History(dir string, limit int) ([]Entry, error) {
	opts := &git.LogOptions{Order: git.LogOrderCommitterTime}
	if dir != "" {
		prefix, err := m.relative(dir)
		if err != nil {
			return nil, err
		}
		if prefix != "." {
			prefix = strings.TrimSuffix(prefix, "/") + "/"
			opts.PathFilter = func(path string) bool {
				return strings.HasPrefix(path, prefix)
			}
		}
	}

	iter, err := m.repo.Log(opts)
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapGit("log", m.root, err)
	}
	defer iter.Close()

	var entries []Entry
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(entries) >= limit {
			return storer.ErrStop
		}
		entries = append(entries, Entry{
			Hash:    c.Hash.String(),
			Subject: firstLine(c.Message),
			Author:  c.Author.Name,
			When:    c.Author.When.UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, errors.WrapGit("log", m.root, err)
	}
	return entries, nil
}
