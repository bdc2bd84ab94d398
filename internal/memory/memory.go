// Package memory records every thought as a commit in a git repository.
// The commit history is the durable memory of the stream.
package memory

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/agentstation/continuity/pkg/constants"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// TokenUser is the basic-auth user sent with a push token.
const TokenUser = "x-access-token"

// Config controls how thoughts are committed and pushed.
type Config struct {
	// Dir is any path inside the repository.
	Dir string
	// Init creates the repository when Dir is not inside one.
	Init bool

	Push   bool
	Remote string
	Branch string
	Token  string

	AuthorName  string
	AuthorEmail string
}

// Memory commits files to a git repository.
type Memory struct {
	repo *git.Repository
	root string
	cfg  Config
	now  func() time.Time
}

// Open locates the repository containing cfg.Dir, searching parent
// directories. With cfg.Init set a missing repository is created in cfg.Dir.
func Open(cfg Config) (*Memory, error) {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Remote == "" {
		cfg.Remote = constants.DefaultRemote
	}
	if cfg.AuthorName == "" {
		cfg.AuthorName = constants.DefaultAuthorName
	}
	if cfg.AuthorEmail == "" {
		cfg.AuthorEmail = constants.DefaultAuthorEmail
	}

	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, errors.WrapIO("resolve", cfg.Dir, err)
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if stderrors.Is(err, git.ErrRepositoryNotExists) && cfg.Init {
		logging.Info().Str("dir", dir).Msg("Initializing memory repository")
		repo, err = git.PlainInit(dir, false)
		if err != nil {
			return nil, errors.WrapGit("init", dir, err)
		}
	}
	if err != nil {
		return nil, errors.WrapGit("open", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.WrapGit("open", dir, err)
	}

	return &Memory{
		repo: repo,
		root: wt.Filesystem.Root(),
		cfg:  cfg,
		now:  time.Now,
	}, nil
}

// Root returns the repository work tree root.
func (m *Memory) Root() string { return m.root }

// Message returns the commit message recording t.
func Message(t thoughts.Thought) string {
	subject := fmt.Sprintf("Thought #%d", t.Number)
	if t.Number <= 0 {
		subject = "Thought"
	}
	if summary := t.Title(72); summary != "" {
		return subject + "\n\n" + summary + "\n"
	}
	return subject + "\n"
}

// Commit stages paths and commits them with message. It returns the new
// commit hash, or an empty string when nothing changed.
func (m *Memory) Commit(ctx context.Context, paths []string, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	wt, err := m.repo.Worktree()
	if err != nil {
		return "", errors.WrapGit("add", m.root, err)
	}

	for _, p := range paths {
		rel, err := m.relative(p)
		if err != nil {
			return "", err
		}
		if _, err := wt.Add(rel); err != nil {
			return "", errors.WrapGit("add", rel, err)
		}
	}

	status, err := wt.Status()
	if err != nil {
		return "", errors.WrapGit("status", m.root, err)
	}
	if !hasStaged(status) {
		logging.FromContext(ctx).Debug().Msg("Nothing to commit")
		return "", nil
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  m.cfg.AuthorName,
			Email: m.cfg.AuthorEmail,
			When:  m.now(),
		},
	})
	if stderrors.Is(err, git.ErrEmptyCommit) {
		return "", nil
	}
	if err != nil {
		return "", errors.WrapGit("commit", m.root, err)
	}

	logging.FromContext(ctx).Info().
		Str("commit", hash.String()[:7]).
		Str("subject", firstLine(message)).
		Msg("Committed memory")
	return hash.String(), nil
}

// Push sends the current branch to the configured remote. A remote that is
// already up to date is not an error.
func (m *Memory) Push(ctx context.Context) error {
	opts := &git.PushOptions{
		RemoteName: m.cfg.Remote,
		Auth:       m.auth(),
	}
	if m.cfg.Branch != "" {
		ref := plumbing.NewBranchReferenceName(m.cfg.Branch)
		opts.RefSpecs = []config.RefSpec{config.RefSpec(ref + ":" + ref)}
	}

	err := m.repo.PushContext(ctx, opts)
	if stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		logging.FromContext(ctx).Debug().Str("remote", m.cfg.Remote).Msg("Remote already up to date")
		return nil
	}
	if err != nil {
		return errors.WrapGit("push", m.cfg.Remote, err)
	}

	logging.FromContext(ctx).Info().Str("remote", m.cfg.Remote).Msg("Pushed memory")
	return nil
}

// PushEnabled reports whether commits should be pushed.
func (m *Memory) PushEnabled() bool { return m.cfg.Push }

func (m *Memory) auth() transport.AuthMethod {
	if m.cfg.Token == "" {
		return nil
	}
	return &http.BasicAuth{Username: TokenUser, Password: m.cfg.Token}
}

// relative converts p to a slash separated path inside the work tree.
func (m *Memory) relative(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.WrapIO("resolve", p, err)
	}
	rel, err := filepath.Rel(m.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.NewValidationError("path", p, "outside of memory repository "+m.root)
	}
	return filepath.ToSlash(rel), nil
}

func hasStaged(status git.Status) bool {
	for _, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
