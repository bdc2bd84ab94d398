package thoughts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/continuity/pkg/constants"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/save"
)

const fileExt = ".json"

// Store reads and writes thoughts in a directory.
type Store struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used to stamp new thoughts.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, opts ...StoreOption) *Store {
	if dir == "" {
		dir = constants.DefaultThoughtsDir
	}
	s := &Store{
		dir: dir,
		now: func() time.Time { return utc.Now().Time },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory thoughts are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Load returns every readable thought ordered by file name, which is
// chronological. A missing directory is an empty history. Files that cannot
// be read or decoded are skipped.
func (s *Store) Load() ([]Thought, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	thoughts := make([]Thought, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Warn().Err(err).Str("file", path).Msg("Skipping unreadable thought")
			continue
		}
		var t Thought
		if err := json.Unmarshal(data, &t); err != nil {
			logging.Warn().Err(err).Str("file", path).Msg("Skipping malformed thought")
			continue
		}
		t.File = filepath.Base(path)
		thoughts = append(thoughts, t)
	}
	return thoughts, nil
}

// Count returns the number of thought files on disk, readable or not.
func (s *Store) Count() (int, error) {
	files, err := s.files()
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// Save writes content as the next thought. Its number is the count of
// existing thought files plus one.
func (s *Store) Save(content string, meta Meta) (Thought, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return Thought{}, errors.WrapIO("create", s.dir, err)
	}

	count, err := s.Count()
	if err != nil {
		return Thought{}, err
	}

	now := s.now().UTC()
	t := Thought{
		Content:   content,
		Timestamp: now.Format(TimestampLayout),
		Number:    count + 1,
		Provider:  meta.Provider,
		Model:     meta.Model,
	}

	name, err := s.freeName(now)
	if err != nil {
		return Thought{}, err
	}
	t.File = name

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return Thought{}, errors.WrapParse("json", name, err)
	}
	data = append(data, '\n')

	if err := save.WriteFile(filepath.Join(s.dir, name), data); err != nil {
		return Thought{}, err
	}
	return t, nil
}

// Path returns the path of a thought file inside the store.
func (s *Store) Path(t Thought) string {
	return filepath.Join(s.dir, t.File)
}

func (s *Store) files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", s.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		files = append(files, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// freeName returns a file name for now that is not taken yet. Two thoughts in
// the same second get a numeric suffix, which still sorts after the first.
func (s *Store) freeName(now time.Time) (string, error) {
	base := now.Format(FileLayout)
	name := base + fileExt
	for i := 2; ; i++ {
		_, err := os.Stat(filepath.Join(s.dir, name))
		if os.IsNotExist(err) {
			return name, nil
		}
		if err != nil {
			return "", errors.WrapIO("stat", name, err)
		}
		name = fmt.Sprintf("%s_%d%s", base, i, fileExt)
	}
}
