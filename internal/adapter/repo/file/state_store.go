package filerepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"sanguo/internal/app/ports"
	"sanguo/internal/domain/world"
)

const tempPattern = ".*.tmp"

type Option func(*WorldStateStore)

func WithLogger(logger *slog.Logger) Option {
	return func(s *WorldStateStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefault overrides the state substituted for a missing or corrupt file.
func WithDefault(fn func() world.State) Option {
	return func(s *WorldStateStore) {
		if fn != nil {
			s.fallback = fn
		}
	}
}

// WorldStateStore keeps the world as a pretty-printed JSON file and replaces
// it with write-temp-then-rename, so readers only ever see a complete file.
// Reads share mu; writes, repairs and temp cleanup hold it exclusively.
type WorldStateStore struct {
	path     string
	logger   *slog.Logger
	fallback func() world.State

	mu sync.RWMutex

	// beforeRename runs after the temp file is durable and before it is
	// swapped in. Tests use it to simulate an interrupted write.
	beforeRename func(tmpPath string) error
	// beforeRepair runs after a failed read and before the repair lock is
	// taken, where a concurrent writer may slip in.
	beforeRepair func()
}

var _ ports.WorldStateStore = (*WorldStateStore)(nil)

func NewWorldStateStore(path string, opts ...Option) *WorldStateStore {
	s := &WorldStateStore{
		path:     path,
		logger:   slog.Default(),
		fallback: world.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WorldStateStore) Path() string { return s.path }

func (s *WorldStateStore) Load(_ context.Context) world.State {
	s.mu.RLock()
	state, err := s.read()
	s.mu.RUnlock()
	if err == nil {
		return state
	}

	if s.beforeRepair != nil {
		s.beforeRepair()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Another writer may have replaced the file since the failed read.
	state, err = s.read()
	if err == nil {
		return state
	}
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("world state missing, writing default", "path", s.path)
	} else {
		s.logger.Warn("world state unreadable, writing default", "path", s.path, "error", err)
	}
	return s.heal()
}

func (s *WorldStateStore) Persist(_ context.Context, state world.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(state)
}

func (s *WorldStateStore) read() (world.State, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return world.State{}, err
	}
	state, err := decodeState(b)
	if err != nil {
		return world.State{}, fmt.Errorf("corrupt state file: %w", err)
	}
	return state, nil
}

// persist requires mu held for writing.
func (s *WorldStateStore) persist(state world.State) error {
	s.removeStaleTemps()
	b, err := encodeState(state)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ports.ErrStorageWrite, err)
	}
	if err := s.writeAtomic(b); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrStorageWrite, err)
	}
	return nil
}

// heal requires mu held for writing.
func (s *WorldStateStore) heal() world.State {
	state := s.fallback().Normalize()
	if err := s.persist(state); err != nil {
		s.logger.Error("repair world state", "path", s.path, "error", err)
	}
	return state
}

func (s *WorldStateStore) writeAtomic(b []byte) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+tempPattern)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if s.beforeRename != nil {
		if err := s.beforeRename(tmpPath); err != nil {
			return err
		}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	syncDir(dir)
	return nil
}

// removeStaleTemps clears temp files left behind by a process that died
// between writing and renaming. It requires mu held for writing, so the
// only temp file it could race with is its own caller's, which does not
// exist yet.
func (s *WorldStateStore) removeStaleTemps() {
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(s.path), filepath.Base(s.path)+tempPattern))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err == nil {
			s.logger.Info("removed stale world state temp file", "path", m)
		}
	}
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

func encodeState(state world.State) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state.Normalize()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeState(b []byte) (world.State, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return world.State{}, errors.New("empty file")
	}
	if trimmed[0] != '{' {
		return world.State{}, errors.New("top level is not a JSON object")
	}
	var state world.State
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&state); err != nil {
		return world.State{}, err
	}
	if dec.More() {
		return world.State{}, errors.New("trailing data after state object")
	}
	return state.Normalize(), nil
}
