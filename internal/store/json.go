package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"
)

// JSONStore keeps the seen-set in a flat JSON document. The whole set is
// loaded on open, mutated in memory, and written back atomically on Close.
// A sibling lock file guards the read-modify-write cycle against overlapping
// cron invocations.
type JSONStore struct {
	path string
	lock *flock.Flock

	mu    sync.Mutex
	seen  map[string]struct{}
	dirty bool
}

// jsonDocument is the on-disk format.
type jsonDocument struct {
	Seen []string `json:"seen"`
}

// NewJSONStore opens (or creates) the seen-set file at path and takes the
// process-level file lock. A missing or unreadable file degrades to an empty
// set (first-run behavior) with a warning.
func NewJSONStore(path string, logger *slog.Logger) (*JSONStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("locking seen-set file: %w", err)
	}

	s := &JSONStore{
		path: path,
		lock: lock,
		seen: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		logger.Warn("seen-set unreadable, starting empty", "path", path, "error", err)
		return s, nil
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		// Earlier versions stored a bare array.
		var bare []string
		if err2 := json.Unmarshal(data, &bare); err2 != nil {
			logger.Warn("seen-set corrupt, starting empty", "path", path, "error", err)
			return s, nil
		}
		doc.Seen = bare
	}
	for _, key := range doc.Seen {
		s.seen[key] = struct{}{}
	}

	return s, nil
}

// HasSeen reports whether the key was recorded in any previous run.
func (s *JSONStore) HasSeen(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[key]
	return ok, nil
}

// MarkSeen records a key. Re-marking an existing key is a no-op.
func (s *JSONStore) MarkSeen(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; !ok {
		s.seen[key] = struct{}{}
		s.dirty = true
	}
	return nil
}

// Count returns the number of seen keys.
func (s *JSONStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen), nil
}

// Close persists the set if it changed, then releases the file lock.
// A write failure here means the next run will re-notify, so the error must
// reach the caller.
func (s *JSONStore) Close() error {
	defer s.lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.write()
}

// write dumps the set to a temp file and renames it over the target so a
// crash mid-write cannot truncate the previous state.
func (s *JSONStore) write() error {
	keys := make([]string, 0, len(s.seen))
	for key := range s.seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	data, err := json.Marshal(jsonDocument{Seen: keys})
	if err != nil {
		return fmt.Errorf("encoding seen-set: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing seen-set: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing seen-set: %w", err)
	}
	s.dirty = false
	return nil
}
