// Package state persists the synchronization cursor across process restarts.
package state

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// Store holds the cursor file: two lines of text, the date of the last run
// and the fingerprint of the last imported transaction. The format is kept
// byte-compatible with existing state files.
type Store struct {
	path     string
	fallback time.Time
	now      func() time.Time
}

// NewStore creates a Store backed by the file at path. fallback is the start
// date Restore returns when no usable cursor exists yet.
func NewStore(path string, fallback time.Time) *Store {
	return &Store{path: path, fallback: fallback, now: time.Now}
}

// Restore reads the persisted cursor. A missing or malformed state file is
// not an error: the fallback date and an empty hash are returned, meaning
// "trust the date range, nothing to deduplicate against".
func (s *Store) Restore() (time.Time, string) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return s.fallback, ""
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) < 2 {
		return s.fallback, ""
	}

	date, err := time.Parse(dateFormat, strings.TrimSpace(lines[0]))
	if err != nil {
		return s.fallback, ""
	}
	return date, strings.TrimSpace(lines[1])
}

// Store persists today's date and the given fingerprint, overwriting any
// previous cursor in a single write. Unlike Restore, failures propagate: a
// cycle that cannot persist its cursor is incomplete and must not count as
// successful.
func (s *Store) Store(lastHash string) error {
	content := fmt.Sprintf("%s\n%s\n", s.now().Format(dateFormat), lastHash)
	if err := os.WriteFile(s.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
