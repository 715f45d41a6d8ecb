// Package audit keeps an append-only CSV record of completed sync cycles.
package audit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// Header is the CSV header for the audit log.
const Header = "timestamp,cycle_id,imported,last_hash"

const numFields = 4

// Entry is one row in the audit log.
type Entry struct {
	Timestamp time.Time
	CycleID   string
	Imported  int
	LastHash  string
}

// Log appends cycle records to a CSV file, creating it with a header on
// first use.
type Log struct {
	path string
}

// New creates a Log writing to path.
func New(path string) *Log {
	return &Log{path: path}
}

// Append adds one entry to the log.
func (l *Log) Append(e Entry) error {
	isNew := false
	if _, err := os.Stat(l.path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(marshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing audit log: %w", err)
	}
	return nil
}

func marshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[0] = e.Timestamp.Format(time.RFC3339)
	row[1] = e.CycleID
	row[2] = strconv.Itoa(e.Imported)
	row[3] = e.LastHash
	return row
}
