// Package daylog persists narrative status lines into one append-only text
// file per calendar day.
package daylog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Writer appends status lines to daily files named YYYY-MM-DD.log inside a
// single directory. Writes are best effort from the caller's point of view;
// failures surface as returned errors and never block probing.
type Writer struct {
	mu  sync.Mutex
	dir string
}

// New ensures the log directory exists and returns a writer for it.
func New(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Append writes one line to the file for t's local calendar day.
func (w *Writer) Append(t time.Time, statusText string) error {
	line := fmt.Sprintf("%s — %s\n", t.Format("15:04:05"), statusText)

	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.OpenFile(w.pathFor(t), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open day log: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("append day log: %w", err)
	}
	return nil
}

// Today returns the current day's file content verbatim. The second return
// is false when no line has been written today.
func (w *Writer) Today() (string, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := os.ReadFile(w.pathFor(time.Now()))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read day log: %w", err)
	}
	return string(data), true, nil
}

func (w *Writer) pathFor(t time.Time) string {
	return filepath.Join(w.dir, t.Format("2006-01-02")+".log")
}
