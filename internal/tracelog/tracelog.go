// Package tracelog appends per-iteration debug traces as markdown files, one
// file per feature. Traces are for developers; nothing reads them back.
package tracelog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MaxFileSize is the size past which a trace file is truncated before the
// next append.
const MaxFileSize = 5 * 1024 * 1024

// Writer appends traces under dir. A nil *Writer discards everything.
type Writer struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New returns a Writer for dir, or nil when dir is empty.
func New(dir string) *Writer {
	if dir == "" {
		return nil
	}
	return &Writer{dir: dir, now: time.Now}
}

// Path returns the trace file used for feature.
func (w *Writer) Path(feature string) string {
	return filepath.Join(w.dir, feature+"_processing_log.md")
}

// Iteration records the source block and the processed block of one
// iteration.
func (w *Writer) Iteration(feature, docID string, n int, block, processed string) error {
	if w == nil {
		return nil
	}
	ts := w.now().UTC().Format(time.RFC3339)
	entry := fmt.Sprintf("\n<p>%s %s</p>\n<h2>Block %d</h2>\n\n%s\n\n<p>%s</p>\n<h2>Processed Block %d</h2>\n\n%s\n\n",
		ts, docID, n, block, ts, n, processed)
	return w.append(w.Path(feature), entry)
}

func (w *Writer) append(path, entry string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create trace dir: %w", err)
	}
	if st, err := os.Stat(path); err == nil && st.Size() > MaxFileSize {
		if err := os.Truncate(path, 0); err != nil {
			return fmt.Errorf("truncate trace: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}
