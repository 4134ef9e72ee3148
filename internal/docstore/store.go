// Package docstore reads and rewrites the documents the engine processes.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document id")
)

// Store is the document collaborator. ReplaceRange swaps whole lines; it
// never patches inside a line.
type Store interface {
	Read(ctx context.Context, docID string) (string, error)
	// ReplaceRange replaces lines [startLine, endLine) (0-indexed) with text.
	// An endLine past the last line means "to the end of the document".
	ReplaceRange(ctx context.Context, docID, text string, startLine, endLine int) error
	Write(ctx context.Context, docID, text string) error
	List(ctx context.Context) ([]DocInfo, error)
}

// Backuper copies a document aside before it is rewritten.
type Backuper interface {
	CreateBackup(ctx context.Context, docID string) error
}

// DocInfo describes a stored document.
type DocInfo struct {
	ID         string         `json:"id"`
	Size       int64          `json:"size"`
	ModTime    time.Time      `json:"mod_time"`
	Properties map[string]any `json:"properties,omitempty"`
}

// LineOffset returns the byte offset where line n (0-indexed) starts, or
// len(text) when text has fewer lines.
func LineOffset(text string, n int) int {
	if n <= 0 {
		return 0
	}
	off := 0
	for i := 0; i < n; i++ {
		j := strings.IndexByte(text[off:], '\n')
		if j < 0 {
			return len(text)
		}
		off += j + 1
	}
	return off
}

// LineCount returns the number of lines in text as ReplaceRange counts them.
func LineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

// Splice applies a ReplaceRange to text in memory.
func Splice(doc, text string, startLine, endLine int) (string, error) {
	if startLine < 0 || endLine < startLine {
		return "", fmt.Errorf("bad line range [%d, %d)", startLine, endLine)
	}
	start := LineOffset(doc, startLine)
	end := LineOffset(doc, endLine)
	return doc[:start] + text + doc[end:], nil
}

// CleanID validates a document id: a slash-separated relative path that
// stays inside the store.
func CleanID(docID string) (string, error) {
	if docID == "" || strings.ContainsRune(docID, '\\') || strings.HasPrefix(docID, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, docID)
	}
	clean := path.Clean(docID)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, docID)
	}
	return clean, nil
}
