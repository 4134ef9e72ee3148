package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. It keeps every version written so
// callers can inspect intermediate states.
type MemoryStore struct {
	mu      sync.Mutex
	docs    map[string]string
	history map[string][]string
	backups map[string][]string

	// BackupErr, when set, is returned by CreateBackup.
	BackupErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:    make(map[string]string),
		history: make(map[string][]string),
		backups: make(map[string][]string),
	}
}

// Seed stores a document without recording it in the history.
func (m *MemoryStore) Seed(docID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docID] = text
}

func (m *MemoryStore) Read(_ context.Context, docID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[docID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, docID)
	}
	return doc, nil
}

func (m *MemoryStore) ReplaceRange(_ context.Context, docID, text string, startLine, endLine int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[docID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, docID)
	}
	updated, err := Splice(doc, text, startLine, endLine)
	if err != nil {
		return fmt.Errorf("replace %s: %w", docID, err)
	}
	m.putLocked(docID, updated)
	return nil
}

func (m *MemoryStore) Write(_ context.Context, docID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putLocked(docID, text)
	return nil
}

func (m *MemoryStore) putLocked(docID, text string) {
	m.docs[docID] = text
	m.history[docID] = append(m.history[docID], text)
}

func (m *MemoryStore) CreateBackup(_ context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BackupErr != nil {
		return m.BackupErr
	}
	doc, ok := m.docs[docID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, docID)
	}
	m.backups[docID] = append(m.backups[docID], doc)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]DocInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]DocInfo, 0, len(m.docs))
	for id, text := range m.docs {
		props, _ := Properties(text)
		docs = append(docs, DocInfo{
			ID:         id,
			Size:       int64(len(text)),
			ModTime:    time.Time{},
			Properties: props,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// History returns every version written for docID, oldest first.
func (m *MemoryStore) History(docID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history[docID]...)
}

// Backups returns the backed-up versions of docID.
func (m *MemoryStore) Backups(docID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.backups[docID]...)
}
