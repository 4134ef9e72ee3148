package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// FileStore keeps documents as markdown files under a root directory. A
// document id is the file's slash-separated path relative to the root.
type FileStore struct {
	root      string
	backupDir string
	now       func() time.Time
}

// NewFileStore opens root. Backups go to backupDir, or root/.backups when
// backupDir is empty.
func NewFileStore(root, backupDir string) (*FileStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open root: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}
	if backupDir == "" {
		backupDir = filepath.Join(abs, ".backups")
	}
	return &FileStore{root: abs, backupDir: backupDir, now: time.Now}, nil
}

func (s *FileStore) path(docID string) (string, error) {
	id, err := CleanID(docID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(id)), nil
}

func (s *FileStore) Read(_ context.Context, docID string) (string, error) {
	p, err := s.path(docID)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, docID)
		}
		return "", fmt.Errorf("read %s: %w", docID, err)
	}
	return string(data), nil
}

func (s *FileStore) ReplaceRange(ctx context.Context, docID, text string, startLine, endLine int) error {
	doc, err := s.Read(ctx, docID)
	if err != nil {
		return err
	}
	updated, err := Splice(doc, text, startLine, endLine)
	if err != nil {
		return fmt.Errorf("replace %s: %w", docID, err)
	}
	return s.Write(ctx, docID, updated)
}

// Write replaces the whole document atomically, creating parent directories
// as needed.
func (s *FileStore) Write(_ context.Context, docID, text string) error {
	p, err := s.path(docID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", docID, err)
	}
	if err := atomic.WriteFile(p, strings.NewReader(text)); err != nil {
		return fmt.Errorf("write %s: %w", docID, err)
	}
	return nil
}

// CreateBackup copies the current document to
// <backupDir>/<docID without extension>.<timestamp><ext>.
func (s *FileStore) CreateBackup(ctx context.Context, docID string) error {
	doc, err := s.Read(ctx, docID)
	if err != nil {
		return err
	}
	id, _ := CleanID(docID)
	ext := filepath.Ext(id)
	name := strings.TrimSuffix(id, ext) + "." + s.now().UTC().Format("20060102T150405.000") + ext
	dst := filepath.Join(s.backupDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := atomic.WriteFile(dst, strings.NewReader(doc)); err != nil {
		return fmt.Errorf("write backup for %s: %w", docID, err)
	}
	return nil
}

// List returns every markdown document under the root, skipping hidden
// directories (which include the default backup directory).
func (s *FileStore) List(ctx context.Context) ([]DocInfo, error) {
	var docs []DocInfo
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		doc := DocInfo{
			ID:      filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if data, err := os.ReadFile(p); err == nil {
			doc.Properties, _ = Properties(string(data))
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}
