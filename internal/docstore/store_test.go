package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSplice(t *testing.T) {
	doc := "---\ntitle: x\n---\nline a\nline b"
	tests := []struct {
		name       string
		text       string
		start, end int
		want       string
	}{
		{"replace body to end", "new body", 3, 99, "---\ntitle: x\n---\nnew body"},
		{"replace one line", "B\n", 4, 5, "---\ntitle: x\n---\nline a\nB\n"},
		{"insert without removing", "inserted\n", 3, 3, "---\ntitle: x\n---\ninserted\nline a\nline b"},
		{"whole document", "all", 0, 100, "all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Splice(doc, tt.text, tt.start, tt.end)
			if err != nil {
				t.Fatalf("Splice: %v", err)
			}
			if got != tt.want {
				t.Errorf("Splice = %q, want %q", got, tt.want)
			}
		})
	}
	if _, err := Splice(doc, "x", 3, 1); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestLineOffsetAndCount(t *testing.T) {
	text := "a\nbb\n\nccc"
	for line, want := range []int{0, 2, 5, 6, 9, 9} {
		if got := LineOffset(text, line); got != want {
			t.Errorf("LineOffset(%d) = %d, want %d", line, got, want)
		}
	}
	if LineCount(text) != 4 {
		t.Errorf("LineCount = %d, want 4", LineCount(text))
	}
	if LineCount("") != 1 {
		t.Errorf("LineCount(\"\") = %d, want 1", LineCount(""))
	}
}

func TestCleanID(t *testing.T) {
	for _, bad := range []string{"", "/etc/passwd", "../x.md", "a/../../x.md", `a\b.md`, "."} {
		if _, err := CleanID(bad); !errors.Is(err, ErrInvalidID) {
			t.Errorf("CleanID(%q) error = %v, want ErrInvalidID", bad, err)
		}
	}
	got, err := CleanID("notes/./daily.md")
	if err != nil || got != "notes/daily.md" {
		t.Errorf("CleanID = (%q, %v)", got, err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewFileStore(root, "")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	if err := s.Write(ctx, "notes/a.md", "---\ntags: [x]\n---\nold body"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.CreateBackup(ctx, "notes/a.md"); err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}
	if err := s.ReplaceRange(ctx, "notes/a.md", "new body\n", 3, 100); err != nil {
		t.Fatalf("ReplaceRange: %v", err)
	}

	got, err := s.Read(ctx, "notes/a.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "---\ntags: [x]\n---\nnew body\n" {
		t.Errorf("Read = %q", got)
	}

	backup, err := os.ReadFile(filepath.Join(root, ".backups", "notes", "a.20260102T030405.000.md"))
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if string(backup) != "---\ntags: [x]\n---\nold body" {
		t.Errorf("backup = %q", backup)
	}

	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "notes/a.md" {
		t.Fatalf("List = %+v, want only notes/a.md (backups are hidden)", docs)
	}
	if diff := cmp.Diff(map[string]any{"tags": []any{"x"}}, docs[0].Properties); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore_Errors(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Read(ctx, "missing.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Read(ctx, "../escape.md"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Read(../escape.md) error = %v, want ErrInvalidID", err)
	}
	if _, err := NewFileStore(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestProperties(t *testing.T) {
	props, err := Properties("aliases: [one]\ncreated: 2024-01-01\n---\nBody")
	if err != nil {
		t.Fatalf("Properties: %v", err)
	}
	if _, ok := props["aliases"]; !ok {
		t.Errorf("aliases missing: %+v", props)
	}

	props, err = Properties("No front matter here.")
	if err != nil || props != nil {
		t.Errorf("Properties(no front) = (%v, %v)", props, err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.Seed("d", "a\nb")

	if err := m.CreateBackup(ctx, "d"); err != nil {
		t.Fatal(err)
	}
	if err := m.ReplaceRange(ctx, "d", "B", 1, 2); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Read(ctx, "d"); got != "a\nB" {
		t.Errorf("Read = %q", got)
	}
	if diff := cmp.Diff([]string{"a\nB"}, m.History("d")); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a\nb"}, m.Backups("d")); diff != "" {
		t.Errorf("backups mismatch (-want +got):\n%s", diff)
	}

	m.BackupErr = errors.New("disk full")
	if err := m.CreateBackup(ctx, "d"); err == nil {
		t.Error("expected BackupErr")
	}
	if _, err := m.Read(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read(nope) = %v", err)
	}
}
