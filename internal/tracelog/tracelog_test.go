package tracelog

import (
	"os"
	"strings"
	"testing"
)

func TestNilWriterDiscards(t *testing.T) {
	var w *Writer
	if err := w.Iteration("split", "doc.md", 1, "a", "b"); err != nil {
		t.Fatalf("nil writer returned %v", err)
	}
	if New("") != nil {
		t.Error("New(\"\") should return nil")
	}
}

func TestIterationAppends(t *testing.T) {
	w := New(t.TempDir())
	if err := w.Iteration("split", "doc.md", 1, "source one", "processed one"); err != nil {
		t.Fatal(err)
	}
	if err := w.Iteration("split", "doc.md", 2, "source two", "processed two"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(w.Path("split"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	for _, want := range []string{"Block 1", "source one", "Processed Block 2", "processed two", "doc.md"} {
		if !strings.Contains(got, want) {
			t.Errorf("trace missing %q", want)
		}
	}
}

func TestIterationTruncatesLargeFile(t *testing.T) {
	w := New(t.TempDir())
	if err := os.WriteFile(w.Path("punctuate"), make([]byte, MaxFileSize+1), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := w.Iteration("punctuate", "d", 1, "x", "y"); err != nil {
		t.Fatal(err)
	}
	st, err := os.Stat(w.Path("punctuate"))
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() > 1024 {
		t.Errorf("expected truncated file, size %d", st.Size())
	}
}
