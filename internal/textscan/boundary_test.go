package textscan

import "testing"

func TestFindParagraphBoundary(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		window int
		want   int
		found  bool
	}{
		{"no blank line", "one line\nanother line", 100, 0, false},
		{"single boundary", "para one.\n\npara two.", 100, 11, true},
		{"last boundary wins", "a\n\nb\n\nc", 100, 6, true},
		{"whitespace inside blank line", "a\n  \t\nb", 100, 6, true},
		{"crlf", "a\r\n\r\nb", 100, 5, true},
		{"boundary outside window", "aaaa\n\nbbbb", 5, 0, false},
		{"boundary ending exactly at window", "aaaa\n\nbbbb", 6, 6, true},
		{"zero window", "a\n\nb", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindParagraphBoundary(tt.text, tt.window)
			if ok != tt.found || got != tt.want {
				t.Errorf("FindParagraphBoundary(%q, %d) = (%d, %v), want (%d, %v)", tt.text, tt.window, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestFindSentenceEnd(t *testing.T) {
	tests := []struct {
		text   string
		offset int
		marker string
		found  bool
	}{
		{"no terminator here", 0, "", false},
		{"One. Two!", 8, "!", true},
		{"Wait... ", 6, "...", true},
		{"Really? Yes…", 11, "…", true},
		{"Hmm... then. more", 11, ".", true},
		{"Trailing dots....", 16, ".", true},
	}
	for _, tt := range tests {
		got, ok := FindSentenceEnd(tt.text)
		if ok != tt.found {
			t.Fatalf("FindSentenceEnd(%q) found=%v, want %v", tt.text, ok, tt.found)
		}
		if !ok {
			continue
		}
		if got.Offset != tt.offset || got.Marker != tt.marker {
			t.Errorf("FindSentenceEnd(%q) = %+v, want offset %d marker %q", tt.text, got, tt.offset, tt.marker)
		}
	}
}

func TestSentenceEndEnd(t *testing.T) {
	text := "Wait... then…"
	first, ok := FindPreviousSentenceEnd(text, 10)
	if !ok {
		t.Fatal("expected an ellipsis before offset 10")
	}
	if text[:first.End()] != "Wait..." {
		t.Errorf("ellipsis end: got %q", text[:first.End()])
	}
	last, _ := FindSentenceEnd(text)
	if last.End() != len(text) {
		t.Errorf("glyph end: got %d, want %d", last.End(), len(text))
	}
}

func TestFindPreviousSentenceEnd(t *testing.T) {
	text := "First. Second! Third?"
	last, ok := FindSentenceEnd(text)
	if !ok {
		t.Fatal("expected a terminator")
	}
	prev, ok := FindPreviousSentenceEnd(text, last.Offset)
	if !ok {
		t.Fatal("expected a previous terminator")
	}
	if prev.Offset != 13 || prev.Marker != "!" {
		t.Errorf("got %+v, want offset 13 marker !", prev)
	}

	if _, ok := FindPreviousSentenceEnd(text, 5); ok {
		t.Error("expected nothing strictly before offset 5")
	}
}

func TestFindPreviousSentenceEnd_EllipsisAnchoredAtLastDot(t *testing.T) {
	text := "One... two"
	// The ellipsis is anchored at offset 5, so it is not "before" 5.
	if _, ok := FindPreviousSentenceEnd(text, 5); ok {
		t.Error("ellipsis anchored at 5 must not be reported before 5")
	}
	got, ok := FindPreviousSentenceEnd(text, 6)
	if !ok || got.Offset != 5 || got.Marker != "..." {
		t.Errorf("got %+v ok=%v, want ellipsis at 5", got, ok)
	}
}
