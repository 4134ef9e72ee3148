package textscan

import "testing"

func TestFrontMatterEnd(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"no block", "Just a note.\n\nWith text.", 0},
		{"empty", "", 0},
		{"dash block", "---\ntitle: x\ntags: [a]\n---\nBody", 4},
		{"dot closer", "---\ntitle: x\n...\nBody", 3},
		{"aliases opener", "aliases: [a]\ncreated: today\n---\nBody", 3},
		{"tags opener with list", "tags:\n  - a\n  - b\n---\nBody", 4},
		{"unclosed", "---\ntitle: x\nBody without closer", 0},
		{"delimiter not on first line", "Intro\n---\ntitle: x\n---\n", 0},
		{"key opener followed by prose", "aliases: x\nThis is prose\n...\nmore", 0},
		{"crlf", "---\r\ntitle: x\r\n---\r\nBody", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrontMatterEnd(tt.text); got != tt.want {
				t.Errorf("FrontMatterEnd(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		text, front, body string
	}{
		{"---\na: b\n---\nBody\n", "---\na: b\n---\n", "Body\n"},
		{"No front matter", "", "No front matter"},
		{"---\na: b\n---", "---\na: b\n---", ""},
	}
	for _, tt := range tests {
		front, body := SplitFrontMatter(tt.text)
		if front != tt.front || body != tt.body {
			t.Errorf("SplitFrontMatter(%q) = (%q, %q), want (%q, %q)", tt.text, front, body, tt.front, tt.body)
		}
		if front+body != tt.text {
			t.Errorf("front+body lost characters for %q", tt.text)
		}
	}
}
