package textscan

import (
	"strings"
	"testing"
)

func TestStripPunctuation(t *testing.T) {
	tests := []struct {
		name             string
		text             string
		preserveHeadings bool
		want             string
	}{
		{"basic", "Hello, world. How are you?", true, "Hello world How are you"},
		{"ellipsis and dashes", "Well… maybe — not", true, "Well maybe not"},
		{"spaces around newlines", "One.\nTwo,  three!\n", true, "One\nTwo three\n"},
		{"wikilink kept", "See [[Note, One.]] now.", true, "See [[Note, One.]] now"},
		{"embed kept", "Look: ![[img.png]]!", true, "Look: ![[img.png]]"},
		{"headings kept", "# Title.\nText.", true, "# Title\nText"},
		{"headings removed", "## Title.\nText.", false, "Title\nText"},
		{"guillemets and quotes", "«Yes» \"no\"", true, "Yes no"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripPunctuation(tt.text, tt.preserveHeadings); got != tt.want {
				t.Errorf("StripPunctuation(%q, %v) = %q, want %q", tt.text, tt.preserveHeadings, got, tt.want)
			}
		})
	}
}

func TestStripPunctuation_PreservesNewlineCount(t *testing.T) {
	inputs := []string{
		"Line one.\n\nLine two, with comma.\n\n\nEnd!",
		"\n\nLeading blank lines... and trailing\n\n",
		"## Heading\n- item, one.\n- item two?\n",
		"Mixed\r\nline endings.\r\n",
	}
	for _, in := range inputs {
		out := StripPunctuation(in, true)
		if strings.Count(out, "\n") != strings.Count(in, "\n") {
			t.Errorf("newline count changed for %q: got %q", in, out)
		}
	}
}
