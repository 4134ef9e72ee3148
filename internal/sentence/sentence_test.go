package sentence

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnumerate(t *testing.T) {
	tests := []struct {
		name      string
		chunk     string
		want      string
		positions map[int]int
	}{
		{
			name:      "two sentences",
			chunk:     "Hello. World.",
			want:      `"1"Hello. "2"World.`,
			positions: map[int]int{1: 0, 2: 10},
		},
		{
			name:      "leading whitespace",
			chunk:     "  Hi! Bye?",
			want:      `  "1"Hi! "2"Bye?`,
			positions: map[int]int{1: 2, 2: 9},
		},
		{
			name:      "ellipsis counts once",
			chunk:     "Wait... what?! Ok",
			want:      `"1"Wait... "2"what?! "3"Ok`,
			positions: map[int]int{1: 0, 2: 11, 3: 21},
		},
		{
			name:      "ellipsis glyph and newline",
			chunk:     "So…\nthen",
			want:      "\"1\"So…\n\"2\"then",
			positions: map[int]int{1: 0, 2: 9},
		},
		{
			name:      "whitespace only",
			chunk:     " \n ",
			want:      " \n ",
			positions: map[int]int{},
		},
		{
			name:      "empty",
			chunk:     "",
			want:      "",
			positions: map[int]int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, positions := Enumerate(tt.chunk)
			if got != tt.want {
				t.Errorf("Enumerate(%q) = %q, want %q", tt.chunk, got, tt.want)
			}
			if diff := cmp.Diff(tt.positions, positions); diff != "" {
				t.Errorf("positions mismatch (-want +got):\n%s", diff)
			}
			for k, off := range positions {
				if !strings.HasPrefix(got[off:], Marker(k)) {
					t.Errorf("position %d for sentence %d does not point at its marker", off, k)
				}
			}
		})
	}
}

func TestStripRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"No terminator at all",
		"One. Two! Three? Four… Five...",
		"Trailing spaces.   ",
		"\n\nLeading newlines. Then text.",
		`She said "3" twice. "4" is next.`,
		`"1" already looks enumerated. "2"`,
		"Pi is 3.14. Really.",
		"?!?! Odd start.",
		"## Heading\n\nParagraph one. Paragraph two.\n\n- item.\n- item",
		"Ünïcödé… ñ. 日本語。 done.",
	}
	for _, in := range inputs {
		enumerated, _ := Enumerate(in)
		if got := Strip(enumerated); got != in {
			t.Errorf("Strip(Enumerate(%q)) = %q", in, got)
		}
	}
}

func TestStripRoundTrip_Random(t *testing.T) {
	alphabet := []rune{'a', 'b', ' ', '\n', '.', '!', '?', '…', '"', '1', '2', '\t'}
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 2000; n++ {
		var b strings.Builder
		for i := rng.Intn(40); i > 0; i-- {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		in := b.String()
		enumerated, _ := Enumerate(in)
		if got := Strip(enumerated); got != in {
			t.Fatalf("round trip failed for %q: enumerated %q, stripped %q", in, enumerated, got)
		}
	}
}

func TestStripIdempotentOnPlainText(t *testing.T) {
	in := "Plain text. Without any markers! Really?"
	once := Strip(in)
	if once != in {
		t.Fatalf("Strip changed plain text: %q", once)
	}
	if Strip(once) != once {
		t.Error("Strip is not idempotent on plain text")
	}
}

func TestLocate(t *testing.T) {
	enumerated, positions := Enumerate("Alpha. Beta. Gamma.")
	if diff := cmp.Diff(positions, Locate(enumerated)); diff != "" {
		t.Errorf("Locate disagrees with Enumerate (-enumerate +locate):\n%s", diff)
	}

	// A quoted number in the middle of a sentence is not a marker.
	got := Locate(`"1"Total was "7" items.`)
	if diff := cmp.Diff(map[int]int{1: 0}, got); diff != "" {
		t.Errorf("Locate mismatch (-want +got):\n%s", diff)
	}
}

func TestStripAll(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"1"Hello. "2"World.`, "Hello. World."},
		{`Mid "12" sentence`, "Mid  sentence"},
		{`""1"2"`, ""},
		{"nothing here", "nothing here"},
	}
	for _, tt := range tests {
		got := StripAll(tt.in)
		if got != tt.want {
			t.Errorf("StripAll(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if StripAll(got) != got {
			t.Errorf("StripAll not idempotent for %q", tt.in)
		}
	}
}
