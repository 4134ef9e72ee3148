package chunker

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/doctransform/internal/textscan"
)

// Unit selects what a chunk budget counts.
type Unit int

const (
	Chars Unit = iota // runes
	Words             // runs of non-whitespace
)

// Policy selects which boundary a chunk prefers to end on.
type Policy int

const (
	// ParagraphOrSentence cuts after the last blank line in the window, else
	// after the last sentence terminator.
	ParagraphOrSentence Policy = iota
	// Heading cuts in front of the last "##" heading in the window, else
	// after the last sentence terminator. Used when re-chunking text that
	// already carries headings.
	Heading
)

var headingRe = regexp.MustCompile(`(?:^|\n)##\s+`)

// Config controls chunking behavior.
type Config struct {
	Size   int    // budget per chunk, in Unit
	Unit   Unit   // what Size counts
	Policy Policy // preferred boundary
}

// DefaultConfig returns the budget used by the punctuate, split and cosmetic
// flows.
func DefaultConfig() Config {
	return Config{
		Size:   1000,
		Unit:   Chars,
		Policy: ParagraphOrSentence,
	}
}

// Slice takes the next chunk off the front of text. chunk+remaining is always
// exactly text. When all of text fits the budget it is returned whole.
//
// Inside the budget window the cut falls, in order of preference, on the
// policy's boundary, after the last sentence terminator, at the start of the
// word straddling the window edge, and finally at the window edge itself.
func (c Config) Slice(text string) (chunk, remaining string) {
	if text == "" || c.Size <= 0 {
		return "", text
	}
	window := c.window(text)
	if window >= len(text) {
		return text, ""
	}
	if window == 0 {
		return "", text
	}
	cut := c.cut(text, window)
	return text[:cut], text[cut:]
}

// Fits reports whether text fits in a single chunk.
func (c Config) Fits(text string) bool {
	return c.Size > 0 && c.window(text) >= len(text)
}

// Estimate returns the number of chunks text would take if every chunk used
// its full budget. It is a lower bound on the real count.
func (c Config) Estimate(text string) int {
	if c.Size <= 0 || text == "" {
		return 0
	}
	n := CountRunes(text)
	if c.Unit == Words {
		n = CountWords(text)
	}
	return (n + c.Size - 1) / c.Size
}

func (c Config) window(text string) int {
	if c.Unit == Words {
		return wordWindow(text, c.Size)
	}
	return runeWindow(text, c.Size)
}

func (c Config) cut(text string, window int) int {
	candidate := text[:window]

	switch c.Policy {
	case Heading:
		if at := lastHeading(candidate); at > 0 {
			return at
		}
	default:
		if at, ok := textscan.FindParagraphBoundary(candidate, window); ok {
			return at
		}
	}

	if end, ok := textscan.FindSentenceEnd(candidate); ok {
		return end.End()
	}
	if at := textscan.PreviousWordBoundary(text, window); at > 0 {
		return at
	}
	return window
}

// lastHeading returns the offset of the last heading marker in text, or 0.
// A heading at offset 0 is ignored since cutting there yields nothing.
func lastHeading(text string) int {
	matches := headingRe.FindAllStringIndex(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i][0] > 0 {
			return matches[i][0]
		}
	}
	return 0
}

// runeWindow returns the byte offset just past the first n runes of text.
func runeWindow(text string, n int) int {
	count := 0
	for i := range text {
		if count == n {
			return i
		}
		count++
	}
	return len(text)
}

// wordWindow returns the byte offset where word n+1 starts, keeping the
// whitespace that follows word n. It returns len(text) when text has at most
// n words.
func wordWindow(text string, n int) int {
	words := 0
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
			if words > n {
				return i
			}
		}
	}
	return len(text)
}

// CountRunes returns the character count of text.
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}
