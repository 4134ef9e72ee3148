// Package textscan finds the paragraph, sentence and word boundaries the
// chunker and the drivers cut on. All offsets are byte offsets into the
// string passed in and always fall on a rune boundary.
package textscan

import (
	"regexp"
	"unicode/utf8"
)

var (
	// A blank line: newline, optional horizontal whitespace, newline.
	paragraphRe = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

	// Three dots are tried before a single period so an ellipsis is one match.
	terminatorRe = regexp.MustCompile(`\.{3}|…|[.!?]`)
)

// SentenceEnd locates a sentence terminator.
type SentenceEnd struct {
	Offset int    // byte offset of the terminator's last character
	Marker string // ".", "!", "?", "..." or "…"
}

// End returns the offset just past the terminator.
func (s SentenceEnd) End() int {
	if s.Marker == "..." {
		return s.Offset + 1
	}
	_, size := utf8.DecodeRuneInString(s.Marker)
	return s.Offset + size
}

// FindParagraphBoundary returns the offset just after the last blank line
// lying entirely inside the first window bytes of text.
func FindParagraphBoundary(text string, window int) (int, bool) {
	if window > len(text) {
		window = len(text)
	}
	if window <= 0 {
		return 0, false
	}
	matches := paragraphRe.FindAllStringIndex(text[:window], -1)
	if len(matches) == 0 {
		return 0, false
	}
	return matches[len(matches)-1][1], true
}

// FindSentenceEnd returns the last sentence terminator in text.
func FindSentenceEnd(text string) (SentenceEnd, bool) {
	ends := sentenceEnds(text)
	if len(ends) == 0 {
		return SentenceEnd{}, false
	}
	return ends[len(ends)-1], true
}

// FindPreviousSentenceEnd returns the last terminator whose offset is
// strictly before beforeOffset.
func FindPreviousSentenceEnd(text string, beforeOffset int) (SentenceEnd, bool) {
	var (
		last  SentenceEnd
		found bool
	)
	for _, e := range sentenceEnds(text) {
		if e.Offset >= beforeOffset {
			break
		}
		last, found = e, true
	}
	return last, found
}

func sentenceEnds(text string) []SentenceEnd {
	idx := terminatorRe.FindAllStringIndex(text, -1)
	ends := make([]SentenceEnd, 0, len(idx))
	for _, m := range idx {
		marker := text[m[0]:m[1]]
		offset := m[0]
		if marker == "..." {
			offset = m[1] - 1
		}
		ends = append(ends, SentenceEnd{Offset: offset, Marker: marker})
	}
	return ends
}
