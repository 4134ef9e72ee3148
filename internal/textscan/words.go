package textscan

import (
	"unicode"
	"unicode/utf8"
)

// NextWordBoundary returns the start of the first word at or after pos.
func NextWordBoundary(text string, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(text) {
		return len(text)
	}
	if r, _ := utf8.DecodeLastRuneInString(text[:pos]); unicode.IsSpace(r) {
		return pos
	}
	for i := pos; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			return i + size
		}
		i += size
	}
	return len(text)
}

// PreviousWordBoundary returns the start of the word containing pos, or pos
// itself when it already starts a word.
func PreviousWordBoundary(text string, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	for i := pos; i > 0; {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if unicode.IsSpace(r) {
			return i
		}
		i -= size
	}
	return 0
}

// AlignOffset maps cut, an offset into transformed, to the matching offset in
// source. Only letters and digits are counted, so punctuation and spacing the
// transform added or removed do not shift the result. The returned offset is
// just past the source rune matching the last counted rune.
func AlignOffset(source, transformed string, cut int) int {
	if cut > len(transformed) {
		cut = len(transformed)
	}
	want := 0
	for _, r := range transformed[:cut] {
		if isWordRune(r) {
			want++
		}
	}
	if want == 0 {
		return 0
	}

	seen := 0
	for i, r := range source {
		if !isWordRune(r) {
			continue
		}
		seen++
		if seen == want {
			return i + utf8.RuneLen(r)
		}
	}
	return len(source)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
