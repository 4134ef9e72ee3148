// Package sentence numbers the sentences of a chunk so a model can refer to
// them by index.
//
// A marker is the sentence number in double quotes ("1", "2", ...) written
// directly in front of the sentence's first non-whitespace character. Markers
// only ever add text; removing them with Strip gives back the chunk exactly.
package sentence

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var markerRe = regexp.MustCompile(`"\d+"`)

// Marker returns the marker token for sentence k.
func Marker(k int) string {
	return `"` + strconv.Itoa(k) + `"`
}

// Enumerate inserts a marker before every sentence start in chunk. positions
// maps each sentence number to the byte offset of its marker in enumerated.
//
// A sentence starts at the first non-whitespace character of the chunk and at
// the first non-whitespace character after every run of terminators
// (".", "!", "?", "…"). A run such as "..." or "?!" counts once.
func Enumerate(chunk string) (enumerated string, positions map[int]int) {
	positions = make(map[int]int)
	if chunk == "" {
		return "", positions
	}

	starts := sentenceStarts(chunk)
	var b strings.Builder
	b.Grow(len(chunk) + 4*len(starts))
	cursor := 0
	for i, s := range starts {
		b.WriteString(chunk[cursor:s])
		positions[i+1] = b.Len()
		b.WriteString(Marker(i + 1))
		cursor = s
	}
	b.WriteString(chunk[cursor:])
	return b.String(), positions
}

// Strip removes the markers Enumerate inserted. Exactly one marker is removed
// at each sentence start, so quoted numbers that were part of the original
// text survive: Strip(Enumerate(x)) == x for every x.
func Strip(enumerated string) string {
	spans := markerSpans(enumerated)
	if len(spans) == 0 {
		return enumerated
	}
	var b strings.Builder
	b.Grow(len(enumerated))
	prev := 0
	for _, sp := range spans {
		b.WriteString(enumerated[prev:sp[0]])
		prev = sp[1]
	}
	b.WriteString(enumerated[prev:])
	return b.String()
}

// Locate returns the offset of every marker found at a sentence start of
// enumerated, keyed by sentence number. When a number repeats, the first
// occurrence is kept.
func Locate(enumerated string) map[int]int {
	found := make(map[int]int)
	for _, sp := range markerSpans(enumerated) {
		n, err := strconv.Atoi(enumerated[sp[0]+1 : sp[1]-1])
		if err != nil {
			continue
		}
		if _, dup := found[n]; !dup {
			found[n] = sp[0]
		}
	}
	return found
}

// StripAll removes every "<digits>" token wherever it appears. It is meant for
// model output, where echoed markers may have drifted away from sentence
// starts.
func StripAll(text string) string {
	for {
		out := markerRe.ReplaceAllString(text, "")
		if out == text {
			return out
		}
		text = out
	}
}

func sentenceStarts(chunk string) []int {
	var starts []int
	if s := skipSpace(chunk, 0); s < len(chunk) {
		starts = append(starts, s)
	}
	for i := 0; i < len(chunk); {
		r, size := utf8.DecodeRuneInString(chunk[i:])
		if !isTerminator(r) {
			i += size
			continue
		}
		end := runEnd(chunk, i)
		if s := skipSpace(chunk, end); s < len(chunk) {
			starts = append(starts, s)
		}
		i = end
	}
	return starts
}

// markerSpans walks enumerated the same way sentenceStarts walks the plain
// chunk and reports the marker found at each sentence start.
func markerSpans(enumerated string) [][2]int {
	var spans [][2]int
	atStart := true
	for i := 0; i < len(enumerated); {
		if atStart {
			atStart = false
			i = skipSpace(enumerated, i)
			if n := markerLen(enumerated[i:]); n > 0 {
				spans = append(spans, [2]int{i, i + n})
				i += n
			}
			continue
		}
		r, size := utf8.DecodeRuneInString(enumerated[i:])
		if isTerminator(r) {
			i = runEnd(enumerated, i)
			atStart = true
			continue
		}
		i += size
	}
	return spans
}

// markerLen returns the length of the marker at the start of s, or 0.
func markerLen(s string) int {
	if len(s) < 3 || s[0] != '"' {
		return 0
	}
	j := 1
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == 1 || j >= len(s) || s[j] != '"' {
		return 0
	}
	return j + 1
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

func runEnd(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isTerminator(r) {
			break
		}
		i += size
	}
	return i
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
