// Package topics turns a model's "N: Title" topic list into Markdown headings
// placed in front of the numbered sentences of an enumerated chunk.
package topics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/dgallion1/doctransform/internal/sentence"
)

var lineRe = regexp.MustCompile(`^(\d+)\s*:\s*(.+)$`)

// Topic names the section starting at sentence N.
type Topic struct {
	N     int
	Title string
}

// Result is the outcome of InsertHeadingsExceptLast.
type Result struct {
	// BeforeLastProcessed is the text in front of the last topic, with
	// headings inserted and markers removed. It ends at the last
	// non-whitespace character before the last topic's marker.
	BeforeLastProcessed string
	// FromLastEnumerated is the enumerated text from the last topic's
	// marker onward, still numbered.
	FromLastEnumerated string
	// Consumed is the length of the plain chunk text that
	// BeforeLastProcessed covers.
	Consumed int
}

// Parse reads one topic per line. Lines that do not look like "N: Title" are
// skipped. The result is sorted by N; equal N keep their input order.
func Parse(response string) []Topic {
	var out []Topic
	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}
		out = append(out, Topic{N: n, Title: title})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].N < out[j].N })
	return out
}

// Usable keeps the topics whose marker is present in enumerated. When an
// index repeats, the last title wins.
func Usable(enumerated string, topics []Topic) []Topic {
	if len(topics) == 0 {
		return nil
	}
	sorted := append([]Topic(nil), topics...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].N < sorted[j].N })

	present := sentence.Locate(enumerated)
	var out []Topic
	for _, t := range sorted {
		if _, ok := present[t.N]; !ok {
			continue
		}
		if n := len(out); n > 0 && out[n-1].N == t.N {
			out[n-1] = t
			continue
		}
		out = append(out, t)
	}
	return out
}

// Heading renders the heading block that replaces a topic's marker.
func Heading(title string) string {
	return "\n## " + title + "\n"
}

// InsertHeadings places a heading for every usable topic and removes all
// markers.
func InsertHeadings(enumerated string, topics []Topic) string {
	usable := Usable(enumerated, topics)
	return render(enumerated, usable, sentence.Locate(enumerated))
}

// InsertHeadingsExceptLast places headings for every usable topic except the
// last and stops at the last topic's marker, leaving that topic open so the
// next chunk can still add sentences to it.
//
// With fewer than two usable topics there is nothing to hold back: the whole
// chunk is returned stripped and without headings, and the caller decides how
// to commit it.
func InsertHeadingsExceptLast(enumerated string, topics []Topic) Result {
	usable := Usable(enumerated, topics)
	if len(usable) < 2 {
		plain := sentence.Strip(enumerated)
		return Result{BeforeLastProcessed: plain, Consumed: len(plain)}
	}

	locs := sentence.Locate(enumerated)
	last := usable[len(usable)-1]
	at := locs[last.N]
	before := strings.TrimRightFunc(enumerated[:at], unicode.IsSpace)

	return Result{
		BeforeLastProcessed: render(before, usable[:len(usable)-1], locs),
		FromLastEnumerated:  enumerated[at:],
		Consumed:            len(sentence.Strip(before)),
	}
}

// render strips markers from text and puts a heading in front of the
// sentence each topic points at. locs are marker offsets in text.
func render(text string, topics []Topic, locs map[int]int) string {
	var b strings.Builder
	prev := 0
	for _, t := range topics {
		at, ok := locs[t.N]
		if !ok || at < prev || at >= len(text) {
			continue
		}
		b.WriteString(sentence.Strip(text[prev:at]))
		b.WriteString(Heading(t.Title))
		prev = at
	}
	b.WriteString(sentence.Strip(text[prev:]))
	return b.String()
}
