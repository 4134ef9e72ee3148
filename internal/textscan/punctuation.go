package textscan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	wikilinkRe    = regexp.MustCompile(`!?\[\[[^\]]+\]\]`)
	placeholderRe = regexp.MustCompile("\uE000(\\d+)\uE001")
	punctuationRe = regexp.MustCompile(`[.!?…,;—«»"'‘’“”]+`)
	headingMarkRe = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	hspaceRe      = regexp.MustCompile(`[ \t]+`)
	lineEdgeRe    = regexp.MustCompile(` *\n *`)
)

// StripPunctuation removes sentence and clause punctuation, collapsing
// horizontal whitespace runs to a single space and dropping spaces around
// newlines. Newlines themselves are never removed. Wikilinks and embeds
// ([[...]], ![[...]]) pass through untouched. When preserveHeadings is false
// leading heading markers are removed as well.
func StripPunctuation(text string, preserveHeadings bool) string {
	var links []string
	out := wikilinkRe.ReplaceAllStringFunc(text, func(m string) string {
		links = append(links, m)
		return fmt.Sprintf("\uE000%d\uE001", len(links)-1)
	})

	out = punctuationRe.ReplaceAllString(out, " ")
	if !preserveHeadings {
		out = headingMarkRe.ReplaceAllString(out, "")
	}
	out = hspaceRe.ReplaceAllString(out, " ")
	out = lineEdgeRe.ReplaceAllString(out, "\n")

	out = placeholderRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		i, err := strconv.Atoi(sub[1])
		if err != nil || i >= len(links) {
			return m
		}
		return links[i]
	})

	return strings.Trim(out, " \t")
}
