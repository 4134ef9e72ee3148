package textscan

import "strings"

// frontMatterKeys open a metadata block that has no leading delimiter line.
var frontMatterKeys = []string{"aliases:", "tags:"}

// FrontMatterEnd reports how many leading lines of text form a metadata
// block, i.e. the 1-indexed line after the closing delimiter. It returns 0
// when there is no block.
//
// The block must open on the first line, either with a "---" or "..." line
// or with a line starting with a known key. The next "---" or "..." line
// closes it. A block that never closes is treated as absent. When the block
// was opened by a key line, every line before the closer must look like
// metadata; a prose line means the document simply starts with that key.
func FrontMatterEnd(text string) int {
	if text == "" {
		return 0
	}
	lines := strings.Split(text, "\n")

	first := strings.TrimSpace(lines[0])
	keyOpened := false
	switch {
	case isDelimiter(first):
	case hasKnownKey(first):
		keyOpened = true
	default:
		return 0
	}

	for i := 1; i < len(lines); i++ {
		if isDelimiter(strings.TrimSpace(lines[i])) {
			return i + 1
		}
		if keyOpened && !looksLikeMetadata(lines[i]) {
			return 0
		}
	}
	return 0
}

// SplitFrontMatter splits text into the metadata block and the body so that
// front+body == text.
func SplitFrontMatter(text string) (front, body string) {
	n := FrontMatterEnd(text)
	if n == 0 {
		return "", text
	}
	off := 0
	for i := 0; i < n; i++ {
		j := strings.IndexByte(text[off:], '\n')
		if j < 0 {
			off = len(text)
			break
		}
		off += j + 1
	}
	return text[:off], text[off:]
}

func isDelimiter(line string) bool {
	return line == "---" || line == "..."
}

func hasKnownKey(line string) bool {
	for _, k := range frontMatterKeys {
		if strings.HasPrefix(line, k) {
			return true
		}
	}
	return false
}

func looksLikeMetadata(raw string) bool {
	line := strings.TrimRight(raw, "\r")
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return true
	case strings.HasPrefix(line, " "), strings.HasPrefix(line, "\t"):
		return true
	case strings.HasPrefix(trimmed, "- "):
		return true
	}
	return strings.Contains(trimmed, ":")
}
