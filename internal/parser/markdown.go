package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/doctransform/internal/doctree"
	"github.com/dgallion1/doctransform/internal/textscan"
)

// MarkdownParser handles Markdown files using goldmark. An existing
// front-matter block is dropped; the rendered document gets a new one.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	_, body := textscan.SplitFrontMatter(string(raw))
	src := []byte(body)

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	b := doctree.NewBuilder(titleFrom(filename), filename)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.Heading(h.Level, blockText(h, src))
			continue
		}
		b.Text(blockText(n, src))
	}
	return b.Tree(), nil
}

// blockText returns the text of a node. Inline text keeps its line breaks;
// nested blocks such as list items go on their own lines.
func blockText(n ast.Node, src []byte) string {
	if !n.HasChildren() {
		if n.Type() != ast.TypeBlock {
			return ""
		}
		var sb strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
		}
		return strings.TrimSpace(sb.String())
	}

	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				sb.WriteByte('\n')
			}
			continue
		}
		if c.Type() == ast.TypeBlock && sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(blockText(c, src))
	}
	return strings.TrimSpace(sb.String())
}
