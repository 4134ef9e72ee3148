package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/doctransform/internal/doctree"
)

// TextParser handles plain text. Blank lines separate paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := doctree.NewBuilder(titleFrom(filename), filename)
	var para []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			b.Text(strings.Join(para, "\n"))
			para = para[:0]
			continue
		}
		para = append(para, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	b.Text(strings.Join(para, "\n"))
	return b.Tree(), nil
}
