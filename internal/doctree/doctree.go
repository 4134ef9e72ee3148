// Package doctree holds the section tree the import parsers produce and
// renders it as a markdown document the engine can work on.
package doctree

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // from metadata or the file name
	Source   string     // original file name
	Children []*DocNode // top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string // empty for leaf text
	Text     string
	Children []*DocNode
}

// Builder assembles a tree from a flat stream of headings and text blocks,
// nesting each heading under the nearest heading of a lower level.
type Builder struct {
	tree  *DocTree
	root  *DocNode
	stack []level
	text  strings.Builder
}

type level struct {
	node  *DocNode
	depth int
}

// NewBuilder starts a tree for title.
func NewBuilder(title, source string) *Builder {
	root := &DocNode{Title: title}
	return &Builder{
		tree:  &DocTree{Title: title, Source: source},
		root:  root,
		stack: []level{{node: root, depth: 0}},
	}
}

// SetTitle replaces the document title.
func (b *Builder) SetTitle(title string) {
	b.tree.Title = title
}

// Heading opens a section at depth (1 for the outermost).
func (b *Builder) Heading(depth int, title string) {
	b.flush()
	n := &DocNode{Title: title}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].depth >= depth {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, n)
	b.stack = append(b.stack, level{node: n, depth: depth})
}

// Text adds a block of text to the current section.
func (b *Builder) Text(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(t)
}

// Section adds a complete titled section at the top level.
func (b *Builder) Section(title, text string) {
	b.Heading(1, title)
	b.Text(text)
}

func (b *Builder) flush() {
	t := b.text.String()
	b.text.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// Tree finishes the build. Text seen before any heading becomes a leading
// untitled section.
func (b *Builder) Tree() *DocTree {
	b.flush()
	b.tree.Children = b.root.Children
	if b.root.Text != "" {
		b.tree.Children = append([]*DocNode{{Text: b.root.Text}}, b.tree.Children...)
	}
	return b.tree
}

type frontMatter struct {
	Title  string `yaml:"title,omitempty"`
	Source string `yaml:"source,omitempty"`
}

// Markdown renders the tree as a markdown document with a front-matter
// block. Top-level sections become "##" headings so they line up with the
// headings the split feature inserts; deeper levels add a "#" each, up to
// six.
func (t *DocTree) Markdown() (string, error) {
	var b strings.Builder
	meta, err := yaml.Marshal(frontMatter{Title: t.Title, Source: t.Source})
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n")

	var body []string
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			if n.Title != "" {
				body = append(body, strings.Repeat("#", min(depth, 6))+" "+n.Title)
			}
			if n.Text != "" {
				body = append(body, n.Text)
			}
			walk(n.Children, depth+1)
		}
	}
	walk(t.Children, 2)

	if len(body) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(body, "\n\n"))
		b.WriteString("\n")
	}
	return b.String(), nil
}
