// Package parser converts uploaded files into markdown documents the engine
// can process.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/doctransform/internal/doctree"
)

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// Options tune parser selection.
type Options struct {
	// PDFFallbackPdftotext retries unreadable PDFs with the pdftotext tool.
	PDFFallbackPdftotext bool
}

// ForFile returns the parser for filename's extension.
func ForFile(filename string, opts Options) (Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupported reports whether filename has an importable extension.
func IsSupported(filename string) bool {
	_, err := ForFile(filename, Options{})
	return err == nil
}

// Import parses data and renders it as a markdown document with front
// matter.
func Import(data []byte, filename string, opts Options) (string, error) {
	p, err := ForFile(filename, opts)
	if err != nil {
		return "", err
	}
	tree, err := p.Parse(bytes.NewReader(data), filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filename, err)
	}
	return tree.Markdown()
}

// MarkdownName returns the document ID an imported file is stored under.
func MarkdownName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return base + ".md"
}

func titleFrom(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
