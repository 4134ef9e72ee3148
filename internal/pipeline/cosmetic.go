package pipeline

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/doctransform/internal/chunker"
)

// cosmetic replaces each chunk with the transformer's cleaned-up version.
// The whitespace character after a chunk is copied through untouched.
func (r *run) cosmetic(ctx context.Context, body string) (Outcome, error) {
	cfg := r.d.chunkConfig(r.d.Sizes.Cosmetic, chunker.ParagraphOrSentence)
	rest := body
	total := len(rest)
	r.setCeiling(cfg, rest)

	var done strings.Builder
	for rest != "" {
		if err := r.next(ctx); err != nil {
			return r.outcome(done.String() + rest), err
		}
		chunk, after := cfg.Slice(rest)

		commit := chunk
		if !blank(chunk) {
			out, err := r.call(ctx, r.d.Prompts.Cosmetic, chunk)
			if err != nil {
				return r.outcome(done.String() + rest), err
			}
			commit = keepEdges(chunk, out)
		}
		consumed := len(chunk)
		if c, size := utf8.DecodeRuneInString(after); size > 0 && unicode.IsSpace(c) {
			commit += after[:size]
			consumed += size
		}

		done.WriteString(commit)
		rest = rest[consumed:]
		if err := r.commit(consumed, total-len(rest), total, done.String()+rest, chunk, commit); err != nil {
			return r.outcome(done.String() + rest), err
		}
	}
	return r.outcome(done.String()), nil
}
