package pipeline

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/doctransform/internal/chunker"
	"github.com/dgallion1/doctransform/internal/sentence"
	"github.com/dgallion1/doctransform/internal/textscan"
)

// punctuate strips the body's punctuation and has the transformer restore
// it chunk by chunk. Each non-final chunk commits only up to the
// second-to-last sentence end of the output; the last sentence is sent
// again with the next chunk.
func (r *run) punctuate(ctx context.Context, body string) (Outcome, error) {
	cfg := r.d.chunkConfig(r.d.Sizes.Punctuate, chunker.ParagraphOrSentence)
	rest := textscan.StripPunctuation(body, r.d.PreserveHeadings)
	total := len(rest)
	r.setCeiling(cfg, rest)

	var done strings.Builder
	for rest != "" {
		if err := r.next(ctx); err != nil {
			return r.outcome(done.String() + rest), err
		}
		chunk, after := cfg.Slice(rest)
		final := after == ""

		var commit string
		consumed := len(chunk)
		if blank(chunk) {
			commit = chunk
		} else {
			enumerated, _ := sentence.Enumerate(chunk)
			out, err := r.call(ctx, r.d.Prompts.Punctuate, enumerated)
			if err != nil {
				return r.outcome(done.String() + rest), err
			}
			out = keepEdges(chunk, sentence.StripAll(out))
			commit = out
			if !final {
				if cut, ok := safeCut(out); ok {
					if n := textscan.AlignOffset(chunk, out, cut); n > 0 {
						commit, consumed = out[:cut], n
					}
				}
			}
		}

		done.WriteString(commit)
		rest = rest[consumed:]
		if err := r.commit(consumed, total-len(rest), total, done.String()+rest, chunk, commit); err != nil {
			return r.outcome(done.String() + rest), err
		}
	}
	return r.outcome(done.String()), nil
}

// safeCut returns the offset just past the second-to-last sentence end in
// out, including any terminator characters that directly follow it.
func safeCut(out string) (int, bool) {
	last, ok := textscan.FindSentenceEnd(out)
	if !ok {
		return 0, false
	}
	start := last.End()
	for start > 0 {
		c, size := utf8.DecodeLastRuneInString(out[:start])
		if !isTerminator(c) {
			break
		}
		start -= size
	}
	prev, ok := textscan.FindPreviousSentenceEnd(out, start)
	if !ok {
		return 0, false
	}
	cut := prev.End()
	for cut < len(out) {
		c, size := utf8.DecodeRuneInString(out[cut:])
		if !isTerminator(c) {
			break
		}
		cut += size
	}
	return cut, true
}

func isTerminator(c rune) bool {
	return strings.ContainsRune(".!?…", c)
}
