package pipeline

import (
	"context"
	"strings"

	"github.com/dgallion1/doctransform/internal/chunker"
	"github.com/dgallion1/doctransform/internal/sentence"
	"github.com/dgallion1/doctransform/internal/topics"
)

// split asks the transformer where topics start and inserts a heading at
// each. On a non-final chunk with two or more topics the last topic is held
// back: its sentences start the next chunk and its title is offered again
// at sentence 1 when the next answer does not name one there.
func (r *run) split(ctx context.Context, body string) (Outcome, error) {
	cfg := r.d.chunkConfig(r.d.Sizes.Split, chunker.ParagraphOrSentence)
	rest := body
	total := len(rest)
	r.setCeiling(cfg, rest)

	var (
		done    strings.Builder
		pending string
	)
	for rest != "" {
		if err := r.next(ctx); err != nil {
			return r.outcome(done.String() + rest), err
		}
		chunk, after := cfg.Slice(rest)
		final := after == ""

		commit := chunk
		consumed := len(chunk)
		if !blank(chunk) {
			enumerated, _ := sentence.Enumerate(chunk)
			resp, err := r.call(ctx, r.d.Prompts.Split, enumerated)
			if err != nil {
				return r.outcome(done.String() + rest), err
			}
			parsed := topics.Parse(resp)
			if pending != "" {
				parsed = append([]topics.Topic{{N: 1, Title: pending}}, parsed...)
			}
			usable := topics.Usable(enumerated, parsed)
			pending = ""

			switch {
			case len(usable) == 0:
				r.log.Debug("no usable topics, chunk kept as is", "iteration", r.iterations)
			case final || len(usable) == 1:
				commit = topics.InsertHeadings(enumerated, usable)
			default:
				res := topics.InsertHeadingsExceptLast(enumerated, usable)
				if res.Consumed > 0 {
					commit, consumed = res.BeforeLastProcessed, res.Consumed
					pending = usable[len(usable)-1].Title
				} else {
					commit = topics.InsertHeadings(enumerated, usable)
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
