package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/doctransform/internal/chunker"
)

// SummaryBlock wraps summary in the fenced block placed above the body.
func SummaryBlock(summary string) string {
	return "~~~ Summary\n" + summary + "\n~~~\n"
}

// summarize summarizes the body chunk by chunk, then folds the partial
// summaries together until one remains. The body itself is left unchanged
// and the summary is put in front of it.
func (r *run) summarize(ctx context.Context, body string) (Outcome, error) {
	cfg := r.d.chunkConfig(r.d.Sizes.Summarize, chunker.Heading)
	r.setCeiling(cfg, body)
	total := len(body)

	var partials []string
	rest := body
	for rest != "" {
		if err := r.next(ctx); err != nil {
			return r.outcome(body), err
		}
		chunk, after := cfg.Slice(rest)
		var partial string
		if !blank(chunk) {
			out, err := r.call(ctx, r.d.Prompts.Summarize, chunk)
			if err != nil {
				return r.outcome(body), err
			}
			partial = strings.TrimSpace(out)
			partials = append(partials, partial)
		}
		rest = after
		if err := r.commit(len(chunk), total-len(rest), total, "", chunk, partial); err != nil {
			return r.outcome(body), err
		}
	}

	summary, err := r.reduce(ctx, cfg, partials)
	if err != nil {
		return r.outcome(body), err
	}
	if summary == "" {
		return r.outcome(body), nil
	}
	return r.outcome(SummaryBlock(summary) + body), nil
}

// reduce folds partial summaries into one. Each round joins the partials
// under "## Part N" headings and summarizes the result, re-chunking on those
// headings when it does not fit one call.
func (r *run) reduce(ctx context.Context, cfg chunker.Config, partials []string) (string, error) {
	for len(partials) > 1 {
		joined := joinParts(partials)
		var next []string
		rest := joined
		for rest != "" {
			if err := r.next(ctx); err != nil {
				return "", err
			}
			var chunk string
			chunk, rest = cfg.Slice(rest)
			if blank(chunk) {
				continue
			}
			out, err := r.call(ctx, r.d.Prompts.Summarize, chunk)
			if err != nil {
				return "", err
			}
			next = append(next, strings.TrimSpace(out))
		}
		if len(next) > 1 && chunker.CountRunes(joinParts(next)) >= chunker.CountRunes(joined) {
			return "", fmt.Errorf("%w: summaries stopped shrinking", ErrStalled)
		}
		r.log.Debug("reduced summaries", "from", len(partials), "to", len(next))
		partials = next
	}
	if len(partials) == 0 {
		return "", nil
	}
	return partials[0], nil
}

func joinParts(parts []string) string {
	blocks := make([]string, len(parts))
	for i, p := range parts {
		blocks[i] = fmt.Sprintf("## Part %d\n%s", i+1, p)
	}
	return strings.Join(blocks, "\n\n")
}
