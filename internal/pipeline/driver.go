package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/dgallion1/doctransform/internal/chunker"
	"github.com/dgallion1/doctransform/internal/config"
	"github.com/dgallion1/doctransform/internal/tracelog"
	"github.com/dgallion1/doctransform/internal/transform"
)

// DefaultMaxIterations bounds a run when the driver is not configured.
const DefaultMaxIterations = 100

// Sizes holds the chunk budget of each feature, in characters.
type Sizes struct {
	Punctuate int
	Split     int
	Summarize int
	Cosmetic  int
}

// Driver runs the chunk/transform/reconcile loop of each feature over a
// document body. A Driver keeps no per-run state and may be shared.
type Driver struct {
	Transformer      transform.Transformer
	Prompts          transform.Prompts
	Options          transform.Options
	Sizes            Sizes
	PreserveHeadings bool
	MaxIterations    int
	RetryBackoff     time.Duration
	Log              *slog.Logger
	Trace            *tracelog.Writer
}

// NewDriver builds a Driver from cfg.
func NewDriver(cfg config.Config, t transform.Transformer, log *slog.Logger) *Driver {
	return &Driver{
		Transformer: t,
		Prompts:     transform.PromptsFrom(cfg),
		Options:     transform.Options{Temperature: cfg.Temperature, TopP: cfg.TopP},
		Sizes: Sizes{
			Punctuate: cfg.Punctuate.ChunkSize,
			Split:     cfg.Split.ChunkSize,
			Summarize: cfg.Summarize.ChunkSize,
			Cosmetic:  cfg.Cosmetic.ChunkSize,
		},
		PreserveHeadings: cfg.PreserveHeadings,
		MaxIterations:    cfg.MaxIterations,
		RetryBackoff:     cfg.RetryBackoff,
		Log:              log,
		Trace:            tracelog.New(cfg.TraceDir),
	}
}

// Progress is emitted after every committed iteration.
type Progress struct {
	Feature   string
	Iteration int
	// Consumed and Total are byte counts of the driver's working text.
	Consumed int
	Total    int
	// Document is the whole body as it should read now: the processed
	// prefix followed by the untouched remainder. Empty when the iteration
	// produced nothing to write back.
	Document string
}

// ProgressFunc receives progress events. A non-nil error aborts the run.
type ProgressFunc func(Progress) error

// Outcome reports a finished or aborted run. On error Body holds the text
// committed so far followed by the unprocessed remainder.
type Outcome struct {
	Body       string
	Iterations int
	Calls      int
}

// Run applies feature to body.
func (d *Driver) Run(ctx context.Context, feature, docID, body string, onProgress ProgressFunc) (Outcome, error) {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	r := &run{
		d:          d,
		feature:    feature,
		docID:      docID,
		log:        log.With("doc_id", docID, "feature", feature),
		onProgress: onProgress,
	}
	switch feature {
	case config.Punctuate:
		return r.punctuate(ctx, body)
	case config.Split:
		return r.split(ctx, body)
	case config.Summarize:
		return r.summarize(ctx, body)
	case config.Cosmetic:
		return r.cosmetic(ctx, body)
	}
	return Outcome{Body: body}, fmt.Errorf("%w: %q", ErrUnknownFeature, feature)
}

func (d *Driver) chunkConfig(size int, policy chunker.Policy) chunker.Config {
	if size <= 0 {
		size = chunker.DefaultConfig().Size
	}
	return chunker.Config{Size: size, Unit: chunker.Chars, Policy: policy}
}

// run is the state of one Driver.Run call.
type run struct {
	d          *Driver
	feature    string
	docID      string
	log        *slog.Logger
	onProgress ProgressFunc

	iterations int
	calls      int
	ceiling    int
}

func (r *run) setCeiling(cfg chunker.Config, text string) {
	r.ceiling = r.d.MaxIterations
	if r.ceiling <= 0 {
		r.ceiling = DefaultMaxIterations
	}
	if est := 4 * cfg.Estimate(text); est > r.ceiling {
		r.ceiling = est
	}
}

// next starts an iteration. It fails when ctx is done or the ceiling is hit.
func (r *run) next(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.iterations >= r.ceiling {
		return fmt.Errorf("%w (%d)", ErrIterationLimit, r.ceiling)
	}
	r.iterations++
	return nil
}

func (r *run) outcome(body string) Outcome {
	return Outcome{Body: body, Iterations: r.iterations, Calls: r.calls}
}

// call sends text through the transformer, trying up to MaxAttempts times.
// Blank output counts as a failed attempt.
func (r *run) call(ctx context.Context, prompt, text string) (string, error) {
	var lastErr error
	for attempt := range MaxAttempts {
		r.calls++
		start := time.Now()
		out, err := r.d.Transformer.Transform(ctx, prompt, text, r.d.Options)
		if err == nil && strings.TrimSpace(out) == "" {
			err = transform.ErrEmpty
		}
		if err == nil {
			r.log.Debug("transform ok", "iteration", r.iterations, "in", len(text), "out", len(out),
				"est_tokens", chunker.EstimateTokens(prompt+text), "ms", time.Since(start).Milliseconds())
			return out, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		r.log.Warn("transform attempt failed", "iteration", r.iterations, "attempt", attempt+1,
			"retryable", transform.IsRetryable(err), "error", err)
		if attempt == MaxAttempts-1 {
			break
		}
		select {
		case <-time.After(Backoff(r.d.RetryBackoff, attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %w", ErrTransformFailed, MaxAttempts, lastErr)
}

// commit reports an advance. consumed is how far the cursor moved.
func (r *run) commit(consumed, done, total int, doc, block, processed string) error {
	if consumed <= 0 {
		return fmt.Errorf("%w at iteration %d", ErrStalled, r.iterations)
	}
	if err := r.d.Trace.Iteration(r.feature, r.docID, r.iterations, block, processed); err != nil {
		r.log.Warn("trace write failed", "error", err)
	}
	r.log.Debug("advance", "iteration", r.iterations, "consumed", consumed, "done", done, "total", total)
	if r.onProgress == nil {
		return nil
	}
	return r.onProgress(Progress{
		Feature:   r.feature,
		Iteration: r.iterations,
		Consumed:  done,
		Total:     total,
		Document:  doc,
	})
}

// keepEdges gives out the leading and trailing whitespace of src.
func keepEdges(src, out string) string {
	core := strings.TrimSpace(src)
	if core == "" {
		return src
	}
	lead := src[:strings.Index(src, core)]
	trail := src[len(lead)+len(core):]
	return lead + strings.TrimSpace(out) + trail
}

func blank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
