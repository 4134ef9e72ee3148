package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/dgallion1/doctransform/internal/config"
	"github.com/dgallion1/doctransform/internal/docstore"
	"github.com/dgallion1/doctransform/internal/textscan"
)

// State is the engine's run state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Engine applies features to stored documents one at a time. A second
// request while one is running is refused with ErrBusy.
type Engine struct {
	store  docstore.Store
	backup docstore.Backuper
	driver *Driver
	log    *slog.Logger

	running atomic.Bool
	stop    atomic.Bool
}

// NewEngine returns an idle engine. backup may be nil.
func NewEngine(store docstore.Store, backup docstore.Backuper, driver *Driver, log *slog.Logger) *Engine {
	return &Engine{store: store, backup: backup, driver: driver, log: log}
}

// Request asks for one feature on one document.
type Request struct {
	DocID   string
	Feature string
	// OnProgress, when set, sees every progress event after it has been
	// written to the store.
	OnProgress ProgressFunc
}

// Result summarizes one document run.
type Result struct {
	DocID      string `json:"doc_id"`
	Iterations int    `json:"iterations"`
	Calls      int    `json:"calls"`
	Error      string `json:"error,omitempty"`
}

// State reports whether a run is active.
func (e *Engine) State() State {
	if e.running.Load() {
		return StateRunning
	}
	return StateIdle
}

// Stop asks a running batch to end before its next document.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

func (e *Engine) acquire() bool {
	return e.running.CompareAndSwap(false, true)
}

func (e *Engine) release() {
	e.running.Store(false)
}

// Process runs one request.
func (e *Engine) Process(ctx context.Context, req Request) (Result, error) {
	if !e.acquire() {
		return Result{DocID: req.DocID}, ErrBusy
	}
	defer e.release()
	return e.process(ctx, req)
}

func (e *Engine) process(ctx context.Context, req Request) (Result, error) {
	log := e.log.With("doc_id", req.DocID, "feature", req.Feature)
	res := Result{DocID: req.DocID}
	if !slices.Contains(config.Features, req.Feature) {
		res.Error = Notice(ErrUnknownFeature)
		return res, fmt.Errorf("%w: %q", ErrUnknownFeature, req.Feature)
	}

	doc, err := e.store.Read(ctx, req.DocID)
	if err != nil {
		res.Error = Notice(err)
		return res, fmt.Errorf("read %s: %w", req.DocID, err)
	}
	_, body := textscan.SplitFrontMatter(doc)
	start := textscan.FrontMatterEnd(doc)

	if e.backup != nil {
		if err := e.backup.CreateBackup(ctx, req.DocID); err != nil {
			log.Warn("backup failed, continuing", "error", err)
		}
	}

	written := body
	write := func(text string) error {
		if text == written {
			return nil
		}
		if err := e.store.ReplaceRange(ctx, req.DocID, text, start, start+docstore.LineCount(written)); err != nil {
			return fmt.Errorf("write %s: %w", req.DocID, err)
		}
		written = text
		return nil
	}

	log.Info("processing started", "body_bytes", len(body))
	out, err := e.driver.Run(ctx, req.Feature, req.DocID, body, func(p Progress) error {
		if p.Document != "" {
			if err := write(p.Document); err != nil {
				return err
			}
		}
		if req.OnProgress != nil {
			return req.OnProgress(p)
		}
		return nil
	})
	res.Iterations, res.Calls = out.Iterations, out.Calls
	if err != nil {
		log.Error("processing failed", "error", err, "iterations", out.Iterations)
		res.Error = Notice(err)
		return res, err
	}
	if err := write(out.Body); err != nil {
		res.Error = Notice(err)
		return res, err
	}
	log.Info("processing complete", "iterations", out.Iterations, "calls", out.Calls)
	return res, nil
}

// BatchResult summarizes a batch.
type BatchResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Stopped   bool     `json:"stopped"`
	Results   []Result `json:"results"`
}

// ProcessBatch runs feature over docIDs in order. A failed document does not
// end the batch. Stop and ctx are checked before each document; the
// document in progress always runs to completion.
func (e *Engine) ProcessBatch(ctx context.Context, docIDs []string, feature string, onProgress func(docID string, p Progress)) (BatchResult, error) {
	var br BatchResult
	if !e.acquire() {
		return br, ErrBusy
	}
	defer e.release()
	e.stop.Store(false)

	for _, id := range docIDs {
		if e.stop.Load() || ctx.Err() != nil {
			br.Stopped = true
			e.log.Info("batch stopped", "feature", feature, "done", br.Succeeded+br.Failed, "total", len(docIDs))
			return br, ErrStopped
		}
		req := Request{DocID: id, Feature: feature}
		if onProgress != nil {
			req.OnProgress = func(p Progress) error {
				onProgress(id, p)
				return nil
			}
		}
		res, err := e.process(context.WithoutCancel(ctx), req)
		br.Results = append(br.Results, res)
		if err != nil {
			br.Failed++
			if errors.Is(err, ErrUnknownFeature) {
				return br, err
			}
			continue
		}
		br.Succeeded++
	}
	return br, nil
}
