package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Orchestrator queues feature jobs and runs them one after another on the
// engine.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	engine *Engine
	log    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the job queue. Call Start to begin processing.
func NewOrchestrator(engine *Engine, queueSize int, jobTTL time.Duration, log *slog.Logger) *Orchestrator {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Orchestrator{
		jobs:   NewJobStore(jobTTL),
		queue:  make(chan *Job, queueSize),
		engine: engine,
		log:    log,
	}
}

// Start launches the worker and the job cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case job, ok := <-o.queue:
				if !ok {
					return
				}
				o.run(workerCtx, job)
			}
		}
	}()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

func (o *Orchestrator) run(ctx context.Context, job *Job) {
	log := o.log.With("job_id", job.ID, "feature", job.Feature)
	job.SetStatus(StatusRunning)
	log.Info("job started", "docs", len(job.DocIDs))

	// ErrBusy means a direct Process call holds the engine.
	for {
		br, err := o.engine.ProcessBatch(ctx, job.DocIDs, job.Feature, job.Observe)
		if errors.Is(err, ErrBusy) && ctx.Err() == nil {
			select {
			case <-time.After(time.Second):
				continue
			case <-ctx.Done():
			}
		}
		job.Finish(br, err)
		log.Info("job finished", "status", job.Snapshot().Status, "succeeded", br.Succeeded, "failed", br.Failed)
		return
	}
}

// Stop cancels the worker and waits for it. A document in progress is
// finished first.
func (o *Orchestrator) Stop() {
	o.engine.Stop()
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a job.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed)
		return fmt.Errorf("job queue is full (%d)", cap(o.queue))
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// StopBatch asks the running batch to stop before its next document.
func (o *Orchestrator) StopBatch() {
	o.engine.Stop()
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// EngineState reports the engine's run state.
func (o *Orchestrator) EngineState() State {
	return o.engine.State()
}
