package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/doctransform/internal/config"
	"github.com/dgallion1/doctransform/internal/docstore"
)

func TestNewJob(t *testing.T) {
	ids := []string{"a.md", "b.md"}
	job := NewJob(config.Split, ids)
	ids[0] = "changed.md"

	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("job ID %q is not a UUID: %v", job.ID, err)
	}
	if job.Status != StatusQueued || job.Progress.TotalDocs != 2 {
		t.Errorf("job = %+v", job)
	}
	if job.DocIDs[0] != "a.md" {
		t.Error("job shares the caller's slice")
	}
	if NewJob(config.Split, nil).ID == job.ID {
		t.Error("job IDs repeat")
	}
}

func TestJob_Finish(t *testing.T) {
	tests := []struct {
		name string
		br   BatchResult
		err  error
		want JobStatus
	}{
		{"all ok", BatchResult{Succeeded: 2}, nil, StatusCompleted},
		{"some failed", BatchResult{Succeeded: 1, Failed: 1, Results: []Result{{DocID: "b", Error: "Document not found."}}}, nil, StatusPartial},
		{"all failed", BatchResult{Failed: 2}, nil, StatusFailed},
		{"stopped", BatchResult{Succeeded: 1, Stopped: true}, ErrStopped, StatusStopped},
		{"refused", BatchResult{}, ErrUnknownFeature, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewJob(config.Cosmetic, []string{"a", "b"})
			job.Finish(tt.br, tt.err)
			snap := job.Snapshot()
			if snap.Status != tt.want {
				t.Errorf("status = %q, want %q", snap.Status, tt.want)
			}
			if snap.Progress.DocsProcessed != tt.br.Succeeded+tt.br.Failed {
				t.Errorf("docs processed = %d", snap.Progress.DocsProcessed)
			}
		})
	}
}

func TestJob_ObserveAndSnapshot(t *testing.T) {
	job := NewJob(config.Punctuate, []string{"a.md"})
	job.Observe("a.md", Progress{Consumed: 10, Total: 40})
	job.Observe("a.md", Progress{Consumed: 25, Total: 40})
	job.AddError("boom")

	snap := job.Snapshot()
	if snap.Progress.Iterations != 2 || snap.Progress.BytesDone != 25 || snap.Progress.BytesTotal != 40 || snap.Progress.CurrentDoc != "a.md" {
		t.Errorf("progress = %+v", snap.Progress)
	}
	snap.Progress.Errors[0] = "mutated"
	if job.Snapshot().Progress.Errors[0] != "boom" {
		t.Error("snapshot shares the job's error slice")
	}
	if errs := NewJob(config.Split, nil).Snapshot().Progress.Errors; errs == nil {
		t.Error("snapshot errors should be an empty slice, not nil")
	}
}

func TestJobStore_Cleanup(t *testing.T) {
	s := NewJobStore(time.Minute)
	old := NewJob(config.Split, nil)
	old.Status = StatusCompleted
	old.UpdatedAt = time.Now().Add(-time.Hour)
	running := NewJob(config.Split, nil)
	running.Status = StatusRunning
	running.UpdatedAt = time.Now().Add(-time.Hour)
	fresh := NewJob(config.Split, nil)

	for _, j := range []*Job{old, running, fresh} {
		s.Put(j)
	}
	s.Cleanup()

	if s.Get(old.ID) != nil {
		t.Error("expired job kept")
	}
	if s.Get(running.ID) == nil || s.Get(fresh.ID) == nil {
		t.Error("live job removed")
	}
}

func TestOrchestrator_RunsJob(t *testing.T) {
	store := docstore.NewMemoryStore()
	store.Seed("a.md", "one.")
	store.Seed("b.md", "two.")
	o := NewOrchestrator(newTestEngine(store, upper()), 4, time.Hour, discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(config.Cosmetic, []string{"a.md", "b.md"})
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := o.GetJob(job.ID).Snapshot()
		if snap.Status == StatusCompleted {
			if len(snap.Results) != 2 {
				t.Errorf("results = %+v", snap.Results)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job still %q", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got, _ := store.Read(context.Background(), "b.md"); got != "TWO." {
		t.Errorf("b.md = %q", got)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	o := NewOrchestrator(newTestEngine(docstore.NewMemoryStore(), upper()), 1, time.Hour, discardLogger())
	if err := o.Submit(NewJob(config.Split, []string{"a"})); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	job := NewJob(config.Split, []string{"b"})
	if err := o.Submit(job); err == nil {
		t.Fatal("expected queue full error")
	}
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("status = %q", job.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("queue depth = %d", o.QueueDepth())
	}
}

func TestBackoff(t *testing.T) {
	if Backoff(0, 3) != 0 {
		t.Error("zero base should not wait")
	}
	for attempt := range 3 {
		d := Backoff(time.Second, attempt)
		base := time.Second << uint(attempt)
		if d < base || d > base+base/2 {
			t.Errorf("Backoff(1s, %d) = %v, want in [%v, %v]", attempt, d, base, base+base/2)
		}
	}
	if d := Backoff(time.Second, 20); d > 45*time.Second {
		t.Errorf("Backoff not capped: %v", d)
	}
}
