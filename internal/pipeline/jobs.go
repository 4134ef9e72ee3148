package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a feature job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
	StatusStopped   JobStatus = "stopped"
)

// Job tracks one feature applied to one or more documents.
type Job struct {
	mu sync.Mutex

	ID      string   `json:"job_id"`
	Feature string   `json:"feature"`
	DocIDs  []string `json:"doc_ids"`

	Status   JobStatus   `json:"status"`
	Progress JobProgress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	results []Result
	errors  []string
}

// JobProgress counts documents and iterations.
type JobProgress struct {
	TotalDocs     int      `json:"total_docs"`
	DocsProcessed int      `json:"docs_processed"`
	CurrentDoc    string   `json:"current_doc,omitempty"`
	Iterations    int      `json:"iterations"`
	BytesDone     int      `json:"bytes_done"`
	BytesTotal    int      `json:"bytes_total"`
	Errors        []string `json:"errors"`
}

// NewJob returns a queued job with a fresh ID.
func NewJob(feature string, docIDs []string) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Feature:   feature,
		DocIDs:    append([]string(nil), docIDs...),
		Status:    StatusQueued,
		Progress:  JobProgress{TotalDocs: len(docIDs)},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes finished jobs not updated within the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status != StatusRunning && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// Observe records a progress event for docID.
func (j *Job) Observe(docID string, p Progress) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.CurrentDoc = docID
	j.Progress.Iterations++
	j.Progress.BytesDone = p.Consumed
	j.Progress.BytesTotal = p.Total
	j.UpdatedAt = time.Now()
}

// Finish records the outcome of a batch and sets the final status.
func (j *Job) Finish(br BatchResult, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = br.Results
	j.Progress.DocsProcessed = br.Succeeded + br.Failed
	j.Progress.CurrentDoc = ""
	for _, r := range br.Results {
		if r.Error != "" {
			j.errors = append(j.errors, r.DocID+": "+r.Error)
		}
	}
	if err != nil && len(br.Results) == 0 && !br.Stopped {
		j.errors = append(j.errors, Notice(err))
	}
	j.Progress.Errors = j.errors

	switch {
	case br.Stopped:
		j.Status = StatusStopped
	case err != nil && br.Succeeded == 0:
		j.Status = StatusFailed
	case br.Failed > 0 && br.Succeeded == 0:
		j.Status = StatusFailed
	case br.Failed > 0:
		j.Status = StatusPartial
	default:
		j.Status = StatusCompleted
	}
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string      `json:"job_id"`
	Feature  string      `json:"feature"`
	DocIDs   []string    `json:"doc_ids"`
	Status   JobStatus   `json:"status"`
	Progress JobProgress `json:"progress"`
	Results  []Result    `json:"results"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	p := j.Progress
	p.Errors = append([]string{}, j.Progress.Errors...)
	results := append([]Result{}, j.results...)
	return JobSnapshot{
		ID:       j.ID,
		Feature:  j.Feature,
		DocIDs:   append([]string(nil), j.DocIDs...),
		Status:   j.Status,
		Progress: p,
		Results:  results,
	}
}
