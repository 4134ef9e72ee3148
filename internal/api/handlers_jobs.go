package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/doctransform/internal/config"
	"github.com/dgallion1/doctransform/internal/docstore"
	"github.com/dgallion1/doctransform/internal/pipeline"
)

type submitRequest struct {
	Feature string   `json:"feature"`
	DocIDs  []string `json:"doc_ids"`
}

func validFeature(f string) bool {
	return slices.Contains(config.Features, f)
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !validFeature(req.Feature) {
		jsonError(w, fmt.Sprintf("unknown feature %q", req.Feature), http.StatusBadRequest)
		return
	}
	if len(req.DocIDs) == 0 {
		jsonError(w, "doc_ids is required", http.StatusBadRequest)
		return
	}
	ids := make([]string, 0, len(req.DocIDs))
	for _, id := range req.DocIDs {
		clean, err := docstore.CleanID(id)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		ids = append(ids, clean)
	}

	job := pipeline.NewJob(req.Feature, ids)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": "/api/jobs/" + job.ID,
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// handleStop ends the running batch before its next document.
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.orchestrator.StopBatch()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"stopping": s.orchestrator.EngineState() == pipeline.StateRunning,
	})
}
