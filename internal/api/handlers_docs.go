package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/dgallion1/doctransform/internal/docstore"
	"github.com/dgallion1/doctransform/internal/parser"
	"github.com/dgallion1/doctransform/internal/pipeline"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.List(r.Context())
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []docstore.DocInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

type importResult struct {
	Filename string `json:"filename"`
	DocID    string `json:"doc_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleImport converts uploaded files into markdown documents. Files go in
// the "files" field (or a single "file"); "dir" places them under a
// directory of the store; "feature" queues a job over everything imported.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := append(r.MultipartForm.File["files"], r.MultipartForm.File["file"]...)
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	dir := strings.Trim(r.FormValue("dir"), "/")
	feature := r.FormValue("feature")
	if feature != "" && !validFeature(feature) {
		jsonError(w, fmt.Sprintf("unknown feature %q", feature), http.StatusBadRequest)
		return
	}

	var results []importResult
	var imported []string
	for _, fh := range files {
		res := s.importFile(r, fh, dir)
		if res.Error == "" {
			imported = append(imported, res.DocID)
		}
		results = append(results, res)
	}

	resp := map[string]any{"documents": results}
	if feature != "" && len(imported) > 0 {
		job := pipeline.NewJob(feature, imported)
		if err := s.orchestrator.Submit(job); err != nil {
			resp["job_error"] = err.Error()
		} else {
			resp["job_id"] = job.ID
			resp["poll_url"] = "/api/jobs/" + job.ID
		}
	}

	code := http.StatusCreated
	if len(imported) == 0 {
		code = http.StatusBadRequest
	}
	writeJSON(w, code, resp)
}

func (s *Server) importFile(r *http.Request, fh *multipart.FileHeader, dir string) importResult {
	filename := sanitizeFilename(fh.Filename)
	res := importResult{Filename: filename}
	if !parser.IsSupported(filename) {
		res.Error = fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename))
		return res
	}

	f, err := fh.Open()
	if err != nil {
		res.Error = "failed to open file"
		return res
	}
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	f.Close()
	if err != nil {
		res.Error = "failed to read file"
		return res
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		res.Error = fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
		return res
	}

	doc, err := parser.Import(data, filename, parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		s.log.Warn("import failed", "filename", filename, "error", err)
		res.Error = "failed to parse file: " + err.Error()
		return res
	}
	docID, err := docstore.CleanID(path.Join(dir, parser.MarkdownName(filename)))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := s.docs.Write(r.Context(), docID, doc); err != nil {
		s.log.Error("store write failed", "doc_id", docID, "error", err)
		res.Error = "failed to store document"
		return res
	}
	s.log.Info("document imported", "filename", filename, "doc_id", docID, "bytes", len(doc))
	res.DocID = docID
	return res
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
