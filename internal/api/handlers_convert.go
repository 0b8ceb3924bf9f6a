package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/bookforge/internal/extract"
	"github.com/dgallion1/bookforge/internal/pipeline"
	"github.com/dgallion1/bookforge/internal/render"
	"github.com/go-chi/chi/v5"
)

// handleConvert queues an asynchronous conversion. The input is either
// an uploaded file or a raw text field; the result is fetched from the
// download endpoint once the job completes.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	format := strings.ToLower(r.FormValue("format"))
	if format == "" {
		format = "epub"
	}
	if !render.SupportedFormats[format] {
		jsonError(w, fmt.Sprintf("unsupported output format: %s", format), http.StatusBadRequest)
		return
	}

	tplName := r.FormValue("template_name")
	if tplName == "" {
		tplName = s.cfg.DefaultTemplate
	}

	var data []byte
	var filename string

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		filename = sanitizeFilename(header.Filename)
		if !extract.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}
		data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
	case r.FormValue("text") != "":
		data = []byte(r.FormValue("text"))
	default:
		jsonError(w, "file or text is required", http.StatusBadRequest)
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        pipeline.NewJobID(data, now),
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Format:    format,
		Template:  tplName,
		Filename:  filename,
		Title:     r.FormValue("title"),
		Author:    r.FormValue("author"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/convert/%s/status", job.ID),
	})
}

func (s *Server) handleConvertStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	resp := map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"format":   snap.Format,
		"template": snap.Template,
		"progress": snap.Progress,
	}
	if snap.Status == pipeline.StatusCompleted {
		resp["download_url"] = fmt.Sprintf("/api/convert/%s/download", snap.ID)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleConvertDownload(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
	case pipeline.StatusFailed:
		jsonError(w, "job failed", http.StatusGone)
		return
	default:
		jsonError(w, fmt.Sprintf("job not finished (status: %s)", snap.Status), http.StatusConflict)
		return
	}

	out := job.Result()
	if out == nil {
		jsonError(w, "result no longer available", http.StatusGone)
		return
	}

	title := snap.Title
	if title == "" && snap.Filename != "" {
		title = strings.TrimSuffix(snap.Filename, filepath.Ext(snap.Filename))
	}
	w.Header().Set("Content-Type", render.ContentType(snap.Format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", render.FileName(title, snap.Format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Write(out)
}
