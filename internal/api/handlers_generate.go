package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/bookforge/internal/book"
	"github.com/dgallion1/bookforge/internal/render"
	"github.com/dgallion1/bookforge/internal/template"
	"github.com/go-chi/chi/v5"
)

// GenerateRequest is the JSON body for synchronous generation.
type GenerateRequest struct {
	Text         string `json:"text"`
	TemplateName string `json:"template_name"`
	Title        string `json:"title"`
	Author       string `json:"author"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	renderer, err := render.ForFormat(format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "no text provided", http.StatusBadRequest)
		return
	}

	tplName := req.TemplateName
	if tplName == "" {
		tplName = s.cfg.DefaultTemplate
	}

	doc := book.Structure(req.Text)
	rreq := render.Request{
		Doc:      doc,
		Title:    book.ResolveTitle(req.Title, doc.Title),
		Author:   book.ResolveAuthor(req.Author),
		Template: template.Lookup(tplName),
	}

	start := time.Now()
	out, err := renderer.Render(rreq)
	if err != nil {
		s.log.Error("render failed", "format", format, "error", err)
		jsonError(w, fmt.Sprintf("failed to generate %s: %s", format, err), http.StatusInternalServerError)
		return
	}
	s.stats.Record(format, rreq.Template.Name, time.Since(start).Milliseconds(), int64(len(out)))

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", render.FileName(rreq.Title, format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Write(out)
}
