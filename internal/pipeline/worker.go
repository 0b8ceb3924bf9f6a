package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/bookforge/internal/book"
	"github.com/dgallion1/bookforge/internal/extract"
	"github.com/dgallion1/bookforge/internal/render"
	"github.com/dgallion1/bookforge/internal/template"
)

// Worker processes a single conversion job.
type Worker struct {
	stats *render.Stats
	log   *slog.Logger

	pdfFallback bool
}

func NewWorker(stats *render.Stats, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		stats:       stats,
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "format", job.Format, "template", job.Template)

	// Phase 1: Extract text from the input.
	job.SetStatus(StatusExtracting, "extracting")
	text, err := w.extractText(job)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("no extractable text")
		job.AddError("no text provided")
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 2: Structure the text into a book document.
	job.SetStatus(StatusStructuring, "structuring")
	doc := book.Structure(text)
	job.SetDocumentCounts(len(doc.Chapters), doc.ParagraphCount(), doc.WordCount())
	log.Info("structured document", "chapters", len(doc.Chapters), "words", doc.WordCount())

	// Phase 3: Render the requested format.
	job.SetStatus(StatusRendering, "rendering")
	renderer, err := render.ForFormat(job.Format)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "rendering")
		return
	}

	req := render.Request{
		Doc:      doc,
		Title:    book.ResolveTitle(job.Title, doc.Title),
		Author:   book.ResolveAuthor(job.Author),
		Template: template.Lookup(job.Template),
	}

	start := time.Now()
	out, err := renderer.Render(req)
	if err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	w.stats.Record(job.Format, req.Template.Name, time.Since(start).Milliseconds(), int64(len(out)))

	job.SetResult(out)
	job.SetStatus(StatusCompleted, "done")
	log.Info("conversion complete", "bytes", len(out))
}

// extractText pulls plain text out of the job input. Jobs without a
// filename carry raw text bytes.
func (w *Worker) extractText(job *Job) (string, error) {
	data := job.FileData()
	if job.Filename == "" {
		e := extract.TextExtractor{}
		return e.Extract(bytes.NewReader(data), "input.txt")
	}
	e, err := extract.ForFile(job.Filename)
	if err != nil {
		return "", err
	}
	if p, ok := e.(*extract.PDFExtractor); ok {
		p.FallbackPdftotext = w.pdfFallback
	}
	return e.Extract(bytes.NewReader(data), job.Filename)
}
