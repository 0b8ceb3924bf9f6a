package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/dgallion1/bookforge/internal/book"
	"github.com/dgallion1/bookforge/internal/template"
)

func testRequest() Request {
	return Request{
		Doc: book.Document{
			Title: "Test Book",
			Chapters: []book.Chapter{
				{Title: "Chapter 1", Level: 1, Paragraphs: []string{"First paragraph.", "Second paragraph."}},
				{Title: "Epilogue", Level: 1, Paragraphs: []string{"The end."}},
			},
		},
		Title:    "Test Book",
		Author:   "Jane Doe",
		Template: template.Lookup("classic"),
	}
}

func TestForFormat_Dispatch(t *testing.T) {
	for _, format := range []string{"epub", "pdf", "docx", "EPUB"} {
		if _, err := ForFormat(format); err != nil {
			t.Errorf("ForFormat(%q): unexpected error: %v", format, err)
		}
	}
	if _, err := ForFormat("mobi"); err == nil {
		t.Error("ForFormat(mobi): expected error")
	}
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"epub": "application/epub+zip",
		"pdf":  "application/pdf",
		"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"xyz":  "application/octet-stream",
	}
	for format, want := range cases {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q): expected %q, got %q", format, want, got)
		}
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("My Great Book", "epub"); got != "My_Great_Book.epub" {
		t.Errorf("unexpected filename %q", got)
	}
	if got := FileName("", "pdf"); got != "Untitled_Book.pdf" {
		t.Errorf("unexpected filename %q", got)
	}
}

func TestPDFRenderer_ProducesPDF(t *testing.T) {
	r := &PDFRenderer{}
	out, err := r.Render(testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("expected PDF magic bytes, got %q", out[:min(8, len(out))])
	}
}

func TestEPUBRenderer_ProducesZip(t *testing.T) {
	r := &EPUBRenderer{}
	out, err := r.Render(testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// EPUB is a ZIP container.
	if !bytes.HasPrefix(out, []byte("PK")) {
		t.Errorf("expected ZIP magic bytes, got %q", out[:min(4, len(out))])
	}
}

func TestDOCXRenderer_ProducesZip(t *testing.T) {
	r := &DOCXRenderer{}
	out, err := r.Render(testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("PK")) {
		t.Errorf("expected ZIP magic bytes, got %q", out[:min(4, len(out))])
	}
}

func TestRender_EmptyDocument(t *testing.T) {
	req := Request{
		Doc:      book.Document{Title: book.DefaultTitle},
		Title:    book.DefaultTitle,
		Author:   book.DefaultAuthor,
		Template: template.Lookup("modern"),
	}
	for _, format := range []string{"epub", "pdf", "docx"} {
		r, err := ForFormat(format)
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", format, err)
		}
		out, err := r.Render(req)
		if err != nil {
			t.Errorf("%s: unexpected error for empty document: %v", format, err)
			continue
		}
		if len(out) == 0 {
			t.Errorf("%s: expected non-empty output", format)
		}
	}
}

func TestStats_RecordAndSnapshot(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record("pdf", "classic", 30, 1000)
	s.Record("pdf", "modern", 50, 2000)
	s.Record("epub", "classic", 10, 500)

	snap := s.Snapshot()
	if snap.Count != 3 {
		t.Fatalf("expected 3 samples, got %d", snap.Count)
	}
	if snap.BytesTotal != 3500 {
		t.Errorf("expected 3500 bytes total, got %d", snap.BytesTotal)
	}
	if snap.ByFormat["pdf"].Count != 2 || snap.ByFormat["epub"].Count != 1 {
		t.Errorf("unexpected per-format counts: %+v", snap.ByFormat)
	}
	if snap.ByTemplate["classic"] != 2 {
		t.Errorf("expected 2 classic renders, got %d", snap.ByTemplate["classic"])
	}
	if snap.MinMs != 10 || snap.MaxMs != 50 {
		t.Errorf("unexpected min/max: %d/%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStats_WindowEviction(t *testing.T) {
	s := NewStats(time.Millisecond)
	s.Record("pdf", "classic", 30, 1000)
	time.Sleep(5 * time.Millisecond)
	if snap := s.Snapshot(); snap.Count != 0 {
		t.Errorf("expected expired samples to be pruned, got %d", snap.Count)
	}
}
