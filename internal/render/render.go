// Package render turns a structured book document into binary output in
// one of the supported file formats, applying a visual template.
package render

import (
	"fmt"
	"strings"

	"github.com/dgallion1/bookforge/internal/book"
	"github.com/dgallion1/bookforge/internal/template"
)

// Request carries everything a renderer needs: the structured document,
// resolved metadata, and the template to apply.
type Request struct {
	Doc      book.Document
	Title    string
	Author   string
	Template *template.Template
}

// Renderer produces a binary artifact from a render request.
type Renderer interface {
	Render(req Request) ([]byte, error)
}

// SupportedFormats lists output formats this service can produce.
var SupportedFormats = map[string]bool{
	"epub": true,
	"pdf":  true,
	"docx": true,
}

// ForFormat returns the renderer for an output format name.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "epub":
		return &EPUBRenderer{}, nil
	case "pdf":
		return &PDFRenderer{}, nil
	case "docx":
		return &DOCXRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ContentType returns the MIME type for an output format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "epub":
		return "application/epub+zip"
	case "pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

// FileName builds the download filename for a title and format.
func FileName(title, format string) string {
	if title == "" {
		title = book.DefaultTitle
	}
	return strings.ReplaceAll(title, " ", "_") + "." + strings.ToLower(format)
}
