package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/dgallion1/bookforge/internal/template"
)

// PDFRenderer lays the document out as a paginated A4 PDF: a title
// page, then each chapter starting on a fresh page, with page numbers
// in the footer.
type PDFRenderer struct{}

func (r *PDFRenderer) Render(req Request) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(req.Title, true)
	pdf.SetAuthor(req.Author, true)
	pdf.SetMargins(72, 72, 72)
	pdf.SetAutoPageBreak(true, 60)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	para := req.Template.ParagraphStyle

	pdf.SetFooterFunc(func() {
		pdf.SetY(-45)
		pdf.SetFont(coreFont(para.Font), "", 9)
		pdf.CellFormat(0, 12, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	r.titlePage(pdf, tr, req)

	for _, ch := range req.Doc.Chapters {
		pdf.AddPage()

		h := req.Template.Heading(ch.Level)
		title := ch.Title
		if h.AllCaps {
			title = strings.ToUpper(title)
		}
		pdf.Ln(h.SpaceBefore)
		pdf.SetFont(coreFont(h.Font), fontStyle(h), h.Size)
		pdf.MultiCell(0, h.Size*1.25, tr(title), "", alignCode(h.Align), false)
		pdf.Ln(h.SpaceAfter)

		pdf.SetFont(coreFont(para.Font), fontStyle(para), para.Size)
		lineHeight := para.Size * 1.4
		for _, p := range ch.Paragraphs {
			pdf.MultiCell(0, lineHeight, tr(p), "", alignCode(para.Align), false)
			pdf.Ln(para.SpaceAfter)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) titlePage(pdf *gofpdf.Fpdf, tr func(string) string, req Request) {
	pdf.AddPage()

	ts := req.Template.TitleStyle
	pdf.SetY(230)
	pdf.SetFont(coreFont(ts.Font), fontStyle(ts), ts.Size)
	pdf.MultiCell(0, ts.Size*1.25, tr(req.Title), "", alignCode(ts.Align), false)

	pdf.Ln(36)
	para := req.Template.ParagraphStyle
	pdf.SetFont(coreFont(para.Font), "", para.Size+2)
	pdf.MultiCell(0, (para.Size+2)*1.4, tr("by "+req.Author), "", "C", false)
}

// coreFont maps a template font to one of the PDF core font families.
func coreFont(font string) string {
	switch font {
	case "Times New Roman", "Georgia":
		return "Times"
	case "Calibri":
		return "Helvetica"
	case "Courier New":
		return "Courier"
	}
	return "Times"
}

func fontStyle(s template.Style) string {
	style := ""
	if s.Bold {
		style += "B"
	}
	if s.Italic {
		style += "I"
	}
	return style
}

func alignCode(align string) string {
	switch align {
	case template.AlignCenter:
		return "C"
	case template.AlignJustify:
		return "J"
	}
	return "L"
}
