package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/bookforge/internal/template"
)

// DOCXRenderer assembles a Word document: centered title page, then
// per-chapter headings and body paragraphs as styled runs. Heading run
// sizes shrink with nesting level per the template.
type DOCXRenderer struct{}

func (r *DOCXRenderer) Render(req Request) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	ts := req.Template.TitleStyle
	titlePara := w.AddParagraph()
	justify(titlePara, ts.Align)
	styleRun(titlePara.AddText(req.Title), ts)

	w.AddParagraph()
	w.AddParagraph()

	para := req.Template.ParagraphStyle
	authorStyle := para
	authorStyle.Size += 4
	authorPara := w.AddParagraph()
	justify(authorPara, template.AlignCenter)
	styleRun(authorPara.AddText("by "+req.Author), authorStyle)

	w.AddParagraph().AddPageBreaks()

	for _, ch := range req.Doc.Chapters {
		h := req.Template.Heading(ch.Level)
		title := ch.Title
		if h.AllCaps {
			title = strings.ToUpper(title)
		}
		hp := w.AddParagraph()
		justify(hp, h.Align)
		styleRun(hp.AddText(title), h)

		for _, text := range ch.Paragraphs {
			bp := w.AddParagraph()
			justify(bp, para.Align)
			styleRun(bp.AddText(text), para)
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}

// styleRun applies template style parameters to a text run. Sizes are
// in half-points on the wire.
func styleRun(run *docx.Run, s template.Style) {
	run.Size(strconv.Itoa(int(s.Size * 2)))
	run.Font(s.Font, s.Font, s.Font, "")
	if s.Bold {
		run.Bold()
	}
	if s.Italic {
		run.Italic()
	}
}

func justify(p *docx.Paragraph, align string) {
	switch align {
	case template.AlignCenter:
		p.Justification("center")
	case template.AlignJustify:
		p.Justification("both")
	}
}
