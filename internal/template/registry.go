// Package template holds the fixed catalog of visual templates. The
// catalog is a process-wide read-only table built at init; templates are
// not user-extensible.
package template

import (
	"fmt"
	"strings"
)

// DefaultName is the template used when an unknown name is requested.
const DefaultName = "classic"

// Alignment values understood by all renderers.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignJustify = "justify"
)

// Style is a declarative bundle of typographic parameters for one
// structural role.
type Style struct {
	Font        string  // Real font name, e.g. "Times New Roman"
	Size        float64 // Point size
	Align       string
	SpaceBefore float64 // Points
	SpaceAfter  float64 // Points
	Indent      float64 // First-line indent in points (paragraphs only)
	LineSpacing float64 // Multiplier (paragraphs only)
	Bold        bool
	Italic      bool
	SmallCaps   bool
	AllCaps     bool
}

// Template is a named set of role styles. Heading sizes shrink with
// nesting depth: Heading(level) = HeadingStyle.Size - HeadingStep*(level-1).
type Template struct {
	Name        string
	DisplayName string
	Description string

	TitleStyle     Style
	HeadingStyle   Style
	HeadingStep    float64
	ParagraphStyle Style
}

// Heading returns the style for a heading at the given nesting level
// (clamped to 1-3).
func (t *Template) Heading(level int) Style {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	s := t.HeadingStyle
	s.Size -= t.HeadingStep * float64(level-1)
	return s
}

var registry = map[string]*Template{
	"classic": {
		Name:        "classic",
		DisplayName: "Classic",
		Description: "Traditional book styling with serif fonts",
		TitleStyle: Style{
			Font: "Times New Roman", Size: 24, Align: AlignCenter,
			SpaceAfter: 30, Bold: true,
		},
		HeadingStyle: Style{
			Font: "Times New Roman", Size: 18, Align: AlignCenter,
			SpaceBefore: 24, SpaceAfter: 12, Bold: true,
		},
		HeadingStep: 2,
		ParagraphStyle: Style{
			Font: "Times New Roman", Size: 12, Align: AlignJustify,
			SpaceAfter: 6, Indent: 36, LineSpacing: 1.15,
		},
	},
	"modern": {
		Name:        "modern",
		DisplayName: "Modern",
		Description: "Clean, contemporary design with sans-serif fonts",
		TitleStyle: Style{
			Font: "Calibri", Size: 28, Align: AlignCenter,
			SpaceAfter: 30, Bold: true,
		},
		HeadingStyle: Style{
			Font: "Calibri", Size: 20, Align: AlignLeft,
			SpaceBefore: 20, SpaceAfter: 10, Bold: true,
		},
		HeadingStep: 2,
		ParagraphStyle: Style{
			Font: "Calibri", Size: 11, Align: AlignLeft,
			SpaceAfter: 8, LineSpacing: 1.15,
		},
	},
	"elegant": {
		Name:        "elegant",
		DisplayName: "Elegant",
		Description: "Sophisticated typography with elegant spacing",
		TitleStyle: Style{
			Font: "Georgia", Size: 26, Align: AlignCenter,
			SpaceAfter: 30, Bold: true,
		},
		HeadingStyle: Style{
			Font: "Georgia", Size: 16, Align: AlignCenter,
			SpaceBefore: 30, SpaceAfter: 15, Bold: true, SmallCaps: true,
		},
		HeadingStep: 1,
		ParagraphStyle: Style{
			Font: "Georgia", Size: 12, Align: AlignJustify,
			SpaceAfter: 10, Indent: 22, LineSpacing: 1.2,
		},
	},
	"scifi": {
		Name:        "scifi",
		DisplayName: "Sci-Fi",
		Description: "Futuristic styling perfect for science fiction",
		TitleStyle: Style{
			Font: "Courier New", Size: 22, Align: AlignCenter,
			SpaceAfter: 30, Bold: true,
		},
		HeadingStyle: Style{
			Font: "Courier New", Size: 14, Align: AlignLeft,
			SpaceBefore: 16, SpaceAfter: 8, Bold: true, AllCaps: true,
		},
		HeadingStep: 1,
		ParagraphStyle: Style{
			Font: "Courier New", Size: 10, Align: AlignLeft,
			SpaceAfter: 4, Indent: 14, LineSpacing: 1.1,
		},
	},
}

// names in stable catalog order.
var names = []string{"classic", "modern", "elegant", "scifi"}

// Lookup returns the template for name, falling back to classic for
// unknown or empty names.
func Lookup(name string) *Template {
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry[DefaultName]
}

// Known reports whether name is in the catalog.
func Known(name string) bool {
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// Names returns the catalog's template names in stable order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// All returns the catalog templates in stable order.
func All() []*Template {
	out := make([]*Template, 0, len(names))
	for _, n := range names {
		out = append(out, registry[n])
	}
	return out
}

// CSS renders the template as a stylesheet for the EPUB renderer. Class
// names match the chapter XHTML the renderer emits.
func (t *Template) CSS() string {
	var b strings.Builder

	fmt.Fprintf(&b, "body { font-family: %s; font-size: %.4gpt; line-height: %.4g; }\n",
		cssFamily(t.ParagraphStyle.Font), t.ParagraphStyle.Size, lineSpacing(t.ParagraphStyle))

	for level := 1; level <= 3; level++ {
		h := t.Heading(level)
		fmt.Fprintf(&b, "h%d.chapter-heading { font-family: %s; font-size: %.4gpt; text-align: %s; margin-top: %.4gpt; margin-bottom: %.4gpt;",
			level, cssFamily(h.Font), h.Size, h.Align, h.SpaceBefore, h.SpaceAfter)
		if h.Bold {
			b.WriteString(" font-weight: bold;")
		}
		if h.SmallCaps {
			b.WriteString(" font-variant: small-caps;")
		}
		if h.AllCaps {
			b.WriteString(" text-transform: uppercase;")
		}
		b.WriteString(" }\n")
	}

	p := t.ParagraphStyle
	fmt.Fprintf(&b, "p.paragraph { text-align: %s; margin-bottom: %.4gpt; text-indent: %.4gpt; }\n",
		p.Align, p.SpaceAfter, p.Indent)

	ts := t.TitleStyle
	fmt.Fprintf(&b, "h1.book-title { font-family: %s; font-size: %.4gpt; text-align: %s; margin-bottom: %.4gpt;",
		cssFamily(ts.Font), ts.Size, ts.Align, ts.SpaceAfter)
	if ts.Bold {
		b.WriteString(" font-weight: bold;")
	}
	b.WriteString(" }\n")
	fmt.Fprintf(&b, "p.book-author { text-align: center; font-size: %.4gpt; }\n", p.Size+4)

	return b.String()
}

func cssFamily(font string) string {
	switch font {
	case "Times New Roman":
		return `"Times New Roman", Times, serif`
	case "Georgia":
		return `Georgia, "Times New Roman", serif`
	case "Calibri":
		return `Calibri, Helvetica, Arial, sans-serif`
	case "Courier New":
		return `"Courier New", Courier, monospace`
	}
	return "serif"
}

func lineSpacing(s Style) float64 {
	if s.LineSpacing <= 0 {
		return 1.15
	}
	return s.LineSpacing
}
