package book

import "strings"

// Sentinel metadata defaults. A caller-supplied title or author equal to
// one of these is treated as "not supplied".
const (
	DefaultTitle  = "Untitled Book"
	DefaultAuthor = "Anonymous"
)

// Document is the canonical structured form of a book, consumed by all
// renderers: a title plus chapters in order of appearance.
type Document struct {
	Title    string
	Chapters []Chapter
}

// Chapter is a heading with the body paragraphs that followed it.
type Chapter struct {
	Title      string
	Level      int // 1-3; 1 = top-level section
	Paragraphs []string
}

// WordCount returns the total number of whitespace-separated words in
// all paragraphs of the document.
func (d *Document) WordCount() int {
	n := 0
	for _, ch := range d.Chapters {
		for _, p := range ch.Paragraphs {
			n += countWords(p)
		}
	}
	return n
}

// ParagraphCount returns the total number of paragraphs across chapters.
func (d *Document) ParagraphCount() int {
	n := 0
	for _, ch := range d.Chapters {
		n += len(ch.Paragraphs)
	}
	return n
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

// ResolveTitle picks the caller-supplied title when it is meaningful,
// otherwise the title extracted from the text.
func ResolveTitle(provided, extracted string) string {
	if provided != "" && provided != DefaultTitle {
		return provided
	}
	if extracted != "" {
		return extracted
	}
	return DefaultTitle
}

// ResolveAuthor picks the caller-supplied author or the sentinel. The
// engine never infers an author from text.
func ResolveAuthor(provided string) string {
	if provided != "" {
		return provided
	}
	return DefaultAuthor
}
