package extract

import (
	"strings"
	"unicode"
)

// Report summarizes structural elements detected in extracted text. It
// accompanies upload responses so clients can preview what the
// structuring engine is likely to find.
type Report struct {
	Headings   []Item `json:"headings"`
	Quotes     []Item `json:"quotes"`
	Lists      []Item `json:"lists"`
	TotalLines int    `json:"total_lines"`
	WordCount  int    `json:"word_count"`
}

// Item is one detected structural element with its source position.
type Item struct {
	Text       string `json:"text"`
	LineNumber int    `json:"line_number"`
	Type       string `json:"type"`
}

var listPrefixes = []string{"•", "*", "-", "1.", "2.", "3.", "a.", "b.", "c."}

var quotePrefixes = []string{`"`, "'", "“", "‘"}

// Analyze scans extracted text for heading-like, quote-like and
// list-like lines. The heuristics are looser than the structuring
// engine's classifier; this is a preview aid, not the classification
// itself.
func Analyze(text string) Report {
	lines := strings.Split(text, "\n")
	report := Report{
		Headings:   []Item{},
		Quotes:     []Item{},
		Lists:      []Item{},
		TotalLines: len(lines),
		WordCount:  len(strings.Fields(text)),
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if len(line) < 80 && looksHeadingLike(line) {
			report.Headings = append(report.Headings, Item{Text: line, LineNumber: i, Type: "heading"})
		}

		if hasAnyPrefix(line, quotePrefixes) || strings.HasPrefix(raw, "    ") {
			report.Quotes = append(report.Quotes, Item{Text: line, LineNumber: i, Type: "quote"})
		}

		if hasAnyPrefix(line, listPrefixes) {
			report.Lists = append(report.Lists, Item{Text: line, LineNumber: i, Type: "list_item"})
		}
	}

	return report
}

func looksHeadingLike(line string) bool {
	if isUpperLine(line) {
		return true
	}
	for _, p := range []string{"Chapter", "CHAPTER", "Part", "PART"} {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	// A digit in the first few characters suggests a numbered section.
	for i, r := range line {
		if i >= 10 {
			break
		}
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isUpperLine(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
