package book

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineKind distinguishes structural headings from body text.
type LineKind int

const (
	KindParagraph LineKind = iota
	KindHeading
)

func (k LineKind) String() string {
	if k == KindHeading {
		return "heading"
	}
	return "paragraph"
}

// ClassifiedLine is a single trimmed, non-empty input line with its
// classification. Level is meaningful only for headings.
type ClassifiedLine struct {
	Text  string
	Kind  LineKind
	Level int
}

// markerPatterns are the structural marker forms checked first, in
// order, against the lower-cased line. Anchored at line start.
var markerPatterns = compileAll(
	`^chapter\s+\d+`,
	`^chapter\s+[ivxlcdm]+`,
	`^ch\s+\d+`,
	`^\d+\.\s`,
	`^prologue$`,
	`^epilogue$`,
	`^introduction$`,
	`^preface$`,
	`^acknowledgments?$`,
	`^acknowledgements?$`,
	`^about\s+the\s+author$`,
	`^part\s+[ivxlcdm]+`,
	`^part\s+\d+`,
	`^book\s+[ivxlcdm]+`,
	`^book\s+\d+`,
)

var (
	chapterNumPattern = regexp.MustCompile(`^chapter\s+\d+`)
	partBookPattern   = regexp.MustCompile(`^(part|book)\s+`)
	backMatterPattern = regexp.MustCompile(`^(acknowledgments?|acknowledgements?|about\s+the\s+author)$`)
)

// titleKeywords are the words that make a short, unpunctuated line a
// heading when they appear anywhere in it. A body sentence that happens
// to contain one of them can be misclassified; that ambiguity is part of
// the heuristic and is kept as-is.
var titleKeywords = []string{"chapter", "prologue", "epilogue", "part", "book"}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Classify decides whether a single trimmed, non-empty line is a heading
// or a paragraph. The rules run in a fixed priority order, first match
// wins:
//
//  1. structural marker pattern at line start (chapter N, part IV, ...)
//  2. entirely upper-case and shorter than 50 runes
//  3. shorter than 100 runes, not ending in "." or ",", and containing a
//     title keyword anywhere
//
// Everything else is a paragraph. The length thresholds and rule order
// are behavioral contracts, not tuning knobs.
func Classify(line string) ClassifiedLine {
	if isHeading(line) {
		return ClassifiedLine{Text: line, Kind: KindHeading, Level: headingLevel(line)}
	}
	return ClassifiedLine{Text: line, Kind: KindParagraph}
}

// ClassifyAll splits raw text into trimmed lines, discards blank ones,
// and classifies each in order.
func ClassifyAll(text string) []ClassifiedLine {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []ClassifiedLine
	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		out = append(out, Classify(line))
	}
	return out
}

func isHeading(line string) bool {
	lower := strings.ToLower(line)

	for _, p := range markerPatterns {
		if p.MatchString(lower) {
			return true
		}
	}

	if isAllUpper(line) && utf8.RuneCountInString(line) < 50 {
		return true
	}

	if utf8.RuneCountInString(line) < 100 &&
		!strings.HasSuffix(line, ".") && !strings.HasSuffix(line, ",") {
		for _, kw := range titleKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}

	return false
}

// headingLevel assigns the nesting level for a line already known to be
// a heading. Independent of which classification rule matched.
func headingLevel(line string) int {
	lower := strings.ToLower(line)

	switch {
	case chapterNumPattern.MatchString(lower):
		return 1
	case partBookPattern.MatchString(lower):
		return 1
	case lower == "prologue" || lower == "epilogue":
		return 1
	case lower == "introduction" || lower == "preface":
		return 2
	case backMatterPattern.MatchString(lower):
		return 3
	}
	return 1
}

// isAllUpper reports whether the line contains at least one cased letter
// and no lower-case letter.
func isAllUpper(s string) bool {
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
