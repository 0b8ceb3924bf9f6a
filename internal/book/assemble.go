package book

import (
	"regexp"
	"strings"
)

// syntheticChapterTitle names the chapter created to hold body text that
// precedes the first heading. It is the only assembler-generated chapter
// title; everything else is input-derived.
const syntheticChapterTitle = "Chapter 1"

// markerPrefixPattern widens the title-consumption check beyond the full
// marker patterns: a first heading that merely begins with a sectioning
// keyword ("CHAPTER ONE") reads as a chapter opener, not as the book's
// name.
var markerPrefixPattern = regexp.MustCompile(`^(chapter|ch|part|book)\s`)

// Assemble folds an ordered sequence of classified lines into a
// Document. It is total: every input, including the empty sequence,
// yields a valid Document.
//
// The first heading is consumed as the document title when it does not
// look like a structural marker; a consumed title does not open a
// chapter. Body text with no chapter open lands in a synthetic
// "Chapter 1".
func Assemble(lines []ClassifiedLine) Document {
	doc := Document{Title: DefaultTitle}

	var current *Chapter
	sawHeading := false

	for _, line := range lines {
		switch line.Kind {
		case KindHeading:
			if current != nil {
				doc.Chapters = append(doc.Chapters, *current)
				current = nil
			}
			if !sawHeading && !looksLikeMarker(line.Text) {
				doc.Title = line.Text
			} else {
				current = &Chapter{Title: line.Text, Level: line.Level}
			}
			sawHeading = true

		case KindParagraph:
			if current == nil {
				current = &Chapter{Title: syntheticChapterTitle, Level: 1}
			}
			current.Paragraphs = append(current.Paragraphs, line.Text)
		}
	}

	if current != nil {
		doc.Chapters = append(doc.Chapters, *current)
	}

	return doc
}

// Structure runs the full pipeline on raw text: split, classify,
// assemble.
func Structure(text string) Document {
	return Assemble(ClassifyAll(text))
}

func looksLikeMarker(heading string) bool {
	lower := strings.ToLower(heading)
	if markerPrefixPattern.MatchString(lower) {
		return true
	}
	for _, p := range markerPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}
