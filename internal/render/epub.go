package render

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"strings"

	epublib "github.com/go-shiori/go-epub"
)

// EPUBRenderer packages the document as an EPUB: a title page plus one
// XHTML section per chapter, styled by the template's stylesheet.
type EPUBRenderer struct{}

func (r *EPUBRenderer) Render(req Request) ([]byte, error) {
	e, err := epublib.NewEpub(req.Title)
	if err != nil {
		return nil, fmt.Errorf("create epub: %w", err)
	}
	e.SetAuthor(req.Author)
	e.SetLang("en")

	// go-epub takes CSS by source path, so stage it in a temp file.
	cssPath, cleanup, err := stageCSS(req.Template.CSS())
	if err != nil {
		return nil, err
	}
	defer cleanup()

	internalCSS, err := e.AddCSS(cssPath, "styles.css")
	if err != nil {
		return nil, fmt.Errorf("add css: %w", err)
	}

	titleBody := fmt.Sprintf(
		"<h1 class=\"book-title\">%s</h1>\n<p class=\"book-author\">by %s</p>",
		html.EscapeString(req.Title), html.EscapeString(req.Author),
	)
	if _, err := e.AddSection(titleBody, req.Title, "title.xhtml", internalCSS); err != nil {
		return nil, fmt.Errorf("add title section: %w", err)
	}

	for i, ch := range req.Doc.Chapters {
		body := chapterXHTML(ch.Title, ch.Level, ch.Paragraphs)
		filename := fmt.Sprintf("chapter_%d.xhtml", i+1)
		if _, err := e.AddSection(body, ch.Title, filename, internalCSS); err != nil {
			return nil, fmt.Errorf("add chapter %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write epub: %w", err)
	}
	return buf.Bytes(), nil
}

func chapterXHTML(title string, level int, paragraphs []string) string {
	if level < 1 || level > 3 {
		level = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<h%d class=\"chapter-heading\">%s</h%d>\n",
		level, html.EscapeString(title), level)
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p class=\"paragraph\">%s</p>\n", html.EscapeString(p))
	}
	return b.String()
}

func stageCSS(css string) (string, func(), error) {
	tmp, err := os.CreateTemp("", "bookforge-css-*.css")
	if err != nil {
		return "", nil, fmt.Errorf("create temp css: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.WriteString(css); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp css: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("close temp css: %w", err)
	}
	return path, func() { os.Remove(path) }, nil
}
