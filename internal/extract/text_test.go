package extract

import (
	"bytes"
	"strings"
	"testing"
)

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		filename string
		wantType string
	}{
		{"book.txt", "text"},
		{"notes.MD", "markdown"},
		{"page.html", "html"},
		{"draft.docx", "docx"},
		{"scan.pdf", "pdf"},
	}
	for _, tc := range cases {
		if _, err := ForFile(tc.filename); err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", tc.filename, err)
		}
		if got := TypeOf(tc.filename); got != tc.wantType {
			t.Errorf("TypeOf(%q): expected %q, got %q", tc.filename, tc.wantType, got)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	for _, name := range []string{"archive.zip", "noext", "image.png"} {
		if _, err := ForFile(name); err == nil {
			t.Errorf("ForFile(%q): expected error", name)
		}
		if IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q): expected false", name)
		}
	}
}

func TestTextExtractor_UTF8(t *testing.T) {
	e := &TextExtractor{}
	input := "Chapter 1\n\nCafé société — naïve.\n"
	got, err := e.Extract(strings.NewReader(input), "book.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != input {
		t.Errorf("expected text passed through unchanged, got %q", got)
	}
}

func TestTextExtractor_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 but invalid as a standalone UTF-8 byte.
	data := []byte{'c', 'a', 'f', 0xE9}
	e := &TextExtractor{}
	got, err := e.Extract(bytes.NewReader(data), "book.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "café" {
		t.Errorf("expected %q, got %q", "café", got)
	}
}

func TestTextExtractor_Empty(t *testing.T) {
	e := &TextExtractor{}
	got, err := e.Extract(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
