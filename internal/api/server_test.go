package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/bookforge/internal/config"
	"github.com/dgallion1/bookforge/internal/pipeline"
	"github.com/dgallion1/bookforge/internal/render"
)

func testServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stats := render.NewStats(time.Hour)
	orch := pipeline.NewOrchestrator(cfg, stats, log)
	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	t.Cleanup(cancel)
	return NewServer(orch, stats, log, cfg)
}

func testConfig() config.Config {
	return config.Config{
		Port:            "0",
		MaxUploadBytes:  16777216,
		WorkerCount:     2,
		MaxQueueSize:    10,
		JobTTL:          time.Hour,
		DefaultTemplate: "classic",
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t, testConfig())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestIndex(t *testing.T) {
	srv := testServer(t, testConfig())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["service"] != "bookforge" {
		t.Errorf("expected service bookforge, got %v", body["service"])
	}
}

func TestTemplatesCatalog(t *testing.T) {
	srv := testServer(t, testConfig())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/templates", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Templates []TemplateInfo `json:"templates"`
		Default   string         `json:"default"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Templates) != 4 {
		t.Errorf("expected 4 templates, got %d", len(body.Templates))
	}
	if body.Default != "classic" {
		t.Errorf("expected default classic, got %q", body.Default)
	}
}

func TestGeneratePDF(t *testing.T) {
	srv := testServer(t, testConfig())
	payload := `{"text":"Chapter 1\n\nIt was a bright cold day in April.","template_name":"modern","title":"Test Book","author":"A. Writer"}`
	req := httptest.NewRequest("POST", "/api/generate/pdf", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Test_Book.pdf") {
		t.Errorf("unexpected disposition: %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("expected PDF magic bytes")
	}
}

func TestGenerateEmptyText(t *testing.T) {
	srv := testServer(t, testConfig())
	req := httptest.NewRequest("POST", "/api/generate/epub", strings.NewReader(`{"text":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no text provided") {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	srv := testServer(t, testConfig())
	req := httptest.NewRequest("POST", "/api/generate/mobi", strings.NewReader(`{"text":"hello"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unsupported format, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, field, filename, content string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	for k, v := range extra {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadTxt(t *testing.T) {
	srv := testServer(t, testConfig())
	body, ct := multipartUpload(t, "file", "story.txt", "CHAPTER ONE\n\nOnce upon a time.", nil)
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Text     string `json:"text"`
		FileType string `json:"file_type"`
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.FileType != "text" {
		t.Errorf("expected file_type text, got %q", resp.FileType)
	}
	if resp.Filename != "story.txt" {
		t.Errorf("expected filename story.txt, got %q", resp.Filename)
	}
	if !strings.Contains(resp.Text, "Once upon a time.") {
		t.Errorf("extracted text missing content: %q", resp.Text)
	}
}

func TestUploadUnsupportedExtension(t *testing.T) {
	srv := testServer(t, testConfig())
	body, ct := multipartUpload(t, "file", "data.exe", "binary", nil)
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unsupported extension, got %d", rec.Code)
	}
}

func TestUploadMissingFile(t *testing.T) {
	srv := testServer(t, testConfig())
	body, ct := multipartUpload(t, "file", "", "", map[string]string{"other": "field"})
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing file, got %d", rec.Code)
	}
}

func TestConvertLifecycle(t *testing.T) {
	srv := testServer(t, testConfig())
	body, ct := multipartUpload(t, "file", "", "", map[string]string{
		"text":     "CHAPTER ONE\n\nThe beginning of everything.",
		"format":   "epub",
		"title":    "Async Book",
	})
	req := httptest.NewRequest("POST", "/api/convert", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var submit struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submit); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if submit.JobID == "" {
		t.Fatal("expected a job_id")
	}

	// Poll until the job completes.
	deadline := time.Now().Add(10 * time.Second)
	var status string
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("GET", submit.PollURL, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status poll returned %d", rec.Code)
		}
		var poll struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &poll); err != nil {
			t.Fatal(err)
		}
		status = poll.Status
		if status == string(pipeline.StatusCompleted) || status == string(pipeline.StatusFailed) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if status != string(pipeline.StatusCompleted) {
		t.Fatalf("job did not complete, last status %q", status)
	}

	dl := httptest.NewRecorder()
	srv.ServeHTTP(dl, httptest.NewRequest("GET", "/api/convert/"+submit.JobID+"/download", nil))
	if dl.Code != http.StatusOK {
		t.Fatalf("download returned %d: %s", dl.Code, dl.Body.String())
	}
	if ct := dl.Header().Get("Content-Type"); ct != "application/epub+zip" {
		t.Errorf("expected epub content type, got %q", ct)
	}
	if !bytes.HasPrefix(dl.Body.Bytes(), []byte("PK")) {
		t.Error("expected zip container in download")
	}
}

func TestConvertMissingInput(t *testing.T) {
	srv := testServer(t, testConfig())
	body, ct := multipartUpload(t, "file", "", "", map[string]string{"format": "pdf"})
	req := httptest.NewRequest("POST", "/api/convert", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing input, got %d", rec.Code)
	}
}

func TestConvertStatusNotFound(t *testing.T) {
	srv := testServer(t, testConfig())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/convert/nope/status", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown job, got %d", rec.Code)
	}
}

func TestAuthRequiredWhenKeySet(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "secret-key"
	srv := testServer(t, cfg)

	// No token.
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/templates", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	// Wrong token.
	req := httptest.NewRequest("GET", "/api/templates", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", rec.Code)
	}

	// Valid token.
	req = httptest.NewRequest("GET", "/api/templates", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", rec.Code)
	}

	// Health stays public.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected public health endpoint, got %d", rec.Code)
	}
}

func TestRenderStatsEndpoint(t *testing.T) {
	srv := testServer(t, testConfig())

	payload := `{"text":"Chapter 1\n\nSome prose."}`
	req := httptest.NewRequest("POST", "/api/generate/pdf", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats/render", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Stats struct {
			Count int `json:"count"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Stats.Count != 1 {
		t.Errorf("expected 1 recorded render, got %d", body.Stats.Count)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"story.txt", "story.txt"},
		{"../../etc/passwd", "passwd"},
		{"dir/nested.docx", "nested.docx"},
		{"", "unnamed"},
		{".", "unnamed"},
	}
	for _, c := range cases {
		if got := sanitizeFilename(c.in); got != c.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
