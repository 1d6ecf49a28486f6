package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/matiasleandrokruk/docsense/internal/domain/inference"
	"github.com/matiasleandrokruk/docsense/internal/infra/ocr"
)

// fakeAdvisor records calls and returns a fixed result.
type fakeAdvisor struct {
	mu       sync.Mutex
	mode     inference.Mode
	result   inference.SuggestionResult
	lastText string
	setErr   error
}

func newFakeAdvisor() *fakeAdvisor {
	return &fakeAdvisor{
		mode: inference.ModeLocal,
		result: inference.SuggestionResult{
			Summary:         "summary",
			Analysis:        "analysis",
			Recommendations: []string{"rest"},
			LifestyleAdvice: "sleep",
			SourceMode:      inference.SourceLocal,
		},
	}
}

func (a *fakeAdvisor) GetSuggestions(_ context.Context, text string) inference.SuggestionResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastText = text
	return a.result
}

func (a *fakeAdvisor) GetMode() inference.Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *fakeAdvisor) SetMode(_ context.Context, requested string) error {
	if a.setErr != nil {
		return a.setErr
	}
	m, err := inference.ParseMode(requested)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = m
	return nil
}

// fakeExtractor returns text or err, and records the path it was given.
type fakeExtractor struct {
	text string
	err  error
	path string
}

func (e *fakeExtractor) ExtractText(_ context.Context, path string) (string, error) {
	e.path = path
	if e.err != nil {
		return "", &ocr.ExtractionError{Path: path, Cause: e.err}
	}
	return e.text, nil
}

var errOCRBroken = errors.New("tesseract crashed")

// multipartRequest builds a POST with one file part named field.
func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write(content) //nolint:errcheck
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
