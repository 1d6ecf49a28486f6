// Package ocr defines the text extraction collaborator used by the upload
// flow. Engines live in subpackages; this package has no cgo dependency.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedType is returned for file extensions no engine handles.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrPDFUnsupported is returned for PDFs until page rasterization is configured.
	ErrPDFUnsupported = errors.New("pdf extraction is not supported")
)

// Extractor turns a stored document into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// ExtractionError reports a failed extraction for a specific file.
type ExtractionError struct {
	Path  string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", filepath.Base(e.Path), e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// Kind classifies a file by extension.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindPDF
)

var kinds = map[string]Kind{
	"png":  KindImage,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"gif":  KindImage,
	"pdf":  KindPDF,
}

// KindOf returns the Kind for name's extension (case-insensitive).
func KindOf(name string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return kinds[ext]
}

// SupportedExtension reports whether uploads named name are accepted.
func SupportedExtension(name string) bool {
	return KindOf(name) != KindUnsupported
}

// CleanText trims every line, drops blank ones and joins the rest with "\n".
func CleanText(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
