// Package tesseract implements ocr.Extractor on top of the gosseract client.
// Requires libtesseract at build and run time.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/matiasleandrokruk/docsense/internal/infra/ocr"
)

// Extractor runs Tesseract OCR over image files. A fresh client is created
// per call, so one Extractor is safe for concurrent use.
type Extractor struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// New returns an Extractor for the given Tesseract languages (e.g. "eng").
// No languages means the Tesseract default.
func New(languages ...string) *Extractor {
	return &Extractor{languages: languages, clientFactory: gosseract.NewClient}
}

// Languages returns the configured OCR languages.
func (e *Extractor) Languages() []string { return e.languages }

// ExtractText implements ocr.Extractor. Every error is an *ocr.ExtractionError.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	switch ocr.KindOf(path) {
	case ocr.KindImage:
	case ocr.KindPDF:
		return "", &ocr.ExtractionError{Path: path, Cause: ocr.ErrPDFUnsupported}
	default:
		return "", &ocr.ExtractionError{Path: path, Cause: ocr.ErrUnsupportedType}
	}
	// The cgo call cannot be interrupted; honour cancellation before it starts.
	if err := ctx.Err(); err != nil {
		return "", &ocr.ExtractionError{Path: path, Cause: err}
	}

	text, err := e.recognize(path)
	if err != nil {
		return "", &ocr.ExtractionError{Path: path, Cause: err}
	}
	return ocr.CleanText(text), nil
}

func (e *Extractor) recognize(path string) (string, error) {
	c := e.clientFactory()
	defer c.Close() //nolint:errcheck

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
