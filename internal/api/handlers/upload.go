package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matiasleandrokruk/docsense/internal/domain/inference"
	"github.com/matiasleandrokruk/docsense/internal/infra/ocr"
	"github.com/matiasleandrokruk/docsense/internal/observability"
)

const (
	uploadField = "file"

	// multipartMemory is how much of a multipart body is kept in memory;
	// the rest spills to temp files.
	multipartMemory = 8 << 20

	errNoFilePart      = "no file part"
	errNoFileSelected  = "no file selected"
	errUnsupportedType = "unsupported file type"
	errFileTooLarge    = "file too large"
)

// UploadResult is the "result" object of a successful upload.
type UploadResult struct {
	Text        string                     `json:"text"`
	Suggestions inference.SuggestionResult `json:"suggestions"`
	Disclaimer  string                     `json:"disclaimer"`
	Timestamp   string                     `json:"timestamp"`
}

// UploadResponse is the body of a successful POST /api/upload.
type UploadResponse struct {
	Success bool         `json:"success"`
	Result  UploadResult `json:"result"`
}

// UploadHandler handles POST /api/upload.
type UploadHandler struct {
	advisor   Advisor
	extractor ocr.Extractor
	dir       string
	maxBytes  int64
	now       func() time.Time
}

// NewUploadHandler creates an UploadHandler saving files into dir.
// maxBytes <= 0 disables the body limit.
func NewUploadHandler(advisor Advisor, extractor ocr.Extractor, dir string, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		advisor:   advisor,
		extractor: extractor,
		dir:       dir,
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

// Upload saves the document, extracts its text and returns suggestions.
// Only an extraction failure yields a 500: GetSuggestions never fails.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := observability.LoggerFromContext(r.Context())

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	file, header, status, msg := h.formFile(r)
	if status != 0 {
		writeError(w, status, msg)
		return
	}
	defer file.Close() //nolint:errcheck

	path, err := h.save(file, header.Filename)
	if err != nil {
		log.Error("upload: save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save file")
		return
	}
	log.Info("upload: saved", "file", filepath.Base(path), "size", header.Size)

	text, err := h.extractor.ExtractText(r.Context(), path)
	if err != nil {
		log.Warn("upload: extraction failed", "file", filepath.Base(path), "error", err)
		writeError(w, http.StatusInternalServerError, "error processing file: "+err.Error())
		return
	}

	result := h.advisor.GetSuggestions(r.Context(), text)
	writeJSON(w, r, http.StatusOK, UploadResponse{
		Success: true,
		Result: UploadResult{
			Text:        text,
			Suggestions: result,
			Disclaimer:  inference.Disclaimer,
			Timestamp:   h.now().Format(time.RFC3339),
		},
	})
}

// formFile extracts the uploaded file, returning an HTTP status and message
// when the request must be rejected.
func (h *UploadHandler) formFile(r *http.Request) (multipart.File, *multipart.FileHeader, int, string) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			return nil, nil, http.StatusRequestEntityTooLarge, errFileTooLarge
		}
		return nil, nil, http.StatusBadRequest, errNoFilePart
	}

	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		// A file input submitted without a selection arrives as a plain value.
		if _, ok := r.MultipartForm.Value[uploadField]; ok {
			return nil, nil, http.StatusBadRequest, errNoFileSelected
		}
		return nil, nil, http.StatusBadRequest, errNoFilePart
	}
	if err != nil {
		return nil, nil, http.StatusBadRequest, errNoFilePart
	}
	if header.Filename == "" {
		file.Close() //nolint:errcheck
		return nil, nil, http.StatusBadRequest, errNoFileSelected
	}
	if !ocr.SupportedExtension(header.Filename) {
		file.Close() //nolint:errcheck
		return nil, nil, http.StatusBadRequest, errUnsupportedType
	}
	return file, header, 0, ""
}

// isTooLarge reports whether err came from the http.MaxBytesReader limit.
// Some multipart read paths drop the typed error, so the message is checked too.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

// save writes src under h.dir as <timestamp>_<uuid8>_<sanitized name>.
func (h *UploadHandler) save(src io.Reader, original string) (string, error) {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s",
		h.now().Format("20060102150405"),
		uuid.NewString()[:8],
		SanitizeFilename(original),
	)
	path := filepath.Join(h.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()     //nolint:errcheck
		os.Remove(path) //nolint:errcheck
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces name to a safe ASCII base name. The extension is
// kept (lowercased); a stem that sanitizes to nothing becomes "upload".
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := filepath.Ext(base)
	stem := strings.Join(strings.Fields(strings.TrimSuffix(base, ext)), "_")
	stem = strings.Trim(unsafeFilenameChars.ReplaceAllString(stem, ""), "._-")
	if stem == "" {
		stem = "upload"
	}
	return stem + strings.ToLower(unsafeFilenameChars.ReplaceAllString(ext, ""))
}
