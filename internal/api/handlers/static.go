package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// StaticHandler serves previously uploaded files from a single directory.
type StaticHandler struct {
	dir string
}

// NewStaticHandler creates a StaticHandler over dir.
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// ServeUpload handles GET /static/uploads/{filename}. Names containing a path
// separator or dot-dot are rejected.
func (h *StaticHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") || strings.ContainsRune(name, '\\') {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	http.ServeFile(w, r, filepath.Join(h.dir, name))
}
