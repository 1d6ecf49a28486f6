// Package api wires the HTTP front door onto a go-chi router.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matiasleandrokruk/docsense/internal/api/handlers"
	apmiddleware "github.com/matiasleandrokruk/docsense/internal/api/middleware"
	"github.com/matiasleandrokruk/docsense/internal/infra/ocr"
	"github.com/matiasleandrokruk/docsense/internal/observability"
)

// Deps are the collaborators behind the routes.
type Deps struct {
	Advisor   handlers.Advisor
	Extractor ocr.Extractor

	// Events backs GET /api/inference-events. Nil leaves the route unregistered.
	Events handlers.EventLister

	UploadDir        string
	MaxContentLength int64

	// Logger defaults to the process-wide logger.
	Logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = observability.Logger()
	}

	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// Health check, used by load balancers and health probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	uploadHandler := handlers.NewUploadHandler(deps.Advisor, deps.Extractor, deps.UploadDir, deps.MaxContentLength)
	modeHandler := handlers.NewModeHandler(deps.Advisor)
	staticHandler := handlers.NewStaticHandler(deps.UploadDir)

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", uploadHandler.Upload)        // POST /api/upload
		r.Get("/inference-mode", modeHandler.GetMode)  // GET /api/inference-mode
		r.Post("/inference-mode", modeHandler.SetMode) // POST /api/inference-mode
		if deps.Events != nil {
			eventHandler := handlers.NewEventHandler(deps.Events)
			r.Get("/inference-events", eventHandler.List) // GET /api/inference-events
		}
	})

	r.Get("/static/uploads/{filename}", staticHandler.ServeUpload)

	return r
}
