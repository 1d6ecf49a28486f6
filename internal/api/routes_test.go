package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matiasleandrokruk/docsense/internal/domain/inference"
	"github.com/matiasleandrokruk/docsense/internal/infra/eventbus"
	"github.com/matiasleandrokruk/docsense/internal/infra/llm"
	"github.com/matiasleandrokruk/docsense/internal/infra/sqlite"
	"github.com/matiasleandrokruk/docsense/internal/observability"
)

type staticExtractor string

func (s staticExtractor) ExtractText(context.Context, string) (string, error) {
	return string(s), nil
}

type echoModel struct{}

func (echoModel) Name() string { return "echo@1" }
func (echoModel) Generate(p llm.Prompt) (*llm.RawSuggestion, error) {
	return &llm.RawSuggestion{Summary: p.SourceText, Recommendations: llm.StringList{"rest"}}, nil
}

type testEnv struct {
	router    http.Handler
	uploadDir string
	orch      *inference.Orchestrator
}

// newTestEnv wires a real orchestrator (local echo model, no remote) and an
// event recorder on an in-memory database.
func newTestEnv(t *testing.T, withEvents bool) testEnv {
	t.Helper()

	bus := eventbus.New()
	t.Cleanup(bus.Close)

	orch, err := inference.NewOrchestrator(inference.ModeLocal,
		llm.NewRouter(llm.NewLocalBackend(echoModel{})),
		inference.WithEventBus(bus),
		inference.WithLogger(observability.Discard()),
	)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	deps := Deps{
		Advisor:          orch,
		Extractor:        staticExtractor("fever and cough"),
		UploadDir:        filepath.Join(t.TempDir(), "uploads"),
		MaxContentLength: 1 << 20,
		Logger:           observability.Discard(),
	}
	if withEvents {
		db, err := sqlite.NewDB(":memory:")
		if err != nil {
			t.Fatalf("NewDB: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		if err := sqlite.MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp: %v", err)
		}
		deps.Events = inference.NewEventRecorder(db, observability.Discard())
	}
	return testEnv{router: NewRouter(deps), uploadDir: deps.UploadDir, orch: orch}
}

func TestNewRouter_HealthEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("expected body to contain 'ok', got %s", w.Body.String())
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON content type, got %q", w.Header().Get("Content-Type"))
	}
}

func TestNewRouter_UploadFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "scan.png")
	part.Write([]byte("image")) //nolint:errcheck
	mw.Close()                  //nolint:errcheck

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d; want 200 (body %s)", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			Text        string                     `json:"text"`
			Suggestions inference.SuggestionResult `json:"suggestions"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if !resp.Success || resp.Result.Suggestions.Summary != "fever and cough" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Result.Suggestions.SourceMode != inference.SourceLocal {
		t.Errorf("expected local answer, got %q", resp.Result.Suggestions.SourceMode)
	}

	entries, err := os.ReadDir(env.uploadDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored upload, got %v, %v", entries, err)
	}

	// The stored file is served back under /static/uploads.
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/uploads/"+entries[0].Name(), nil))
	if w.Code != http.StatusOK || w.Body.String() != "image" {
		t.Errorf("expected stored upload served, got %d %q", w.Code, w.Body.String())
	}
}

func TestNewRouter_InferenceModeRoundTrip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/inference-mode", strings.NewReader(`{"mode":"server"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("POST status = %d; want 200", w.Code)
	}

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inference-mode", nil))
	if strings.TrimSpace(w.Body.String()) != `{"mode":"server"}` {
		t.Errorf("unexpected GET body %s", w.Body.String())
	}
	if env.orch.GetMode() != inference.ModeServer {
		t.Errorf("expected orchestrator in server mode, got %q", env.orch.GetMode())
	}

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/inference-mode", strings.NewReader(`{"mode":"both"}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid mode status = %d; want 400", w.Code)
	}
}

func TestNewRouter_EventsRoute(t *testing.T) {
	t.Parallel()

	without := newTestEnv(t, false)
	w := httptest.NewRecorder()
	without.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inference-events", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without an event log, got %d", w.Code)
	}

	with := newTestEnv(t, true)
	w = httptest.NewRecorder()
	with.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inference-events?limit=10", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with an event log, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"data":[]}` {
		t.Errorf("expected empty data, got %s", w.Body.String())
	}
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	t.Parallel()

	deps := Deps{Advisor: panicAdvisor{}, Extractor: staticExtractor(""), Logger: observability.Discard()}
	router := NewRouter(deps)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inference-mode", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", w.Code)
	}
}

type panicAdvisor struct{}

func (panicAdvisor) GetSuggestions(context.Context, string) inference.SuggestionResult {
	panic("unreachable")
}
func (panicAdvisor) GetMode() inference.Mode               { panic("boom") }
func (panicAdvisor) SetMode(context.Context, string) error { panic("boom") }
