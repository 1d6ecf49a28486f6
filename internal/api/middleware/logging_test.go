package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := chimw.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout")) //nolint:errcheck
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/inference-mode", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["status_code"] != float64(http.StatusTeapot) {
		t.Errorf("expected status_code 418, got %v", entry["status_code"])
	}
	if entry["path"] != "/api/inference-mode" {
		t.Errorf("expected path logged, got %v", entry["path"])
	}
	if entry["bytes"] != float64(len("short and stout")) {
		t.Errorf("expected bytes logged, got %v", entry["bytes"])
	}
	if entry["level"] != "WARN" {
		t.Errorf("expected WARN for 4xx, got %v", entry["level"])
	}
	if id, _ := entry["request_id"].(string); id == "" {
		t.Error("expected request_id in log entry")
	}
}

func TestStatusRecorder_DefaultsTo200(t *testing.T) {
	t.Parallel()

	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	rec.Write([]byte("ok")) //nolint:errcheck
	rec.WriteHeader(http.StatusInternalServerError)
	if rec.statusCode != http.StatusOK {
		t.Errorf("expected first write to fix status 200, got %d", rec.statusCode)
	}
}

func TestLevelFromStatus(t *testing.T) {
	t.Parallel()

	cases := map[int]slog.Level{
		200: slog.LevelInfo,
		302: slog.LevelInfo,
		400: slog.LevelWarn,
		413: slog.LevelWarn,
		500: slog.LevelError,
	}
	for status, want := range cases {
		if got := levelFromStatus(status); got != want {
			t.Errorf("status %d: expected %v, got %v", status, want, got)
		}
	}
}
