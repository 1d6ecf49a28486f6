package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/matiasleandrokruk/docsense/internal/api"
	"github.com/matiasleandrokruk/docsense/internal/api/mcptools"
	"github.com/matiasleandrokruk/docsense/internal/domain/inference"
	"github.com/matiasleandrokruk/docsense/internal/infra/config"
	"github.com/matiasleandrokruk/docsense/internal/infra/eventbus"
	"github.com/matiasleandrokruk/docsense/internal/infra/llm"
	"github.com/matiasleandrokruk/docsense/internal/infra/modestore"
	"github.com/matiasleandrokruk/docsense/internal/infra/ocr"
	"github.com/matiasleandrokruk/docsense/internal/infra/ocr/tesseract"
	"github.com/matiasleandrokruk/docsense/internal/infra/sqlite"
	"github.com/matiasleandrokruk/docsense/internal/observability"
	"github.com/matiasleandrokruk/docsense/internal/server"
	"github.com/matiasleandrokruk/docsense/internal/version"
)

// app holds the wired orchestration core and the resources behind it.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	orch      *inference.Orchestrator
	recorder  *inference.EventRecorder
	extractor ocr.Extractor

	db           *sql.DB
	bus          *eventbus.Bus
	stopRecorder context.CancelFunc
	recorderDone <-chan struct{}
}

// newApp wires backends, the mode store, the event log and the orchestrator.
// A missing local model is not fatal: the orchestrator starts in server mode.
func newApp(cfg config.Config, logger *slog.Logger) (_ *app, err error) {
	configured, err := inference.ParseMode(cfg.InferenceMode)
	if err != nil {
		return nil, fmt.Errorf("%w: INFERENCE_MODE: %w", config.ErrInvalidConfig, err)
	}

	a := &app{cfg: cfg, logger: logger, bus: eventbus.New()}
	defer func() {
		if err != nil {
			a.Close() //nolint:errcheck
		}
	}()

	if a.db, err = openDB(cfg.DBPath); err != nil {
		return nil, err
	}

	var store inference.ModeStore
	switch cfg.ModeStore {
	case config.ModeStoreEnvFile:
		store = modestore.NewEnvFileStore(cfg.EnvFile)
	case config.ModeStoreSQLite:
		store = modestore.NewSQLiteStore(a.db)
	}

	// Recorder subscribes before the orchestrator can publish anything.
	recCtx, cancel := context.WithCancel(context.Background())
	a.stopRecorder = cancel
	a.recorder = inference.NewEventRecorder(a.db, logger)
	a.recorderDone = a.recorder.Start(recCtx, a.bus)

	backends := []llm.Backend{llm.NewRemoteBackend(llm.RemoteConfig{
		URL:         cfg.ServerAPIURL,
		Timeout:     cfg.ServerTimeout,
		MaxLength:   cfg.ServerMaxLength,
		Temperature: &cfg.ServerTemperature,
	})}
	local, loadErr := llm.LoadLocalBackend(cfg.LocalModelPath)
	if loadErr != nil {
		logger.Warn("local backend unavailable", "path", cfg.LocalModelPath, "error", loadErr)
	} else {
		logger.Info("local model loaded", "model", local.ModelName())
		backends = append(backends, local)
	}

	initial := inference.LoadPreferredMode(context.Background(), store, configured, cfg.InferenceModeFromEnv, logger)
	opts := []inference.Option{inference.WithEventBus(a.bus), inference.WithLogger(logger)}
	if store != nil {
		opts = append(opts, inference.WithModeStore(store))
	}
	if a.orch, err = inference.NewOrchestrator(initial, llm.NewRouter(backends...), opts...); err != nil {
		return nil, err
	}
	logger.Info("inference orchestrator ready", "mode", a.orch.GetMode(), "mode_store", cfg.ModeStore)

	a.extractor = tesseract.New(cfg.OCRLanguages...)
	return a, nil
}

// Close stops the event recorder and closes the database. Safe to call more than once.
func (a *app) Close() error {
	a.bus.Close()
	if n := a.bus.Dropped(); n > 0 {
		a.logger.Warn("inference events dropped on a full subscriber buffer", "count", n)
	}
	if a.stopRecorder != nil {
		<-a.recorderDone
		a.stopRecorder()
		a.stopRecorder = nil
	}
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func openDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return db, nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	logger := observability.New(w, cfg.LogLevel)
	observability.SetLogger(logger)
	return logger
}

func runServe(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	logger := newLogger(cfg, logOut)

	if err := os.MkdirAll(cfg.UploadFolder, 0o755); err != nil {
		return fmt.Errorf("create upload folder: %w", err)
	}
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Advisor:          a.orch,
		Extractor:        a.extractor,
		Events:           a.recorder,
		UploadDir:        cfg.UploadFolder,
		MaxContentLength: cfg.MaxContentLength,
		Logger:           logger,
	})

	srvCfg := server.DefaultConfig()
	srvCfg.Host, srvCfg.Port = cfg.HTTPHost, cfg.HTTPPort
	return server.NewServer(router, srvCfg, a).Run(ctx)
}

// runMCP serves the MCP tools on stdin/stdout; logs go to logOut.
func runMCP(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	logger := newLogger(cfg, logOut)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	srv := mcptools.NewServer(a.orch, mcptools.Options{Version: version.Version, Extractor: a.extractor})
	logger.Info("serving MCP tools over stdio")
	if err := mcptools.Run(ctx, srv); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runExtract(ctx context.Context, cfg config.Config, path string, out io.Writer) error {
	text, err := tesseract.New(cfg.OCRLanguages...).ExtractText(ctx, path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}
