package inference

import (
	"context"
	"log/slog"
)

// ModeStore is the seam for durably storing the mode preference.
// Implementations deal in raw strings; validation stays in this package.
type ModeStore interface {
	// LoadMode returns the stored value and whether one exists.
	LoadMode(ctx context.Context) (string, bool, error)
	SaveMode(ctx context.Context, mode string) error
}

// LoadPreferredMode picks the startup mode. An explicit environment setting
// wins and the store is not consulted; otherwise the stored preference is used
// when present and valid, falling back to configured. Store errors are logged,
// never fatal.
func LoadPreferredMode(ctx context.Context, store ModeStore, configured Mode, explicit bool, logger *slog.Logger) Mode {
	if explicit {
		if store != nil {
			logger.Info("mode store: environment sets the mode, stored preference skipped", "mode", configured)
		}
		return configured
	}
	if store == nil {
		return configured
	}
	raw, ok, err := store.LoadMode(ctx)
	if err != nil {
		logger.Warn("mode store: load failed, using configured mode", "error", err, "mode", configured)
		return configured
	}
	if !ok {
		return configured
	}
	m, err := ParseMode(raw)
	if err != nil {
		logger.Warn("mode store: ignoring invalid stored mode", "stored", raw, "mode", configured)
		return configured
	}
	return m
}
