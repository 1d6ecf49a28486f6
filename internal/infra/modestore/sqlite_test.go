package modestore

import (
	"context"
	"testing"

	"github.com/matiasleandrokruk/docsense/internal/infra/sqlite"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sqlite.NewDB(":memory:")
	if err != nil {
		t.Fatalf("sqlite.NewDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	return NewSQLiteStore(db)
}

func TestSQLiteStore_Empty(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	v, ok, err := s.LoadMode(context.Background())
	if err != nil || ok || v != "" {
		t.Errorf("expected empty store, got %q/%v/%v", v, ok, err)
	}
}

func TestSQLiteStore_SaveAndOverwrite(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, mode := range []string{"local", "server"} {
		if err := s.SaveMode(ctx, mode); err != nil {
			t.Fatalf("SaveMode(%q) failed: %v", mode, err)
		}
		v, ok, err := s.LoadMode(ctx)
		if err != nil || !ok || v != mode {
			t.Errorf("expected %q, got %q/%v/%v", mode, v, ok, err)
		}
	}

	var rows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM inference_setting`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected a single setting row, got %d", rows)
	}
}
