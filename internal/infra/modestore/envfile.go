// Package modestore persists the administrator's inference mode preference.
// Both stores deal in raw strings; validation happens in the inference package.
package modestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// ModeKey is the variable (and setting key) holding the preference.
const ModeKey = "INFERENCE_MODE"

// EnvFileStore keeps the preference as an INFERENCE_MODE=... line in a
// dotenv-style file, leaving every other line untouched.
type EnvFileStore struct {
	mu   sync.Mutex
	path string
}

// NewEnvFileStore returns a store over path. The file need not exist yet.
func NewEnvFileStore(path string) *EnvFileStore {
	return &EnvFileStore{path: path}
}

// Path returns the backing file path.
func (s *EnvFileStore) Path() string { return s.path }

// LoadMode returns the last INFERENCE_MODE value in the file.
// A missing file is not an error.
func (s *EnvFileStore) LoadMode(_ context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("modestore: read %s: %w", s.path, err)
	}

	env, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return "", false, fmt.Errorf("modestore: parse %s: %w", s.path, err)
	}
	value, found := env[ModeKey]
	return value, found, nil
}

// SaveMode rewrites the INFERENCE_MODE line in place, appending it when
// missing. The file is replaced atomically via a temp file and rename.
func (s *EnvFileStore) SaveMode(_ context.Context, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("modestore: read %s: %w", s.path, err)
	}

	entry := ModeKey + "=" + mode
	var (
		out      []string
		replaced bool
	)
	if len(data) > 0 {
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			if setsMode(line) {
				if replaced {
					continue // collapse duplicates
				}
				line, replaced = entry, true
			}
			out = append(out, line)
		}
	}
	if !replaced {
		out = append(out, entry)
	}

	return writeAtomic(s.path, []byte(strings.Join(out, "\n")+"\n"))
}

// setsMode reports whether a single dotenv line assigns ModeKey.
// Lines godotenv cannot parse are kept as they are.
func setsMode(line string) bool {
	env, err := godotenv.Unmarshal(line)
	if err != nil {
		return false
	}
	_, ok := env[ModeKey]
	return ok
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("modestore: create temp in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("modestore: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("modestore: close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("modestore: chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("modestore: rename to %s: %w", path, err)
	}
	return nil
}
