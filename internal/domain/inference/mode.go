// Package inference is the orchestration core: it builds prompts, dispatches
// them to the backend selected by the current mode, normalizes the answer and
// degrades to a canned result when backends fail.
package inference

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/matiasleandrokruk/docsense/internal/infra/llm"
)

// Mode is the administrator-selected backend preference.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeServer Mode = "server"
)

// ErrInvalidMode is returned for any mode value other than "local" or "server".
var ErrInvalidMode = errors.New("invalid inference mode, must be local or server")

// ParseMode validates a raw mode value. Matching is exact.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

// Valid reports whether m is one of the enumerated modes.
func (m Mode) Valid() bool {
	return m == ModeLocal || m == ModeServer
}

// Backend maps the mode to the backend it selects.
func (m Mode) Backend() llm.BackendID {
	if m == ModeLocal {
		return llm.BackendLocal
	}
	return llm.BackendServer
}

func (m Mode) String() string { return string(m) }

// ModeState owns the process-wide current mode.
// Reads are lock-free; every write goes through mu so concurrent writers are serialized.
type ModeState struct {
	mu  sync.Mutex
	cur atomic.Value // Mode
}

// NewModeState returns a ModeState holding initial. initial must be valid.
func NewModeState(initial Mode) (*ModeState, error) {
	if !initial.Valid() {
		return nil, ErrInvalidMode
	}
	s := &ModeState{}
	s.cur.Store(initial)
	return s, nil
}

// Get returns the current mode.
func (s *ModeState) Get() Mode {
	return s.cur.Load().(Mode)
}

// Set replaces the current mode and returns the previous one.
func (s *ModeState) Set(m Mode) (Mode, error) {
	if !m.Valid() {
		return "", ErrInvalidMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.Get()
	s.cur.Store(m)
	return prev, nil
}

// CompareAndSet replaces the mode only while it still equals from.
// Reports whether a change was made.
func (s *ModeState) CompareAndSet(from, to Mode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Get() != from {
		return false
	}
	s.cur.Store(to)
	return true
}
