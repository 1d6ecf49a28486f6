package inference

import (
	"errors"
	"sync"
	"testing"

	"github.com/matiasleandrokruk/docsense/internal/infra/llm"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "local", want: ModeLocal},
		{in: "server", want: ModeServer},
		{in: "Local", wantErr: true},
		{in: "SERVER", wantErr: true},
		{in: "", wantErr: true},
		{in: "fallback", wantErr: true},
		{in: "local ", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseMode(%q): expected ErrInvalidMode, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseMode(%q) = %q, %v; expected %q", tc.in, got, err, tc.want)
		}
	}
}

func TestMode_Backend(t *testing.T) {
	t.Parallel()

	if ModeLocal.Backend() != llm.BackendLocal {
		t.Errorf("expected local backend, got %q", ModeLocal.Backend())
	}
	if ModeServer.Backend() != llm.BackendServer {
		t.Errorf("expected server backend, got %q", ModeServer.Backend())
	}
}

func TestModeState_SetAndGet(t *testing.T) {
	t.Parallel()

	s, err := NewModeState(ModeLocal)
	if err != nil {
		t.Fatalf("NewModeState failed: %v", err)
	}
	prev, err := s.Set(ModeServer)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if prev != ModeLocal || s.Get() != ModeServer {
		t.Errorf("expected local -> server, got prev=%q cur=%q", prev, s.Get())
	}
	if _, err := s.Set(Mode("gpu")); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
	if s.Get() != ModeServer {
		t.Errorf("expected invalid Set to leave server, got %q", s.Get())
	}
}

func TestNewModeState_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := NewModeState(""); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

func TestModeState_CompareAndSet(t *testing.T) {
	t.Parallel()

	s, _ := NewModeState(ModeLocal)
	if !s.CompareAndSet(ModeLocal, ModeServer) {
		t.Fatal("expected first CompareAndSet to succeed")
	}
	if s.CompareAndSet(ModeLocal, ModeServer) {
		t.Error("expected second CompareAndSet to fail")
	}
	if s.Get() != ModeServer {
		t.Errorf("expected server, got %q", s.Get())
	}
}

func TestModeState_ConcurrentCompareAndSet(t *testing.T) {
	t.Parallel()

	s, _ := NewModeState(ModeLocal)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.CompareAndSet(ModeLocal, ModeServer) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("expected exactly one winner, got %d", wins)
	}
}
