// Package llm: backend router.
// Router resolves a Backend by ID at dispatch time. A backend that failed to
// construct is simply never registered, so routing to it reports unavailability.
package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Router selects a Backend for each dispatch.
type Router struct {
	mu       sync.RWMutex
	backends map[BackendID]Backend
}

// NewRouter creates a Router with the given backends. Nil entries are skipped.
func NewRouter(backends ...Backend) *Router {
	r := &Router{backends: make(map[BackendID]Backend, len(backends))}
	for _, b := range backends {
		if b != nil {
			r.backends[b.ID()] = b
		}
	}
	return r
}

// Register adds (or replaces) a backend under its own ID.
func (r *Router) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.ID()] = b
}

// Route returns the backend registered for id.
// The error wraps ErrBackendUnavailable when none is registered.
func (r *Router) Route(id BackendID) (Backend, error) {
	r.mu.RLock()
	b, ok := r.backends[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("llm router: %w: %q (available: %v)", ErrBackendUnavailable, id, r.keys())
	}
	return b, nil
}

// Available reports whether a backend is registered for id.
func (r *Router) Available(id BackendID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.backends[id]
	return ok
}

// keys returns the registered backend IDs (for error messages).
func (r *Router) keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.backends))
	for k := range r.backends {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
