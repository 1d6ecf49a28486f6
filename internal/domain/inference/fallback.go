package inference

import "github.com/matiasleandrokruk/docsense/internal/infra/llm"

// PolicyState is a FallbackPolicy state.
type PolicyState int

const (
	// StatePrimary dispatches to the backend selected by the current mode.
	StatePrimary PolicyState = iota
	// StateRetrying dispatches once to the remote backend after a local failure.
	StateRetrying
	// StateDegraded is terminal for the call: the canned result is returned.
	StateDegraded
)

func (s PolicyState) String() string {
	switch s {
	case StatePrimary:
		return "primary"
	case StateRetrying:
		return "retrying"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Step is the policy's instruction for the next dispatch.
type Step struct {
	State   PolicyState
	Backend llm.BackendID // Unset when State is StateDegraded.

	// Redirect asks the caller to make ModeServer the default for the rest of
	// the process lifetime. Only set on the Primary(local) -> Retrying edge.
	Redirect bool
}

// FallbackPolicy decides what happens after a backend failure.
//
//	Primary(local)  --fail--> Retrying(server) + redirect
//	Primary(server) --fail--> Degraded
//	Retrying        --fail--> Degraded
//
// At most two dispatches happen per call. Degraded never changes the mode.
type FallbackPolicy struct{}

// Begin returns the Primary step for mode.
func (FallbackPolicy) Begin(mode Mode) Step {
	return Step{State: StatePrimary, Backend: mode.Backend()}
}

// Fail returns the step that follows a failure of cur.
func (FallbackPolicy) Fail(cur Step) Step {
	if cur.State == StatePrimary && cur.Backend == llm.BackendLocal {
		return Step{State: StateRetrying, Backend: llm.BackendServer, Redirect: true}
	}
	return Step{State: StateDegraded}
}
