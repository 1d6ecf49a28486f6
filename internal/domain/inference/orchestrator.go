package inference

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/matiasleandrokruk/docsense/internal/infra/eventbus"
	"github.com/matiasleandrokruk/docsense/internal/infra/llm"
	"github.com/matiasleandrokruk/docsense/internal/observability"
)

// Orchestrator owns the current mode and turns text into a SuggestionResult.
// GetSuggestions never fails: backend failures end in a degraded result.
type Orchestrator struct {
	modes   *ModeState
	router  *llm.Router
	builder *PromptBuilder
	policy  FallbackPolicy

	adminMu sync.Mutex // serializes SetMode with its store write
	store   ModeStore
	bus     eventbus.EventBus
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithModeStore makes SetMode write the preference through store.
func WithModeStore(store ModeStore) Option {
	return func(o *Orchestrator) { o.store = store }
}

// WithEventBus publishes orchestration events on bus.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(o *Orchestrator) { o.bus = bus }
}

// WithLogger overrides the process-wide logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// NewOrchestrator creates an Orchestrator starting in initial mode.
// When initial is local but the router has no local backend, the orchestrator
// starts in server mode instead: the local backend is unavailable for the
// lifetime of the process.
func NewOrchestrator(initial Mode, router *llm.Router, opts ...Option) (*Orchestrator, error) {
	if !initial.Valid() {
		return nil, ErrInvalidMode
	}
	o := &Orchestrator{
		router:  router,
		builder: NewPromptBuilder(),
		logger:  observability.Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	if initial == ModeLocal && !router.Available(llm.BackendLocal) {
		o.logger.Warn("local backend unavailable, defaulting to server mode")
		initial = ModeServer
		o.publish(EventLocalUnavailable, initial, "local backend failed to initialize")
	}

	modes, err := NewModeState(initial)
	if err != nil {
		return nil, err
	}
	o.modes = modes
	return o, nil
}

// GetMode returns the current mode.
func (o *Orchestrator) GetMode() Mode {
	return o.modes.Get()
}

// SetMode validates requested and makes it the current mode.
// Invalid values return ErrInvalidMode without side effects. A store write
// failure is logged; the in-memory change still applies.
func (o *Orchestrator) SetMode(ctx context.Context, requested string) error {
	m, err := ParseMode(requested)
	if err != nil {
		return err
	}

	o.adminMu.Lock()
	defer o.adminMu.Unlock()

	prev, err := o.modes.Set(m)
	if err != nil {
		return err
	}
	log := observability.WithRequest(ctx, o.logger)
	if o.store != nil {
		if saveErr := o.store.SaveMode(ctx, string(m)); saveErr != nil {
			log.Warn("mode store: save failed", "error", saveErr, "mode", m)
		}
	}
	if prev != m {
		log.Info("inference mode changed", "from", prev, "to", m)
		o.publish(EventModeChanged, m, "from "+string(prev))
	}
	return nil
}

// GetSuggestions builds a prompt from text and runs it through the fallback
// policy. The mode is read once, at the start of the call.
func (o *Orchestrator) GetSuggestions(ctx context.Context, text string) SuggestionResult {
	log := observability.WithRequest(ctx, o.logger)
	prompt := o.builder.Build(text)
	mode := o.modes.Get()

	step := o.policy.Begin(mode)
	for step.State != StateDegraded {
		log.Debug("dispatching prompt", "state", step.State, "backend", step.Backend, "prompt_len", len(prompt.Instruction))

		raw, failure := o.dispatch(ctx, step.Backend, prompt)
		if failure == nil {
			return ensureRecommendation(Normalize(raw, sourceFor(step.Backend)))
		}
		log.Warn("backend failed", "state", step.State, "backend", failure.Backend, "error", failure.Cause)

		step = o.policy.Fail(step)
		if step.Redirect && o.modes.CompareAndSet(ModeLocal, ModeServer) {
			log.Warn("local backend failed, server mode is now the default")
			o.publish(EventRedirected, ModeServer, failure.Error())
		}
	}

	log.Error("no backend produced an answer, returning degraded result", "mode", mode)
	o.publish(EventDegraded, o.modes.Get(), "all backends failed")
	return FallbackResult()
}

func (o *Orchestrator) dispatch(ctx context.Context, id llm.BackendID, p llm.Prompt) (*llm.RawSuggestion, *llm.BackendFailure) {
	backend, err := o.router.Route(id)
	if err != nil {
		return nil, llm.AsBackendFailure(id, err)
	}
	raw, err := backend.Infer(ctx, p)
	if err != nil {
		return nil, llm.AsBackendFailure(id, err)
	}
	return raw, nil
}

func (o *Orchestrator) publish(kind EventKind, mode Mode, detail string) {
	if o.bus == nil {
		return
	}
	o.bus.Publish(TopicInferenceEvent, Event{Kind: kind, Mode: mode, Detail: detail, At: o.now()})
}

// ensureRecommendation guarantees a non-empty recommendation list. A genuine
// answer without recommendations keeps its source mode.
func ensureRecommendation(r SuggestionResult) SuggestionResult {
	if len(r.Recommendations) == 0 {
		r.Recommendations = []string{ProfessionalConsultation}
	}
	return r
}
