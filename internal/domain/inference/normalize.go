package inference

import (
	"strings"

	"github.com/matiasleandrokruk/docsense/internal/infra/llm"
)

// Normalize maps a backend's raw output into the canonical shape.
// It is total: a nil or incomplete raw value yields zero-valued fields,
// and Recommendations is never nil.
func Normalize(raw *llm.RawSuggestion, source SourceMode) SuggestionResult {
	out := SuggestionResult{
		Recommendations: []string{},
		SourceMode:      source,
	}
	if raw == nil {
		return out
	}
	out.Summary = strings.TrimSpace(raw.Summary)
	out.Analysis = strings.TrimSpace(raw.Analysis)
	out.LifestyleAdvice = strings.TrimSpace(raw.LifestyleAdvice)
	for _, rec := range raw.Recommendations {
		if rec = strings.TrimSpace(rec); rec != "" {
			out.Recommendations = append(out.Recommendations, rec)
		}
	}
	return out
}

// ToRaw maps a canonical result back into the raw wire shape.
// Normalize(ToRaw(r), r.SourceMode) == r for any normalized r.
func ToRaw(r SuggestionResult) *llm.RawSuggestion {
	recs := make(llm.StringList, len(r.Recommendations))
	copy(recs, r.Recommendations)
	return &llm.RawSuggestion{
		Summary:         r.Summary,
		Analysis:        r.Analysis,
		Recommendations: recs,
		LifestyleAdvice: r.LifestyleAdvice,
	}
}

// sourceFor maps a backend to the SourceMode reported for its answers.
func sourceFor(id llm.BackendID) SourceMode {
	if id == llm.BackendLocal {
		return SourceLocal
	}
	return SourceServer
}
