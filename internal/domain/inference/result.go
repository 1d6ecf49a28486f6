package inference

// SourceMode records which code path produced a SuggestionResult.
type SourceMode string

const (
	SourceLocal    SourceMode = "local"
	SourceServer   SourceMode = "server"
	SourceFallback SourceMode = "fallback"
)

// ProfessionalConsultation is the generic safety recommendation.
const ProfessionalConsultation = "Please consult a qualified medical professional for an accurate diagnosis."

// SuggestionResult is the canonical output shared by every backend.
type SuggestionResult struct {
	Summary         string     `json:"summary"`
	Analysis        string     `json:"analysis"`
	Recommendations []string   `json:"recommendations"`
	LifestyleAdvice string     `json:"lifestyle_advice"`
	SourceMode      SourceMode `json:"mode"`
}

// Degraded reports whether the result is the canned fallback.
func (r SuggestionResult) Degraded() bool {
	return r.SourceMode == SourceFallback
}

// FallbackResult returns the degraded result used when no backend answered.
// It always carries exactly one recommendation.
func FallbackResult() SuggestionResult {
	return SuggestionResult{
		Summary:         "The document could not be analyzed right now. Please check the input or try again.",
		Analysis:        "A detailed analysis is temporarily unavailable.",
		Recommendations: []string{ProfessionalConsultation},
		LifestyleAdvice: "Maintaining a healthy lifestyle is important for recovery.",
		SourceMode:      SourceFallback,
	}
}
