// Package llm defines the backend-agnostic inference abstraction.
// All types here are shared between the Backend interface and its adapters.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BackendID identifies one of the interchangeable inference backends.
type BackendID string

const (
	BackendLocal  BackendID = "local"
	BackendServer BackendID = "server"
)

// Prompt is the structured payload sent to a backend.
// Built once per request and never shared across calls.
type Prompt struct {
	Instruction string // Rendered template, source text included.
	SourceText  string // The extracted document text as received.
}

// RawSuggestion is the wire shape produced by a backend.
// Any field may be missing; normalization maps it into the canonical result.
type RawSuggestion struct {
	Summary         string     `json:"summary"`
	Analysis        string     `json:"analysis"`
	Recommendations StringList `json:"recommendations"`
	LifestyleAdvice string     `json:"lifestyle_advice"`
}

// StringList decodes either a JSON array of strings or a single string.
// Remote servers are inconsistent about this field; null decodes to nil.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = nil
			return nil
		}
		*l = StringList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("recommendations: %w", err)
	}
	*l = items
	return nil
}

// RemoteRequest is the JSON body POSTed to the remote inference endpoint.
type RemoteRequest struct {
	Prompt      string  `json:"prompt"`
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
}
