package llm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ModelArtifactName is the file a local model directory must contain.
const ModelArtifactName = "model.yaml"

const summaryMaxRunes = 240

// ErrModelNotFound is returned when the model directory has no artifact.
var ErrModelNotFound = errors.New("local model artifact not found")

// RuleModel is the default local Model: a keyword rule set loaded from YAML.
// Each matching rule contributes a finding, a recommendation and lifestyle advice.
type RuleModel struct {
	name     string
	version  string
	defaults ruleDefaults
	rules    []rule
}

type ruleManifest struct {
	Name     string       `yaml:"name"`
	Version  string       `yaml:"version"`
	Defaults ruleDefaults `yaml:"defaults"`
	Rules    []rule       `yaml:"rules"`
}

type ruleDefaults struct {
	EmptySummary    string   `yaml:"empty_summary"`
	Analysis        string   `yaml:"analysis"`
	Recommendations []string `yaml:"recommendations"`
	Lifestyle       string   `yaml:"lifestyle"`
}

type rule struct {
	Keywords       []string `yaml:"keywords"`
	Finding        string   `yaml:"finding"`
	Recommendation string   `yaml:"recommendation"`
	Lifestyle      string   `yaml:"lifestyle"`
}

// LoadRuleModel reads and validates <dir>/model.yaml.
func LoadRuleModel(dir string) (*RuleModel, error) {
	path := filepath.Join(dir, ModelArtifactName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	return ParseRuleModel(data)
}

// ParseRuleModel builds a RuleModel from manifest bytes.
func ParseRuleModel(data []byte) (*RuleModel, error) {
	var m ruleManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model manifest: %w", err)
	}
	if strings.TrimSpace(m.Name) == "" {
		return nil, errors.New("parse model manifest: name is required")
	}
	if len(m.Rules) == 0 && len(m.Defaults.Recommendations) == 0 {
		return nil, errors.New("parse model manifest: no rules and no default recommendations")
	}
	for i := range m.Rules {
		if len(m.Rules[i].Keywords) == 0 {
			return nil, fmt.Errorf("parse model manifest: rule %d has no keywords", i)
		}
		for j, kw := range m.Rules[i].Keywords {
			m.Rules[i].Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	return &RuleModel{name: m.Name, version: m.Version, defaults: m.Defaults, rules: m.Rules}, nil
}

// Name implements Model.
func (m *RuleModel) Name() string {
	if m.version == "" {
		return m.name
	}
	return m.name + "@" + m.version
}

// Generate implements Model.
func (m *RuleModel) Generate(p Prompt) (*RawSuggestion, error) {
	text := strings.ToLower(p.SourceText)

	var findings, recs, lifestyle []string
	for _, r := range m.rules {
		if !r.matches(text) {
			continue
		}
		findings = appendUnique(findings, r.Finding)
		recs = appendUnique(recs, r.Recommendation)
		lifestyle = appendUnique(lifestyle, r.Lifestyle)
	}
	for _, rec := range m.defaults.Recommendations {
		recs = appendUnique(recs, rec)
	}

	out := &RawSuggestion{
		Summary:         condense(p.SourceText, summaryMaxRunes),
		Analysis:        m.defaults.Analysis,
		Recommendations: recs,
		LifestyleAdvice: m.defaults.Lifestyle,
	}
	if out.Summary == "" {
		out.Summary = m.defaults.EmptySummary
	}
	if len(findings) > 0 {
		out.Analysis = strings.Join(findings, " ")
	}
	if len(lifestyle) > 0 {
		out.LifestyleAdvice = strings.Join(lifestyle, " ")
	}
	return out, nil
}

func (r rule) matches(text string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

// condense collapses whitespace and truncates to maxRunes, marking the cut.
func condense(text string, maxRunes int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(flat) <= maxRunes {
		return flat
	}
	runes := []rune(flat)
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}
