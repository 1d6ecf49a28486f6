package llm

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testManifest = `
name: test-rules
version: "2"
defaults:
  empty_summary: No document text was provided.
  analysis: No specific findings were recognized.
  recommendations:
    - If symptoms persist or worsen, seek medical attention promptly.
  lifestyle: Keep a regular sleep schedule.
rules:
  - keywords: [fever]
    finding: Elevated temperature suggests an infection.
    recommendation: Monitor body temperature twice a day.
    lifestyle: Drink plenty of fluids.
  - keywords: [Cough]
    finding: Cough points to a respiratory tract involvement.
    recommendation: Have the chest examined if the cough lasts more than a week.
  - keywords: [hypertension, "high blood pressure"]
    finding: A history of hypertension needs ongoing control.
    recommendation: Continue prescribed antihypertensives and check blood pressure daily.
    lifestyle: Reduce salt intake.
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ModelArtifactName), []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir
}

func TestLoadRuleModel_MissingArtifact(t *testing.T) {
	t.Parallel()

	_, err := LoadRuleModel(t.TempDir())
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestParseRuleModel_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"bad yaml":          "name: [",
		"no name":           "rules:\n  - keywords: [a]\n",
		"nothing to say":    "name: x\n",
		"rule w/o keywords": "name: x\nrules:\n  - finding: f\n",
	}
	for name, content := range cases {
		if _, err := ParseRuleModel([]byte(content)); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		}
	}
}

func TestRuleModel_Generate_MatchesRules(t *testing.T) {
	t.Parallel()

	m, err := LoadRuleModel(writeManifest(t, testManifest))
	if err != nil {
		t.Fatalf("LoadRuleModel failed: %v", err)
	}
	if m.Name() != "test-rules@2" {
		t.Errorf("expected name test-rules@2, got %q", m.Name())
	}

	raw, err := m.Generate(Prompt{SourceText: "fever, cough, history of hypertension"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if raw.Summary != "fever, cough, history of hypertension" {
		t.Errorf("unexpected summary %q", raw.Summary)
	}
	for _, want := range []string{"infection", "respiratory", "hypertension"} {
		if !strings.Contains(raw.Analysis, want) {
			t.Errorf("expected analysis to mention %q, got %q", want, raw.Analysis)
		}
	}
	if len(raw.Recommendations) != 4 {
		t.Errorf("expected 3 rule + 1 default recommendations, got %d: %v", len(raw.Recommendations), raw.Recommendations)
	}
	if !strings.Contains(raw.LifestyleAdvice, "fluids") || !strings.Contains(raw.LifestyleAdvice, "salt") {
		t.Errorf("unexpected lifestyle advice %q", raw.LifestyleAdvice)
	}
}

func TestRuleModel_Generate_NoMatchUsesDefaults(t *testing.T) {
	t.Parallel()

	m, err := ParseRuleModel([]byte(testManifest))
	if err != nil {
		t.Fatalf("ParseRuleModel failed: %v", err)
	}

	raw, err := m.Generate(Prompt{SourceText: ""})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if raw.Summary != "No document text was provided." {
		t.Errorf("expected empty summary default, got %q", raw.Summary)
	}
	if raw.Analysis != "No specific findings were recognized." {
		t.Errorf("expected default analysis, got %q", raw.Analysis)
	}
	if len(raw.Recommendations) != 1 {
		t.Errorf("expected only the default recommendation, got %v", raw.Recommendations)
	}
	if raw.LifestyleAdvice != "Keep a regular sleep schedule." {
		t.Errorf("expected default lifestyle, got %q", raw.LifestyleAdvice)
	}
}

func TestCondense(t *testing.T) {
	t.Parallel()

	if got := condense("  a \n\t b  ", 10); got != "a b" {
		t.Errorf("expected whitespace collapsed, got %q", got)
	}
	long := strings.Repeat("x", 20)
	got := condense(long, 5)
	if got != "xxxxx…" {
		t.Errorf("expected truncated text, got %q", got)
	}
}

func TestRepositoryModelArtifact_Loads(t *testing.T) {
	t.Parallel()

	m, err := LoadRuleModel(filepath.Join("..", "..", "..", "models"))
	if err != nil {
		t.Fatalf("shipped model artifact should load: %v", err)
	}
	raw, err := m.Generate(Prompt{SourceText: "fever, cough, history of hypertension"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if raw.Summary == "" || raw.Analysis == "" || raw.LifestyleAdvice == "" || len(raw.Recommendations) == 0 {
		t.Errorf("expected all four sections populated, got %+v", raw)
	}
}
