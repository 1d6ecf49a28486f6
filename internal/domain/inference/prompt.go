package inference

import (
	"strings"
	"text/template"

	"github.com/matiasleandrokruk/docsense/internal/infra/llm"
)

// Disclaimer is embedded in every prompt and returned alongside every result.
const Disclaimer = "This advice is for reference only and is not a medical diagnosis. Please consult a professional doctor for an accurate diagnosis."

// Sections lists, in order, the four sections every backend is asked for.
// Normalize maps them to Summary, Analysis, Recommendations and LifestyleAdvice.
var Sections = []string{
	"A brief summary of the medical record",
	"Analysis of possible health problems",
	"Recommended next actions",
	"Lifestyle adjustments (if applicable)",
}

const promptTemplate = `You are a professional medical advisor. Based on the medical record below, provide professional and accurate advice.

Medical record:
{{.Text}}

Please provide the following:
{{range $i, $s := .Sections}}{{inc $i}}. {{$s}}
{{end}}
Note: {{.Disclaimer}} Remind the user of this in your answer.
`

var promptTmpl = template.Must(template.New("prompt").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(promptTemplate))

// PromptBuilder renders extracted text into a Prompt. It has no side effects.
type PromptBuilder struct{}

// NewPromptBuilder returns a PromptBuilder using the built-in template.
func NewPromptBuilder() *PromptBuilder { return &PromptBuilder{} }

// Build renders text into a Prompt. Empty text is valid and still renders.
func (b *PromptBuilder) Build(text string) llm.Prompt {
	var sb strings.Builder
	// The template is fixed and its data always complete; Execute can only fail
	// on a write error, which strings.Builder never returns.
	_ = promptTmpl.Execute(&sb, struct {
		Text       string
		Sections   []string
		Disclaimer string
	}{Text: text, Sections: Sections, Disclaimer: Disclaimer})

	return llm.Prompt{Instruction: sb.String(), SourceText: text}
}
