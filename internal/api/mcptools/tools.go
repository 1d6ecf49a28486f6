// Package mcptools exposes the inference orchestrator as Model Context
// Protocol tools, so agents can request advisory suggestions directly.
package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/docsense/internal/api/handlers"
	"github.com/matiasleandrokruk/docsense/internal/domain/inference"
	"github.com/matiasleandrokruk/docsense/internal/infra/ocr"
	"github.com/matiasleandrokruk/docsense/internal/observability"
)

// Tool names.
const (
	ToolGetSuggestions   = "get_suggestions"
	ToolAnalyzeDocument  = "analyze_document"
	ToolGetInferenceMode = "get_inference_mode"
	ToolSetInferenceMode = "set_inference_mode"
)

const serverName = "docsense"

// SuggestionsInput is the input of get_suggestions.
type SuggestionsInput struct {
	Text string `json:"text" jsonschema:"text extracted from a medical document"`
}

// DocumentInput is the input of analyze_document.
type DocumentInput struct {
	Path string `json:"path" jsonschema:"path of an image of a medical document, readable by the server"`
}

// DocumentOutput is the output of analyze_document.
type DocumentOutput struct {
	Text        string                     `json:"text"`
	Suggestions inference.SuggestionResult `json:"suggestions"`
	Disclaimer  string                     `json:"disclaimer"`
}

// SuggestionsOutput wraps a SuggestionResult with the disclaimer.
type SuggestionsOutput struct {
	Suggestions inference.SuggestionResult `json:"suggestions"`
	Disclaimer  string                     `json:"disclaimer"`
}

// ModeInput is the input of set_inference_mode.
type ModeInput struct {
	Mode string `json:"mode" jsonschema:"inference mode, either local or server"`
}

// ModeOutput reports the current inference mode.
type ModeOutput struct {
	Mode string `json:"mode"`
}

// Options configures NewServer.
type Options struct {
	Version string

	// Extractor enables analyze_document when set.
	Extractor ocr.Extractor
}

// NewServer returns an MCP server exposing advisor as tools.
func NewServer(advisor handlers.Advisor, opts Options) *mcp.Server {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	t := &tools{advisor: advisor, extractor: opts.Extractor}

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGetSuggestions,
		Description: "Return advisory suggestions (summary, analysis, recommendations, lifestyle advice) for medical document text. Never a diagnosis.",
	}, t.getSuggestions)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGetInferenceMode,
		Description: "Return the current inference mode (local or server).",
	}, t.getMode)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSetInferenceMode,
		Description: "Set the inference mode to local or server.",
	}, t.setMode)
	if t.extractor != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        ToolAnalyzeDocument,
			Description: "Run OCR on a document image and return its text with advisory suggestions.",
		}, t.analyzeDocument)
	}
	return server
}

// Run serves the tools over stdio until ctx is done or the client disconnects.
func Run(ctx context.Context, server *mcp.Server) error {
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

type tools struct {
	advisor   handlers.Advisor
	extractor ocr.Extractor
}

func (t *tools) getSuggestions(ctx context.Context, _ *mcp.CallToolRequest, in SuggestionsInput) (*mcp.CallToolResult, SuggestionsOutput, error) {
	result := t.advisor.GetSuggestions(ctx, in.Text)
	return nil, SuggestionsOutput{Suggestions: result, Disclaimer: inference.Disclaimer}, nil
}

func (t *tools) analyzeDocument(ctx context.Context, _ *mcp.CallToolRequest, in DocumentInput) (*mcp.CallToolResult, DocumentOutput, error) {
	text, err := t.extractor.ExtractText(ctx, in.Path)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("mcp: extraction failed", "error", err)
		return nil, DocumentOutput{}, fmt.Errorf("error processing file: %w", err)
	}
	return nil, DocumentOutput{
		Text:        text,
		Suggestions: t.advisor.GetSuggestions(ctx, text),
		Disclaimer:  inference.Disclaimer,
	}, nil
}

func (t *tools) getMode(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ModeOutput, error) {
	return nil, ModeOutput{Mode: string(t.advisor.GetMode())}, nil
}

func (t *tools) setMode(ctx context.Context, _ *mcp.CallToolRequest, in ModeInput) (*mcp.CallToolResult, ModeOutput, error) {
	if err := t.advisor.SetMode(ctx, in.Mode); err != nil {
		return nil, ModeOutput{}, err
	}
	return nil, ModeOutput{Mode: string(t.advisor.GetMode())}, nil
}
