package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRun_Default_PrintsVersion(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{}, &out, &errOut)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "docsense version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"--version"}, &out, &errOut); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.HasPrefix(out.String(), "docsense version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_Help_PrintsUsage(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"--help"}, &out, &errOut)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	for _, want := range []string{"Usage:", "serve", "mcp", "extract <file>"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected help to mention %q, got %q", want, out.String())
		}
	}
}

func TestRun_UsageErrors_Return2(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"unknown flag":        {"--unknown-flag"},
		"unknown command":     {"train"},
		"extract without arg": {"extract"},
		"extract two args":    {"extract", "a.png", "b.png"},
		"serve with args":     {"serve", "now"},
	}
	for name, args := range cases {
		var out, errOut bytes.Buffer
		if code := run(context.Background(), args, &out, &errOut); code != exitUsage {
			t.Errorf("%s: expected exit code 2, got %d", name, code)
		}
		if errOut.Len() == 0 {
			t.Errorf("%s: expected a message on stderr", name)
		}
	}
}
