// docsense reads medical documents and returns advisory suggestions from a
// local rule model or a remote inference server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/matiasleandrokruk/docsense/internal/infra/config"
	"github.com/matiasleandrokruk/docsense/internal/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("docsense", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "docsense: %v\n\n", err) //nolint:errcheck
		printHelp(errOut)
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return exitOK
	}
	if *showHelp {
		printHelp(out)
		return exitOK
	}

	cmd, rest := fs.Arg(0), fs.Args()
	if len(rest) > 0 {
		rest = rest[1:]
	}

	switch cmd {
	case "":
		// Default: print version
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return exitOK
	case "serve", "mcp":
		if len(rest) != 0 {
			fmt.Fprintf(errOut, "docsense %s: unexpected arguments %v\n", cmd, rest) //nolint:errcheck
			return exitUsage
		}
	case "extract":
		if len(rest) != 1 {
			fmt.Fprintln(errOut, "usage: docsense extract <file>") //nolint:errcheck
			return exitUsage
		}
	default:
		fmt.Fprintf(errOut, "docsense: unknown command %q\n\n", cmd) //nolint:errcheck
		printHelp(errOut)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(errOut, "docsense: %v\n", err) //nolint:errcheck
		return exitError
	}

	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, errOut)
	case "mcp":
		err = runMCP(ctx, cfg, errOut)
	case "extract":
		err = runExtract(ctx, cfg, rest[0], out)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(errOut, "docsense %s: %v\n", cmd, err) //nolint:errcheck
		return exitError
	}
	return exitOK
}

func printHelp(out io.Writer) {
	helpText := `docsense - medical document advisory service

Usage:
  docsense [options] [command]

Options:
  --version    Show version information
  --help       Show this help message

Commands:
  serve            Start the HTTP server
  mcp              Serve the MCP tools over stdio
  extract <file>   Run OCR on a document and print its text

Configuration is read from the environment (INFERENCE_MODE, SERVER_API_URL,
LOCAL_MODEL_PATH, ...) and optionally from the YAML or TOML file named by
DOCSENSE_CONFIG.

Examples:
  docsense --version
  INFERENCE_MODE=server docsense serve
  docsense extract ./scan.png`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
