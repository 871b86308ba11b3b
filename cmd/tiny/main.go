package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mgomes/tinyscript/tiny"
)

var (
	traceOut   = color.New(color.FgCyan)
	warningOut = color.New(color.FgYellow)
	successOut = color.New(color.FgGreen)
	failureOut = color.New(color.FgRed)
)

func main() {
	if err := runCLI(os.Args); err != nil {
		failureOut.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "build":
		return buildCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "dump":
		return dumpCommand(args[2:])
	case "repl":
		return runREPL()
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [paths...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  build    transpile units and print the result")
	fmt.Fprintln(os.Stderr, "  check    compile units without printing them")
	fmt.Fprintln(os.Stderr, "  fmt      reformat source files (-w to write, -check to verify)")
	fmt.Fprintln(os.Stderr, "  analyze  report unreachable statements and unused locals")
	fmt.Fprintln(os.Stderr, "  dump     print the token stream (-tokens) or the syntax tree")
	fmt.Fprintln(os.Stderr, "  repl     start an interactive transpile session")
	fmt.Fprintln(os.Stderr, "  lsp      serve diagnostics and completion over stdio")
	fmt.Fprintln(os.Stderr, "Build and check flags:")
	fmt.Fprintln(os.Stderr, "  -project <file>")
	fmt.Fprintf(os.Stderr, "    project file to use (default ./%s when no paths are given)\n", tiny.ProjectFileName)
	fmt.Fprintln(os.Stderr, "  -o <file>")
	fmt.Fprintln(os.Stderr, "    write output to a file instead of stdout")
	fmt.Fprintln(os.Stderr, "  -workers int")
	fmt.Fprintln(os.Stderr, "    units compiled at once (default GOMAXPROCS)")
	fmt.Fprintln(os.Stderr, "  -v")
	fmt.Fprintln(os.Stderr, "    trace each compilation stage")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

// compileError carries the text of the failing unit so the message can show
// a code frame.
type compileError struct {
	err  error
	code string
}

func (e *compileError) Error() string {
	return "compile failed: " + tiny.Describe(e.err, e.code)
}

func (e *compileError) Unwrap() error {
	return e.err
}

// newCompileError attaches the text of whichever source the error points at.
func newCompileError(err error, sources []*tiny.Source) error {
	var diag *tiny.Error
	if !errors.As(err, &diag) {
		return fmt.Errorf("compile failed: %w", err)
	}
	for _, src := range sources {
		if src.Name == diag.Pos.Source {
			return &compileError{err: err, code: src.Code}
		}
	}
	return &compileError{err: err}
}

func readSource(path string) (*tiny.Source, error) {
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return tiny.NewSource(path, string(input)), nil
}
