package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/mgomes/tinyscript/tiny"
)

type buildFlags struct {
	project    *string
	output     *string
	workers    *int
	verbose    *bool
	indent     *string
	markLocals *bool
	headers    *bool
}

func registerBuildFlags(fs *flag.FlagSet) *buildFlags {
	return &buildFlags{
		project:    fs.String("project", "", "project file describing the units to compile"),
		output:     fs.String("o", "", "write output to this file instead of stdout"),
		workers:    fs.Int("workers", 0, "units compiled at once (0 means GOMAXPROCS)"),
		verbose:    fs.Bool("v", false, "trace each compilation stage"),
		indent:     fs.String("indent", "", "indentation used by the printer"),
		markLocals: fs.Bool("mark-locals", false, "prefix local references with a comment"),
		headers:    fs.Bool("headers", false, "print a header line before each unit"),
	}
}

// buildPlan is what a build or check run compiles and where it writes.
type buildPlan struct {
	sources []*tiny.Source
	config  tiny.Config
	output  string
}

func (f *buildFlags) plan(fs *flag.FlagSet, command string) (*buildPlan, error) {
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	plan := &buildPlan{}
	var paths []string

	projectPath := *f.project
	if projectPath == "" && fs.NArg() == 0 {
		if _, err := os.Stat(tiny.ProjectFileName); err == nil {
			projectPath = tiny.ProjectFileName
			if *f.verbose {
				traceOut.Fprintf(os.Stderr, "Detected project file: %s\n", projectPath)
			}
		}
	}

	switch {
	case projectPath != "":
		project, err := tiny.LoadProject(projectPath)
		if err != nil {
			return nil, err
		}
		paths, err = project.SourcePaths()
		if err != nil {
			return nil, err
		}
		plan.config = project.Config()
		plan.output = project.OutputPath()
	case fs.NArg() > 0:
		files, err := collectTinyFiles(fs.Args())
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("tiny %s: no %s files found", command, sourceExt)
		}
		paths = files
	default:
		return nil, fmt.Errorf("tiny %s: source path or %s required", command, tiny.ProjectFileName)
	}

	if set["o"] {
		plan.output = *f.output
	}
	if set["workers"] {
		if *f.workers < 0 {
			return nil, fmt.Errorf("tiny %s: workers must not be negative", command)
		}
		plan.config.Workers = *f.workers
	}
	if set["indent"] {
		plan.config.Printer.Indent = *f.indent
	}
	if set["mark-locals"] {
		plan.config.Printer.MarkLocals = *f.markLocals
	}
	if set["headers"] {
		plan.config.Printer.Headers = *f.headers
	}
	if *f.verbose {
		plan.config.Trace = stageTracer()
	}

	sources, err := tiny.ReadSources(paths)
	if err != nil {
		return nil, err
	}
	plan.sources = sources
	return plan, nil
}

// stageTracer prints one line per unit and stage. Units compile
// concurrently, so lines are serialised.
func stageTracer() func(string, tiny.Stage) {
	var mu sync.Mutex
	return func(unit string, stage tiny.Stage) {
		mu.Lock()
		defer mu.Unlock()
		traceOut.Fprintf(os.Stderr, "%s: %s\n", stage, unit)
	}
}

func (p *buildPlan) compile() (*tiny.Program, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	program, err := tiny.NewCompiler(p.config).Compile(ctx, p.sources)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, errors.New("compilation interrupted")
		}
		return nil, newCompileError(err, p.sources)
	}
	return program, nil
}

func buildCommand(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	flags := registerBuildFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	plan, err := flags.plan(fs, "build")
	if err != nil {
		return err
	}
	program, err := plan.compile()
	if err != nil {
		return err
	}

	out := program.Print()
	if plan.output == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(plan.output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	successOut.Fprintf(os.Stdout, "Transpiled %d unit(s) to %s\n", len(program.Scripts), plan.output)
	return nil
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	flags := registerBuildFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	plan, err := flags.plan(fs, "check")
	if err != nil {
		return err
	}
	program, err := plan.compile()
	if err != nil {
		return err
	}
	successOut.Fprintf(os.Stdout, "No errors in %d unit(s)\n", len(program.Scripts))
	return nil
}
