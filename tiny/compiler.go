package tiny

import (
	"context"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Stage names a step of compiling one unit, as reported to Config.Trace.
type Stage string

const (
	StageLex   Stage = "lex"
	StageParse Stage = "parse"
	StageCheck Stage = "check"
)

// Config controls a Compiler.
type Config struct {
	// Workers bounds how many units compile at once. Zero means GOMAXPROCS.
	Workers int
	// Trace, when set, is called as each unit enters a stage. It may be
	// called from several goroutines at once.
	Trace   func(unit string, stage Stage)
	Printer PrinterOptions
}

// Compiler runs the lex, parse and check stages over source units.
type Compiler struct {
	config  Config
	printer *Printer
}

// NewCompiler constructs a Compiler, filling in defaults.
func NewCompiler(cfg Config) *Compiler {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Compiler{config: cfg, printer: NewPrinter(cfg.Printer)}
}

// Program is the result of compiling a set of units, in input order.
type Program struct {
	Scripts []*Script

	printer *Printer
}

// CompileUnit compiles one unit. opts.Locals seeds the locals table.
func (c *Compiler) CompileUnit(src *Source, opts ParseOptions) (*Script, error) {
	c.trace(src.Name, StageLex)
	if err := src.Lex(); err != nil {
		return nil, err
	}
	c.trace(src.Name, StageParse)
	script, err := Parse(src, opts)
	if err != nil {
		return nil, err
	}
	c.trace(src.Name, StageCheck)
	if err := Check(script); err != nil {
		return nil, err
	}
	return script, nil
}

// Compile compiles every source, several at a time. If any unit fails, the
// error of the first failing unit in input order is returned and units after
// it are not started.
func (c *Compiler) Compile(ctx context.Context, sources []*Source) (*Program, error) {
	scripts := make([]*Script, len(sources))
	errs := make([]error, len(sources))

	var firstFailed atomic.Int64
	firstFailed.Store(int64(len(sources)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Workers)
	for i, src := range sources {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if int64(i) > firstFailed.Load() {
				return nil
			}
			script, err := c.CompileUnit(src, ParseOptions{})
			if err != nil {
				errs[i] = err
				lowerTo(&firstFailed, int64(i))
				return nil
			}
			scripts[i] = script
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return &Program{Scripts: scripts, printer: c.printer}, nil
}

// Transpile compiles a single named unit and prints it.
func (c *Compiler) Transpile(name, code string) (string, error) {
	script, err := c.CompileUnit(NewSource(name, code), ParseOptions{})
	if err != nil {
		return "", err
	}
	return c.printer.PrintScript(script), nil
}

// Print renders every script of the program in order.
func (p *Program) Print() string {
	printer := p.printer
	if printer == nil {
		printer = NewPrinter(PrinterOptions{})
	}
	var b strings.Builder
	for _, script := range p.Scripts {
		if printer.opts.Headers {
			b.WriteString("/// ")
			b.WriteString(script.Name)
			b.WriteString(":\n")
		}
		b.WriteString(printer.PrintScript(script))
	}
	return b.String()
}

func (c *Compiler) trace(unit string, stage Stage) {
	if c.config.Trace != nil {
		c.config.Trace(unit, stage)
	}
}

func lowerTo(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}
