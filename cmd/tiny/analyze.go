package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/mgomes/tinyscript/tiny"
)

type lintWarning struct {
	Pos     tiny.Position
	Message string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("tiny analyze: script path required")
	}

	files, err := collectTinyFiles(remaining)
	if err != nil {
		return err
	}

	compiler := tiny.NewCompiler(tiny.Config{})
	issues := 0
	for _, path := range files {
		src, err := readSource(path)
		if err != nil {
			return err
		}
		script, err := compiler.CompileUnit(src, tiny.ParseOptions{})
		if err != nil {
			return newCompileError(err, []*tiny.Source{src})
		}

		for _, warning := range analyzeScriptWarnings(script) {
			line := max(warning.Pos.Line, 1)
			column := max(warning.Pos.Column, 1)
			warningOut.Fprintf(os.Stdout, "%s:%d:%d: %s\n", path, line, column, warning.Message)
			issues++
		}
	}

	if issues == 0 {
		successOut.Fprintln(os.Stdout, "No issues found")
		return nil
	}
	return fmt.Errorf("analysis found %d issue(s)", issues)
}

func analyzeScriptWarnings(script *tiny.Script) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintStatements(script.Root.Statements, &warnings)
	warnings = append(warnings, unusedLocals(script)...)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		return warnings[i].Pos.Column < warnings[j].Pos.Column
	})

	return warnings
}

// lintStatements reports every statement following one that always leaves
// the block, and tells whether the block itself always leaves.
func lintStatements(statements []tiny.Node, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Pos:     startPos(stmt),
				Message: "unreachable statement",
			})
			continue
		}
		if statementTerminates(stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(stmt tiny.Node, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *tiny.ReturnStmt, *tiny.BreakStmt, *tiny.ContinueStmt:
		return true
	case *tiny.Block:
		return lintStatements(typed.Statements, warnings)
	case *tiny.IfStmt:
		thenTerminated := statementTerminates(typed.Then, warnings)
		if typed.Else == nil {
			return false
		}
		elseTerminated := statementTerminates(typed.Else, warnings)
		return thenTerminated && elseTerminated
	case *tiny.ForStmt:
		statementTerminates(typed.Body, warnings)
		return false
	case *tiny.WhileStmt:
		statementTerminates(typed.Body, warnings)
		return false
	case *tiny.DoWhileStmt:
		statementTerminates(typed.Body, warnings)
		return false
	default:
		return false
	}
}

// startPos finds where the source text of n begins. Suffix and infix nodes
// are positioned at their operator.
func startPos(n tiny.Node) tiny.Position {
	switch typed := n.(type) {
	case *tiny.CallExpr:
		return startPos(typed.Callee)
	case *tiny.MemberExpr:
		return startPos(typed.Object)
	case *tiny.IndexExpr:
		return startPos(typed.Object)
	case *tiny.BinaryExpr:
		return startPos(typed.Left)
	case *tiny.AssignStmt:
		return startPos(typed.Target)
	default:
		return n.Pos()
	}
}

// unusedLocals reports names declared with `var` that are never referenced.
func unusedLocals(script *tiny.Script) []lintWarning {
	used := make(map[string]bool)
	tiny.Inspect(script.Root, func(n tiny.Node) bool {
		if local, ok := n.(*tiny.Local); ok {
			used[local.Name] = true
		}
		return true
	})

	var warnings []lintWarning
	for name, pos := range script.Locals {
		if used[name] {
			continue
		}
		warnings = append(warnings, lintWarning{
			Pos:     pos,
			Message: fmt.Sprintf("local `%s` is declared but never used", name),
		})
	}
	return warnings
}
