package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/mgomes/tinyscript/tiny"
)

func dumpCommand(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	tokens := fs.Bool("tokens", false, "print the token stream instead of the syntax tree")
	raw := fs.Bool("raw", false, "skip the semantic pass, leaving locals untagged")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("tiny dump: script path required")
	}
	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	src, err := readSource(scriptPath)
	if err != nil {
		return err
	}
	sources := []*tiny.Source{src}

	if *tokens {
		if err := src.Lex(); err != nil {
			return newCompileError(err, sources)
		}
		for _, tok := range src.Tokens() {
			fmt.Printf("%s\t%s\t%s\n", tok.Pos, tok.Type, tok)
		}
		return nil
	}

	var script *tiny.Script
	if *raw {
		script, err = tiny.Parse(src, tiny.ParseOptions{})
	} else {
		script, err = tiny.NewCompiler(tiny.Config{}).CompileUnit(src, tiny.ParseOptions{})
	}
	if err != nil {
		return newCompileError(err, sources)
	}
	for _, stmt := range script.Root.Statements {
		fmt.Println(tiny.Dump(stmt))
	}
	return nil
}
