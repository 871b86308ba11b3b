package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgomes/tinyscript/tiny"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"tiny", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"tiny", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"tiny"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildCommandPrintsTranspiledSource(t *testing.T) {
	scriptPath := writeScript(t, "var x=1; f( x )")

	out, err := captureStdout(t, func() error {
		return runCLI([]string{"tiny", "build", scriptPath})
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if out != "var x = 1;\nf(x);\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestBuildCommandMarksLocals(t *testing.T) {
	scriptPath := writeScript(t, "var x = 1; f(x, y)")

	out, err := captureStdout(t, func() error {
		return buildCommand([]string{"-mark-locals", scriptPath})
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if out != "var x = 1;\nf(/* local */ x, y);\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestBuildCommandWritesOutputFile(t *testing.T) {
	scriptPath := writeScript(t, "a = b * (c + d)")
	outPath := filepath.Join(t.TempDir(), "out.tiny")

	out, err := captureStdout(t, func() error {
		return buildCommand([]string{"-o", outPath, scriptPath})
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(out, "Transpiled 1 unit(s)") {
		t.Fatalf("unexpected stdout: %q", out)
	}
	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got := string(written); got != "a = b * (c + d);\n" {
		t.Fatalf("unexpected output file: %q", got)
	}
}

func TestBuildCommandReportsCodeFrame(t *testing.T) {
	scriptPath := writeScript(t, "a = 1\nb = @")

	_, err := captureStdout(t, func() error {
		return buildCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected compile failure")
	}
	if !errors.Is(err, tiny.ErrUnknownCharacter) {
		t.Fatalf("expected unknown character error, got %v", err)
	}
	message := err.Error()
	if !strings.Contains(message, "compile failed") {
		t.Fatalf("missing prefix: %q", message)
	}
	if !strings.Contains(message, "line 2, column 5") || !strings.Contains(message, "b = @") {
		t.Fatalf("missing code frame: %q", message)
	}
}

func TestBuildCommandRequiresSources(t *testing.T) {
	t.Chdir(t.TempDir())

	err := buildCommand(nil)
	if err == nil {
		t.Fatalf("expected missing source error")
	}
	if !strings.Contains(err.Error(), "source path or tiny.yaml required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildCommandRejectsNegativeWorkers(t *testing.T) {
	scriptPath := writeScript(t, "a = 1")

	err := buildCommand([]string{"-workers", "-1", scriptPath})
	if err == nil {
		t.Fatalf("expected workers error")
	}
	if !strings.Contains(err.Error(), "workers must not be negative") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildCommandUsesProjectFile(t *testing.T) {
	dir := writeProject(t, "sources:\n  - src/*.tiny\noutput: program.out\n")

	if _, err := captureStdout(t, func() error {
		return buildCommand([]string{"-project", filepath.Join(dir, tiny.ProjectFileName)})
	}); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	written, err := os.ReadFile(filepath.Join(dir, "program.out"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "/// " + filepath.Join(dir, "src", "a.tiny") + ":\n" +
		"var a = 1;\n" +
		"/// " + filepath.Join(dir, "src", "b.tiny") + ":\n" +
		"f(b);\n"
	if got := string(written); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildCommandDetectsProjectFile(t *testing.T) {
	dir := writeProject(t, "sources:\n  - src/*.tiny\nprinter:\n  headers: false\n")
	t.Chdir(dir)

	out, err := captureStdout(t, func() error {
		return buildCommand(nil)
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if out != "var a = 1;\nf(b);\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestBuildCommandFlagsOverrideProject(t *testing.T) {
	dir := writeProject(t, "sources:\n  - src/*.tiny\nprinter:\n  headers: true\n")

	out, err := captureStdout(t, func() error {
		return buildCommand([]string{"-project", filepath.Join(dir, tiny.ProjectFileName), "-headers=false"})
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if out != "var a = 1;\nf(b);\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestCheckCommandReportsSuccess(t *testing.T) {
	dir := writeProject(t, "sources:\n  - src/*.tiny\n")

	out, err := captureStdout(t, func() error {
		return checkCommand([]string{"-v", "-project", filepath.Join(dir, tiny.ProjectFileName)})
	})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "No errors in 2 unit(s)") {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestCheckCommandRejectsLoopControlOutsideLoop(t *testing.T) {
	scriptPath := writeScript(t, "if a continue")

	_, err := captureStdout(t, func() error {
		return checkCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected semantic error")
	}
	if !errors.Is(err, tiny.ErrIllegalContinue) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckCommandRejectsBreakInWhileLoop(t *testing.T) {
	scriptPath := writeScript(t, "while (a) break")

	_, err := captureStdout(t, func() error {
		return checkCommand([]string{scriptPath})
	})
	if !errors.Is(err, tiny.ErrIllegalBreak) {
		t.Fatalf("expected illegal break, got %v", err)
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	scriptPath := writeScript(t, "var value = 1\nf(value)")

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("analyzeCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", out)
	}
}

func TestAnalyzeCommandReportsUnreachableStatements(t *testing.T) {
	scriptPath := writeScript(t, "for (;;a) {\n  break;\n  f()\n}")

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected analyze command to report lint failures")
	}
	if !strings.Contains(err.Error(), "analysis found 1 issue(s)") {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	if !strings.Contains(out, ":3:3: unreachable statement") {
		t.Fatalf("expected unreachable statement warning, got %q", out)
	}
}

func TestAnalyzeCommandReportsUnusedLocals(t *testing.T) {
	scriptPath := writeScript(t, "var unused = 1\nf()")

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected analyze command to report lint failures")
	}
	if !strings.Contains(out, ":1:5: local `unused` is declared but never used") {
		t.Fatalf("expected unused local warning, got %q", out)
	}
}

func TestAnalyzeScriptWarningsFollowsBranches(t *testing.T) {
	code := "for (;;c) {\n  if d break; else continue;\n  g()\n}\nif a exit\nh()\nif b exit; else return 1\nk()"
	script, err := tiny.NewCompiler(tiny.Config{}).CompileUnit(tiny.NewSource("branches", code), tiny.ParseOptions{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	warnings := analyzeScriptWarnings(script)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %#v", warnings)
	}
	want := []struct{ line, column int }{{3, 3}, {8, 1}}
	for i, w := range want {
		got := warnings[i]
		if got.Pos.Line != w.line || got.Pos.Column != w.column || got.Message != "unreachable statement" {
			t.Fatalf("unexpected warning %d: %#v", i, got)
		}
	}
}

func TestAnalyzeCommandRequiresScriptPath(t *testing.T) {
	err := analyzeCommand(nil)
	if err == nil {
		t.Fatalf("expected script path error")
	}
	if !strings.Contains(err.Error(), "script path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDumpCommandPrintsTree(t *testing.T) {
	scriptPath := writeScript(t, "var x = 1; f(x)")

	out, err := captureStdout(t, func() error {
		return dumpCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if out != "Var(x, Number(1))\nCall(Ident(f), Local(x))\n" {
		t.Fatalf("unexpected dump: %q", out)
	}
}

func TestDumpCommandRawSkipsLocalTagging(t *testing.T) {
	scriptPath := writeScript(t, "var x = 1; f(x)")

	out, err := captureStdout(t, func() error {
		return dumpCommand([]string{"-raw", scriptPath})
	})
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if !strings.Contains(out, "Call(Ident(f), Ident(x))") {
		t.Fatalf("unexpected dump: %q", out)
	}
}

func TestDumpCommandPrintsTokens(t *testing.T) {
	scriptPath := writeScript(t, "a += 1")

	out, err := captureStdout(t, func() error {
		return dumpCommand([]string{"-tokens", scriptPath})
	})
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 tokens, got %q", out)
	}
	if lines[0] != "[L1,c1]\tIDENT\tidentifier `a`" {
		t.Fatalf("unexpected first token line: %q", lines[0])
	}
	if !strings.Contains(lines[3], "end of file") {
		t.Fatalf("unexpected last token line: %q", lines[3])
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.tiny")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// writeProject lays out a project directory with two units under src/.
func writeProject(t *testing.T, project string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatalf("mkdir src: %v", err)
	}
	files := map[string]string{
		tiny.ProjectFileName:              project,
		filepath.Join("src", "a.tiny"):    "var a = 1",
		filepath.Join("src", "b.tiny"):    "f(b)",
		filepath.Join("src", "notes.txt"): "not a unit",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
