package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFmtCommandRequiresPath(t *testing.T) {
	err := fmtCommand(nil)
	if err == nil {
		t.Fatalf("expected path required error")
	}
	if !strings.Contains(err.Error(), "path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFmtCommandCheckDetectsUnformattedFiles(t *testing.T) {
	path := writeTinyFile(t, "if a {b=1}")
	err := fmtCommand([]string{"-check", path})
	if err == nil {
		t.Fatalf("expected formatting check failure")
	}
	if !strings.Contains(err.Error(), "need formatting") {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestFmtCommandWriteFormatsFileInPlace(t *testing.T) {
	path := writeTinyFile(t, "if a {b=1}\nwhile(x) {f(); g()}")
	if err := fmtCommand([]string{"-w", path}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}

	updated, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	want := "if (a) { b = 1; }\nwhile (x) {\n  f();\n  g();\n}\n"
	if got := string(updated); got != want {
		t.Fatalf("unexpected formatted output: %q", got)
	}
}

func TestFmtCommandPrintsFormattedOutput(t *testing.T) {
	path := writeTinyFile(t, "var a=1,b")
	out, err := captureStdout(t, func() error {
		return fmtCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("fmt command failed: %v", err)
	}
	if out != "var a = 1, b;\n" {
		t.Fatalf("unexpected stdout output: %q", out)
	}
}

func TestFmtCommandReportsParseErrors(t *testing.T) {
	path := writeTinyFile(t, "f(1,)")
	err := fmtCommand([]string{"-check", path})
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse error") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFmtCommandFormatsDirectories(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.tiny")
	second := filepath.Join(root, "nested", "b.tiny")
	skipped := filepath.Join(root, "nested", "readme.md")
	if err := os.MkdirAll(filepath.Dir(second), 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}
	if err := os.WriteFile(first, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("write first file: %v", err)
	}
	if err := os.WriteFile(second, []byte("do f() while g"), 0o644); err != nil {
		t.Fatalf("write second file: %v", err)
	}
	if err := os.WriteFile(skipped, []byte("# not a unit"), 0o644); err != nil {
		t.Fatalf("write skipped file: %v", err)
	}

	if err := fmtCommand([]string{"-w", root}); err != nil {
		t.Fatalf("fmt directory failed: %v", err)
	}
	if err := fmtCommand([]string{"-check", root}); err != nil {
		t.Fatalf("expected no formatting diffs after write, got %v", err)
	}
	untouched, err := os.ReadFile(skipped)
	if err != nil {
		t.Fatalf("read skipped file: %v", err)
	}
	if string(untouched) != "# not a unit" {
		t.Fatalf("non-source file was modified: %q", untouched)
	}
}

func TestCollectTinyFilesSortsAndDedupes(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.tiny", "a.tiny"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x = 1"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files, err := collectTinyFiles([]string{root, filepath.Join(root, "a.tiny")})
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	if filepath.Base(files[0]) != "a.tiny" || filepath.Base(files[1]) != "b.tiny" {
		t.Fatalf("unexpected order: %v", files)
	}
}

func writeTinyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.tiny")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write tiny file: %v", err)
	}
	return path
}
