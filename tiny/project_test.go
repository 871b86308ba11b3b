package tiny

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "b.tiny"), "b()")
	writeFile(t, filepath.Join(dir, "src", "a.tiny"), "a()")
	writeFile(t, filepath.Join(dir, "main.tiny"), "main()")
	writeFile(t, filepath.Join(dir, ProjectFileName), `
sources:
  - main.tiny
  - src/*.tiny
  - src/a.tiny
output: out/bundle.tiny
workers: 2
printer:
  indent: "    "
  mark_locals: true
`)

	project, err := LoadProject(filepath.Join(dir, ProjectFileName))
	assert.NoError(t, err)

	paths, err := project.SourcePaths()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "main.tiny"),
		filepath.Join(dir, "src", "a.tiny"),
		filepath.Join(dir, "src", "b.tiny"),
	}, paths)
	assert.Equal(t, filepath.Join(dir, "out", "bundle.tiny"), project.OutputPath())

	cfg := project.Config()
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, PrinterOptions{Indent: "    ", MarkLocals: true, Headers: true}, cfg.Printer)
}

func TestLoadProjectExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "SRC_DIR=scripts\n")
	writeFile(t, filepath.Join(dir, "scripts", "x.tiny"), "x()")
	writeFile(t, filepath.Join(dir, ProjectFileName), `
sources: ["${SRC_DIR}/*.tiny"]
printer:
  headers: false
`)

	project, err := LoadProject(filepath.Join(dir, ProjectFileName))
	assert.NoError(t, err)
	paths, err := project.SourcePaths()
	assert.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "scripts", "x.tiny")}, paths)
	assert.Equal(t, "", project.OutputPath())
	assert.False(t, project.Config().Printer.Headers)
}

func TestLoadProjectValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no sources", "output: out.tiny\n"},
		{"negative workers", "sources: [a.tiny]\nworkers: -1\n"},
		{"bad pattern", "sources: ['[']\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ProjectFileName)
			writeFile(t, path, tt.content)
			_, err := LoadProject(path)
			assert.IsError(t, err, ErrInvalidProject)
		})
	}
}

func TestLoadProjectRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectFileName)
	writeFile(t, path, "sources: [a.tiny]\nbogus: 1\n")
	_, err := LoadProject(path)
	assert.Error(t, err)
}

func TestSourcePathsRequiresMatches(t *testing.T) {
	project := &Project{Sources: []string{"missing/*.tiny"}, Dir: t.TempDir()}
	_, err := project.SourcePaths()
	assert.Error(t, err)
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.tiny")
	writeFile(t, path, "a = 1")

	sources, err := ReadSources([]string{path})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(sources))
	assert.Equal(t, path, sources[0].Name)
	assert.Equal(t, "a = 1", sources[0].Code)

	_, err = ReadSources([]string{filepath.Join(dir, "nope.tiny")})
	assert.Error(t, err)
}
