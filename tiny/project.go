package tiny

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ProjectFileName is the project file looked up by the command line tool.
const ProjectFileName = "tiny.yaml"

// ErrInvalidProject is returned when a project file fails validation.
var ErrInvalidProject = errors.New("invalid project file")

// Project describes a set of units compiled together, as read from a
// tiny.yaml file.
type Project struct {
	// Sources lists unit paths; glob patterns are expanded.
	Sources []string       `yaml:"sources"`
	Output  string         `yaml:"output"`
	Workers int            `yaml:"workers"`
	Printer ProjectPrinter `yaml:"printer"`

	// Dir is the directory holding the project file. Relative paths are
	// resolved against it.
	Dir string `yaml:"-"`
}

type ProjectPrinter struct {
	Indent     string `yaml:"indent"`
	MarkLocals bool   `yaml:"mark_locals"`
	// Headers defaults to true.
	Headers *bool `yaml:"headers"`
}

// LoadProject reads and validates a project file. Variables from a .env
// file next to it, then from the environment, are expanded in paths.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var project Project
	if err := yaml.UnmarshalWithOptions(data, &project, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	project.Dir = filepath.Dir(abs)

	env, err := loadProjectEnv(project.Dir)
	if err != nil {
		return nil, err
	}
	expand := func(s string) string {
		return os.Expand(s, func(key string) string {
			if v, ok := env[key]; ok {
				return v
			}
			return os.Getenv(key)
		})
	}
	for i, src := range project.Sources {
		project.Sources[i] = expand(src)
	}
	project.Output = expand(project.Output)

	if err := project.validate(); err != nil {
		return nil, err
	}
	return &project, nil
}

func loadProjectEnv(dir string) (map[string]string, error) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return env, nil
}

func (p *Project) validate() error {
	if len(p.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalidProject)
	}
	for i, src := range p.Sources {
		if src == "" {
			return fmt.Errorf("%w: source %d is empty", ErrInvalidProject, i+1)
		}
		if _, err := filepath.Match(src, ""); err != nil {
			return fmt.Errorf("%w: source %q: %v", ErrInvalidProject, src, err)
		}
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidProject)
	}
	return nil
}

// Config returns the compiler configuration the project asks for.
func (p *Project) Config() Config {
	headers := true
	if p.Printer.Headers != nil {
		headers = *p.Printer.Headers
	}
	return Config{
		Workers: p.Workers,
		Printer: PrinterOptions{
			Indent:     p.Printer.Indent,
			MarkLocals: p.Printer.MarkLocals,
			Headers:    headers,
		},
	}
}

// OutputPath returns the resolved output path, or "" for standard output.
func (p *Project) OutputPath() string {
	if p.Output == "" {
		return ""
	}
	return p.resolve(p.Output)
}

// SourcePaths expands the source patterns in order; the matches of one
// pattern are sorted. Files matched by several patterns are listed once.
func (p *Project) SourcePaths() ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range p.Sources {
		matches, err := filepath.Glob(p.resolve(pattern))
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("source %q matched no files", pattern)
		}
		slices.Sort(matches)
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}
	return paths, nil
}

func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) || p.Dir == "" {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// ReadSources loads each file as a unit named by its path.
func ReadSources(paths []string) ([]*Source, error) {
	sources := make([]*Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		sources = append(sources, NewSource(path, string(data)))
	}
	return sources, nil
}
