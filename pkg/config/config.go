// Package config loads batch conversion files.
//
// A batch file is YAML:
//
//	jobs:
//	  - input: models/sphere_tris.obj
//	    output: out/sphere.stl
//	    format: stl_ascii   # optional, inferred from the output extension
//	    strict: false       # optional, reject unknown directives
//
// Relative paths are resolved against the directory of the batch file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/wrangle/pkg/format"
	"gopkg.in/yaml.v3"
)

// ErrNoJobs is returned for a batch file without jobs.
var ErrNoJobs = errors.New("batch has no jobs")

// Job is one conversion.
type Job struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Format string `yaml:"format,omitempty"`
	Strict bool   `yaml:"strict,omitempty"`
}

// Batch is a parsed batch file.
type Batch struct {
	Jobs []Job `yaml:"jobs"`
}

// OutputFormat returns the job's explicit format, or the one implied by
// the output extension.
func (j Job) OutputFormat() (format.Format, error) {
	if j.Format != "" {
		return format.ParseFormat(j.Format)
	}
	return format.FormatFromPath(j.Output)
}

// Parse decodes and validates a batch document.
func Parse(data []byte) (*Batch, error) {
	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(b.Jobs) == 0 {
		return nil, fmt.Errorf("config: %w", ErrNoJobs)
	}
	for i, j := range b.Jobs {
		if j.Input == "" {
			return nil, fmt.Errorf("config: job %d: input is required", i+1)
		}
		if j.Output == "" {
			return nil, fmt.Errorf("config: job %d: output is required", i+1)
		}
		if _, err := j.OutputFormat(); err != nil {
			return nil, fmt.Errorf("config: job %d: %w", i+1, err)
		}
	}
	return &b, nil
}

// Load reads a batch file and resolves its relative paths against the
// file's directory.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i := range b.Jobs {
		b.Jobs[i].Input = resolve(dir, b.Jobs[i].Input)
		b.Jobs[i].Output = resolve(dir, b.Jobs[i].Output)
	}
	return b, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
