// Job files describing a whole filter run
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"image-filter-tool/internal/filters"
)

// Job is one input image, one output path and the chain applied between them
type Job struct {
	Input   string         `toml:"input" yaml:"input"`
	Output  string         `toml:"output" yaml:"output"`
	Codec   string         `toml:"codec,omitempty" yaml:"codec,omitempty"`
	Log     LogConfig      `toml:"log" yaml:"log"`
	Filters []FilterConfig `toml:"filters" yaml:"filters"`
}

// LogConfig selects verbosity and an optional log file
type LogConfig struct {
	Debug bool   `toml:"debug" yaml:"debug"`
	File  string `toml:"file,omitempty" yaml:"file,omitempty"`
}

// FilterConfig is a filter tag with its raw positional parameters
type FilterConfig struct {
	Kind   string   `toml:"kind" yaml:"kind"`
	Params []string `toml:"params,omitempty" yaml:"params,omitempty"`
}

// Load reads a job file; the decoder is chosen from the extension
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return nil, fmt.Errorf("config: unsupported file type: %s", path)
}

// ParseTOML decodes a TOML job
func ParseTOML(data []byte) (*Job, error) {
	var job Job
	meta, err := toml.Decode(string(data), &job)
	if err != nil {
		return nil, fmt.Errorf("config: parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: unknown key %q", undecoded[0].String())
	}
	return &job, nil
}

// ParseYAML decodes a YAML job
func ParseYAML(data []byte) (*Job, error) {
	var job Job
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil {
		return nil, fmt.Errorf("config: parse YAML: %w", err)
	}
	return &job, nil
}

// Specs resolves the filter tags of the job
func (j *Job) Specs() ([]filters.Spec, error) {
	specs := make([]filters.Spec, 0, len(j.Filters))
	for i, f := range j.Filters {
		kind, err := filters.ParseKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("config: filter %d: %w", i+1, err)
		}
		specs = append(specs, filters.Spec{Kind: kind, Params: f.Params})
	}
	return specs, nil
}

// FilterConfigs converts a parsed chain back to job entries
func FilterConfigs(specs []filters.Spec) []FilterConfig {
	out := make([]FilterConfig, 0, len(specs))
	for _, spec := range specs {
		out = append(out, FilterConfig{Kind: spec.Kind.String(), Params: spec.Params})
	}
	return out
}

// Validate checks the fields a run cannot do without
func (j *Job) Validate() error {
	if j.Input == "" {
		return fmt.Errorf("config: missing input path")
	}
	if j.Output == "" {
		return fmt.Errorf("config: missing output path")
	}
	if len(j.Filters) == 0 {
		return fmt.Errorf("config: no filters given")
	}
	_, err := j.Specs()
	return err
}

// Merge overlays the non-zero fields of other onto j. Filters from other are
// appended after the ones already in j.
func (j *Job) Merge(other Job) {
	if other.Input != "" {
		j.Input = other.Input
	}
	if other.Output != "" {
		j.Output = other.Output
	}
	if other.Codec != "" {
		j.Codec = other.Codec
	}
	if other.Log.Debug {
		j.Log.Debug = true
	}
	if other.Log.File != "" {
		j.Log.File = other.Log.File
	}
	j.Filters = append(j.Filters, other.Filters...)
}

// EncodeTOML writes a job in the format Load understands
func EncodeTOML(job *Job) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(job); err != nil {
		return nil, fmt.Errorf("config: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}
