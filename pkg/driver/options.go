package driver

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
)

// OutputFormat selects how the final variable table is printed.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatText OutputFormat = "text"
)

// IsValid reports whether the format is recognised.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatText:
		return true
	default:
		return false
	}
}

// RunOptions configures one pipeline run.
type RunOptions struct {
	Format  OutputFormat
	Check   bool
	Verbose bool
}

// DefaultRunOptions prints the text report and skips the declaration check.
func DefaultRunOptions() RunOptions {
	return RunOptions{Format: FormatText}
}

// OptionLayer is one layer of manifest options. Unset fields inherit from the
// layer below, so a target can switch off a flag its defaults turn on.
type OptionLayer struct {
	Format  OutputFormat `yaml:"format"`
	Check   *bool        `yaml:"check"`
	Verbose *bool        `yaml:"verbose"`
}

// apply returns o with the layer's set fields written over it.
func (l *OptionLayer) apply(o RunOptions) (RunOptions, error) {
	if l == nil {
		return o, nil
	}
	if err := mergo.Merge(&o, RunOptions{Format: l.Format}, mergo.WithOverride); err != nil {
		return RunOptions{}, err
	}
	if l.Check != nil {
		o.Check = *l.Check
	}
	if l.Verbose != nil {
		o.Verbose = *l.Verbose
	}
	return o, nil
}

func (l OptionLayer) normalize() OptionLayer {
	l.Format = OutputFormat(strings.ToLower(strings.TrimSpace(string(l.Format))))
	return l
}

func (l OptionLayer) validate() string {
	if l.Format != "" && !l.Format.IsValid() {
		return fmt.Sprintf("unsupported format %q (want json, yaml or text)", l.Format)
	}
	return ""
}

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(name string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	if !f.IsValid() {
		return "", fmt.Errorf("unsupported format %q (want json, yaml or text)", name)
	}
	return f, nil
}
