package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is looked up from the working directory upwards.
const ManifestFileName = "pascal.yml"

// Manifest represents the parsed contents of pascal.yml.
type Manifest struct {
	Path        string
	Name        string
	Version     string
	Defaults    OptionLayer
	Targets     map[string]*TargetSpec
	TargetOrder []string

	collisions []string
}

// TargetSpec names one runnable program. Local targets only set Main; git
// targets also name a repository and at most one of Rev, Tag or Branch.
type TargetSpec struct {
	Name         string
	OriginalName string
	Main         string
	Git          string
	Rev          string
	Tag          string
	Branch       string
	Options      *OptionLayer
}

// IsGit reports whether the target's source lives in a git repository.
func (t *TargetSpec) IsGit() bool {
	return t != nil && t.Git != ""
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses pascal.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	errs.Issues = append(errs.Issues, m.collisions...)
	if issue := m.Defaults.validate(); issue != "" {
		errs.Issues = append(errs.Issues, "defaults: "+issue)
	}
	for _, key := range m.TargetOrder {
		target := m.Targets[key]
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main entrypoint", target.OriginalName))
		} else if filepath.IsAbs(target.Main) && target.IsGit() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q: main must be relative to the repository root", target.OriginalName))
		}
		refs := 0
		for _, ref := range []string{target.Rev, target.Tag, target.Branch} {
			if ref != "" {
				refs++
			}
		}
		if refs > 1 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q: specify only one of rev, tag, branch", target.OriginalName))
		}
		if refs > 0 && !target.IsGit() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q: rev, tag and branch require git", target.OriginalName))
		}
		if target.Options != nil {
			if issue := target.Options.validate(); issue != "" {
				errs.Issues = append(errs.Issues, fmt.Sprintf("target %q options: %s", target.OriginalName, issue))
			}
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var ErrNoTargets = errors.New("manifest: no targets defined")

// DefaultTarget returns the first target in manifest order.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil || len(m.TargetOrder) == 0 {
		return nil, ErrNoTargets
	}
	return m.Targets[m.TargetOrder[0]], nil
}

// FindTarget looks up a target by sanitized or original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	trimmed := strings.TrimSpace(name)
	if target, ok := m.Targets[sanitizeSegment(trimmed)]; ok {
		return target, true
	}
	for _, key := range m.TargetOrder {
		if strings.EqualFold(m.Targets[key].OriginalName, trimmed) {
			return m.Targets[key], true
		}
	}
	return nil, false
}

// GitTargets returns targets that must be fetched, in manifest order.
func (m *Manifest) GitTargets() []*TargetSpec {
	var out []*TargetSpec
	for _, key := range m.TargetOrder {
		if m.Targets[key].IsGit() {
			out = append(out, m.Targets[key])
		}
	}
	return out
}

// ResolveOptions layers a target's options over the manifest defaults.
func (m *Manifest) ResolveOptions(target *TargetSpec) (RunOptions, error) {
	opts := DefaultRunOptions()
	if m == nil {
		return opts, nil
	}
	opts, err := m.Defaults.apply(opts)
	if err != nil {
		return RunOptions{}, fmt.Errorf("manifest: merge defaults: %w", err)
	}
	if target != nil {
		if opts, err = target.Options.apply(opts); err != nil {
			return RunOptions{}, fmt.Errorf("manifest: merge options for %q: %w", target.OriginalName, err)
		}
	}
	return opts, nil
}

// ResolveMain returns the absolute path of a local target's entry file.
func (m *Manifest) ResolveMain(target *TargetSpec) (string, error) {
	if target == nil {
		return "", fmt.Errorf("manifest: nil target")
	}
	if target.IsGit() {
		return "", fmt.Errorf("manifest: target %q is fetched from git", target.OriginalName)
	}
	if filepath.IsAbs(target.Main) {
		return filepath.Clean(target.Main), nil
	}
	return filepath.Join(filepath.Dir(m.Path), target.Main), nil
}

type manifestFile struct {
	Name     string      `yaml:"name"`
	Version  string      `yaml:"version"`
	Defaults OptionLayer `yaml:"defaults"`
	Targets  targetMap   `yaml:"targets"`
}

type targetYAML struct {
	Main    string       `yaml:"main"`
	Git     string       `yaml:"git"`
	Rev     string       `yaml:"rev"`
	Tag     string       `yaml:"tag"`
	Branch  string       `yaml:"branch"`
	Options *OptionLayer `yaml:"options"`
}

type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec *targetYAML
}

// UnmarshalYAML keeps targets in document order.
func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		tm.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		entry := new(targetYAML)
		if valueNode.Kind == yaml.ScalarNode && valueNode.Tag == "!!str" {
			// shorthand: `name: path/to/main.pas`
			entry.Main = valueNode.Value
		} else if err := valueNode.Decode(entry); err != nil {
			return fmt.Errorf("manifest: target %q: %w", key, err)
		}
		items = append(items, targetMapEntry{name: key, spec: entry})
	}
	tm.items = items
	return nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:        path,
		Name:        sanitizeSegment(mf.Name),
		Version:     strings.TrimSpace(mf.Version),
		Defaults:    mf.Defaults.normalize(),
		Targets:     make(map[string]*TargetSpec, len(mf.Targets.items)),
		TargetOrder: make([]string, 0, len(mf.Targets.items)),
	}
	for _, item := range mf.Targets.items {
		original := strings.TrimSpace(item.name)
		sanitized := sanitizeSegment(original)
		if other, exists := result.Targets[sanitized]; exists {
			result.collisions = append(result.collisions, fmt.Sprintf("targets %q and %q collide after sanitization", other.OriginalName, original))
			continue
		}
		spec := &TargetSpec{
			Name:         sanitized,
			OriginalName: original,
			Main:         strings.TrimSpace(item.spec.Main),
			Git:          strings.TrimSpace(item.spec.Git),
			Rev:          strings.TrimSpace(item.spec.Rev),
			Tag:          strings.TrimSpace(item.spec.Tag),
			Branch:       strings.TrimSpace(item.spec.Branch),
		}
		if item.spec.Options != nil {
			opts := item.spec.Options.normalize()
			spec.Options = &opts
		}
		result.Targets[sanitized] = spec
		result.TargetOrder = append(result.TargetOrder, sanitized)
	}
	return result
}

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}
