package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName sits next to pascal.yml.
const LockfileName = "pascal.lock"

// Lockfile models the pascal.lock contents.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Targets   []*LockedTarget
}

// LockedTarget pins a git target to the commit that was checked out.
type LockedTarget struct {
	Name     string
	Source   string
	Commit   string
	Main     string
	Checksum string
}

// NewLockfile constructs a lockfile with metadata seeded for the provided root.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      sanitizeSegment(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Targets:   []*LockedTarget{},
	}
}

// LockfilePathFor returns the lockfile path belonging to a manifest.
func LockfilePathFor(manifest *Manifest) string {
	return filepath.Join(filepath.Dir(manifest.Path), LockfileName)
}

// Find returns the pinned entry for a target name.
func (l *Lockfile) Find(name string) (*LockedTarget, bool) {
	if l == nil {
		return nil, false
	}
	key := sanitizeSegment(name)
	for _, t := range l.Targets {
		if t != nil && t.Name == key {
			return t, true
		}
	}
	return nil, false
}

// Upsert replaces the entry with the same name or appends a new one.
func (l *Lockfile) Upsert(target *LockedTarget) {
	for i, existing := range l.Targets {
		if existing != nil && existing.Name == target.Name {
			l.Targets[i] = target
			return
		}
	}
	l.Targets = append(l.Targets, target)
}

// LoadLockfile parses pascal.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	lock.normalize()
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, refreshing metadata.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Root = sanitizeSegment(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	kept := l.Targets[:0]
	for _, t := range l.Targets {
		if t == nil {
			continue
		}
		t.Name = sanitizeSegment(t.Name)
		t.Source = strings.TrimSpace(t.Source)
		t.Commit = strings.TrimSpace(t.Commit)
		t.Main = strings.TrimSpace(t.Main)
		t.Checksum = strings.TrimSpace(t.Checksum)
		kept = append(kept, t)
	}
	l.Targets = kept
	sort.SliceStable(l.Targets, func(i, j int) bool {
		return l.Targets[i].Name < l.Targets[j].Name
	})
}

func (l *Lockfile) toDisk() lockfileDisk {
	targets := make([]lockfileTarget, 0, len(l.Targets))
	for _, t := range l.Targets {
		targets = append(targets, lockfileTarget{
			Name:     t.Name,
			Source:   t.Source,
			Commit:   t.Commit,
			Main:     t.Main,
			Checksum: t.Checksum,
		})
	}
	return lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
		Targets:   targets,
	}
}

type lockfileDisk struct {
	Root      string           `yaml:"root"`
	Generated string           `yaml:"generated"`
	Tool      string           `yaml:"tool"`
	Targets   []lockfileTarget `yaml:"targets"`
}

type lockfileTarget struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Commit   string `yaml:"commit"`
	Main     string `yaml:"main"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      sanitizeSegment(d.Root),
		Generated: strings.TrimSpace(d.Generated),
		Tool:      strings.TrimSpace(d.Tool),
		Targets:   make([]*LockedTarget, 0, len(d.Targets)),
	}
	for _, t := range d.Targets {
		lock.Targets = append(lock.Targets, &LockedTarget{
			Name:     t.Name,
			Source:   t.Source,
			Commit:   t.Commit,
			Main:     t.Main,
			Checksum: t.Checksum,
		})
	}
	return lock
}
