package manifest

import (
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Diagnostic is a reported condition as stored in the manifest.
type Diagnostic struct {
	Severity string `yaml:"severity" json:"severity"`
	Screen   string `yaml:"screen,omitempty" json:"screen,omitempty"`
	File     string `yaml:"file,omitempty" json:"file,omitempty"`
	NodeID   int    `yaml:"node_id,omitempty" json:"node_id,omitempty"`
	Label    string `yaml:"label,omitempty" json:"label,omitempty"`
	Message  string `yaml:"message" json:"message"`
}

// Screen summarises the conversion of one screen.
type Screen struct {
	Name     string   `yaml:"name" json:"name"`
	Blocks   int      `yaml:"blocks" json:"blocks"`
	TopLevel int      `yaml:"top_level" json:"top_level"`
	Orphans  int      `yaml:"orphans,omitempty" json:"orphans,omitempty"`
	Upgrades []string `yaml:"upgrades,omitempty" json:"upgrades,omitempty"`
}

// Run records one conversion of a project.
type Run struct {
	Source      string       `yaml:"source" json:"source"`
	Output      string       `yaml:"output,omitempty" json:"output,omitempty"`
	Version     string       `yaml:"converter_version" json:"converter_version"`
	Time        time.Time    `yaml:"time" json:"time"`
	Written     bool         `yaml:"written" json:"written"`
	Files       int          `yaml:"files" json:"files"`
	Screens     []Screen     `yaml:"screens,omitempty" json:"screens,omitempty"`
	Diagnostics []Diagnostic `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// Blocks returns the number of blocks converted across all screens.
func (r Run) Blocks() int {
	n := 0
	for _, s := range r.Screens {
		n += s.Blocks
	}
	return n
}

// Manifest keeps the history of conversion runs.
type Manifest struct {
	Runs []Run `yaml:"runs" json:"runs"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("write manifest: %w", err)
	}

	return nil
}

// AddRun appends a run.
func (m *Manifest) AddRun(r Run) {
	m.Runs = append(m.Runs, r)
}

// Latest returns the most recent run of source and the one before it. Either
// may be nil. An empty source matches every run.
func (m *Manifest) Latest(source string) (current, previous *Run) {
	for i := len(m.Runs) - 1; i >= 0; i-- {
		r := &m.Runs[i]
		if source != "" && r.Source != source {
			continue
		}
		if current == nil {
			current = r
			continue
		}
		previous = r
		break
	}
	return current, previous
}
