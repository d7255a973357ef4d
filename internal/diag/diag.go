// Package diag holds the error taxonomy and the diagnostics channels shared
// by the block and component converters.
package diag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gitlab.com/tozd/go/errors"
)

type Severity int

const (
	// SeveritySystem marks an internal fault of the converter.
	SeveritySystem Severity = iota
	// SeverityProject marks input that cannot be converted as-is.
	SeverityProject
	// SeverityWarning marks something notable that is not wrong.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeveritySystem:
		return "system error"
	case SeverityProject:
		return "project error"
	default:
		return "warning"
	}
}

// Diagnostic is one reported condition with enough context to locate the
// offending legacy block.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Screen   string   `json:"screen,omitempty" yaml:"screen,omitempty"`
	File     string   `json:"file,omitempty" yaml:"file,omitempty"`
	NodeID   int      `json:"node_id,omitempty" yaml:"node_id,omitempty"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	switch d.Severity {
	case SeveritySystem:
		sb.WriteString("System error")
	case SeverityProject:
		sb.WriteString("Project error")
	default:
		sb.WriteString("Warning")
	}
	if d.Screen != "" {
		sb.WriteString(" from screen ")
		sb.WriteString(d.Screen)
	}
	if d.File != "" {
		sb.WriteString(" in file ")
		sb.WriteString(d.File)
	}
	if d.NodeID > 0 {
		if d.Label != "" {
			fmt.Fprintf(&sb, " at block %s (id=%d)", d.Label, d.NodeID)
		} else {
			fmt.Fprintf(&sb, " at block id=%d", d.NodeID)
		}
	}
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	return sb.String()
}

// Collector accumulates diagnostics for one document.
type Collector struct {
	Screen string
	File   string

	items []Diagnostic
	errs  *multierror.Error
}

func NewCollector(screen, file string) *Collector {
	return &Collector{Screen: screen, File: file}
}

func (c *Collector) add(d Diagnostic) {
	if d.Screen == "" {
		d.Screen = c.Screen
	}
	if d.File == "" {
		d.File = c.File
	}
	c.items = append(c.items, d)
}

// System records an internal fault for a single node. The error is also
// kept in the combined error returned by Err.
func (c *Collector) System(id int, label string, err error) {
	c.add(Diagnostic{Severity: SeveritySystem, NodeID: id, Label: label, Message: err.Error()})
	c.errs = multierror.Append(c.errs, errors.Errorf("block %d: %w", id, err))
}

func (c *Collector) Project(msg string) {
	c.add(Diagnostic{Severity: SeverityProject, Message: msg})
}

func (c *Collector) Warning(msg string) {
	c.add(Diagnostic{Severity: SeverityWarning, Message: msg})
}

// Record adds the diagnostic carried by a typed converter error.
func (c *Collector) Record(err error) {
	if err == nil {
		return
	}
	d := Diagnostic{Severity: SeverityOf(err), Message: err.Error()}
	var ce *ConversionError
	if errors.As(err, &ce) {
		d.NodeID, d.Label = ce.NodeID, ce.Label
	}
	c.add(d)
}

func (c *Collector) Diagnostics() []Diagnostic {
	return c.items
}

// Count returns the number of diagnostics with severity s.
func (c *Collector) Count(s Severity) int {
	n := 0
	for _, d := range c.items {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Err returns the node-level failures as one error, or nil.
func (c *Collector) Err() error {
	return c.errs.ErrorOrNil()
}

// HasProjectErrors reports whether any diagnostic in ds is project level.
func HasProjectErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityProject {
			return true
		}
	}
	return false
}
