// Package converter is the entry point for converting legacy App Inventor
// screens: block documents (.blk to .bky) and component sidecars (.scm).
package converter

import (
	"github.com/cmmoran/ai1convert/internal/blocks"
	"github.com/cmmoran/ai1convert/internal/components"
	"github.com/cmmoran/ai1convert/internal/diag"
	"github.com/cmmoran/ai1convert/internal/model"
	"github.com/cmmoran/ai1convert/internal/rules"
)

type (
	BlocksResult     = blocks.Result
	ComponentsResult = components.Result
	Upgrade          = components.Upgrade
	Diagnostic       = diag.Diagnostic
	Severity         = diag.Severity
	FeatureSet       = model.FeatureSet
	Rule             = rules.Descriptor
)

const (
	SeveritySystem  = diag.SeveritySystem
	SeverityProject = diag.SeverityProject
	SeverityWarning = diag.SeverityWarning
)

// Converter converts screens with one rule table. It holds no per-document
// state and may be reused.
type Converter struct {
	Opts  *Options
	table *rules.Table
}

func New(opts ...Option) (*Converter, error) {
	o := NewOptions()
	for _, opt := range opts {
		opt(o)
	}
	return NewWithOpts(o)
}

// NewWithOpts builds the rule table, merging any catalogs named in o.
func NewWithOpts(o *Options) (*Converter, error) {
	if o == nil {
		o = NewOptions()
	}
	if len(o.CatalogFiles) == 0 {
		return &Converter{Opts: o, table: rules.Default()}, nil
	}
	extra := make([]*rules.Catalog, 0, len(o.CatalogFiles))
	for _, f := range o.CatalogFiles {
		c, err := rules.LoadCatalogFile(f)
		if err != nil {
			return nil, err
		}
		extra = append(extra, c)
	}
	table, err := rules.Build(extra...)
	if err != nil {
		return nil, err
	}
	return &Converter{Opts: o, table: table}, nil
}

// Rules returns the descriptor of every genus the converter knows, sorted by
// genus.
func (c *Converter) Rules() []*Rule {
	genera := c.table.Genera()
	out := make([]*Rule, 0, len(genera))
	for _, g := range genera {
		if d, ok := c.table.Lookup(g); ok {
			out = append(out, d)
		}
	}
	return out
}

// Blocks converts one screen's legacy block document. file names the source
// in diagnostics.
func (c *Converter) Blocks(screen, file, text string) (*BlocksResult, error) {
	return blocks.Convert(screen, file, text, c.table)
}

// Components upgrades one screen's sidecar. features should come from the
// same screen's Blocks result and may be nil.
func (c *Converter) Components(text string, features *FeatureSet) (*ComponentsResult, error) {
	return components.Convert(text, features)
}

// SeverityOf classifies a conversion error.
func SeverityOf(err error) Severity { return diag.SeverityOf(err) }

// Diagnose turns a document-level error into a diagnostic for screen and
// file.
func Diagnose(screen, file string, err error) []Diagnostic {
	c := diag.NewCollector(screen, file)
	c.Record(err)
	return c.Diagnostics()
}

// HasProjectErrors reports whether any of ds is a project error.
func HasProjectErrors(ds []Diagnostic) bool { return diag.HasProjectErrors(ds) }
