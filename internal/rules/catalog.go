package rules

import (
	_ "embed"
	"os"
	"sort"
	"sync"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Catalog describes the events and methods of the legacy component set.
type Catalog struct {
	Components map[string]ComponentSpec `yaml:"components"`
}

type ComponentSpec struct {
	Events  map[string][]string `yaml:"events,omitempty"`
	Methods map[string]string   `yaml:"methods,omitempty"`
}

// LoadCatalog decodes a catalog document and checks its method roles.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Errorf("decoding catalog: %w", err)
	}
	for typ, spec := range c.Components {
		for name, kind := range spec.Methods {
			if r, ok := RoleOf(kind); !ok || (r != RoleStatement && r != RoleExpression) {
				return nil, errors.Errorf("catalog: method %s.%s has role %q, want statement or expression", typ, name, kind)
			}
		}
	}
	return &c, nil
}

// LoadCatalogFile reads and decodes the catalog at path.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := LoadCatalog(data)
	if err != nil {
		return nil, errors.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Merge overlays other onto c member by member.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	if c.Components == nil {
		c.Components = make(map[string]ComponentSpec)
	}
	for typ, spec := range other.Components {
		cur := c.Components[typ]
		if cur.Events == nil {
			cur.Events = make(map[string][]string)
		}
		if cur.Methods == nil {
			cur.Methods = make(map[string]string)
		}
		for name, params := range spec.Events {
			cur.Events[name] = params
		}
		for name, kind := range spec.Methods {
			cur.Methods[name] = kind
		}
		c.Components[typ] = cur
	}
}

// Types returns the component types named by the catalog, sorted.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.Components))
	for typ := range c.Components {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Descriptors expands the catalog into event, method and generic method
// descriptors. Genus names follow the legacy convention Type-Member and
// Type-Type-Member for the generic form.
func (c *Catalog) Descriptors() []*Descriptor {
	var out []*Descriptor
	for _, typ := range c.Types() {
		spec := c.Components[typ]
		for name, params := range spec.Events {
			out = append(out, &Descriptor{
				Genus:         typ + "-" + name,
				Type:          "component_event",
				Role:          RoleDeclaration,
				Strategy:      StrategyComponentEvent,
				ComponentType: typ,
				MemberName:    name,
				ParamNames:    append([]string(nil), params...),
			})
		}
		for name, kind := range spec.Methods {
			role, _ := RoleOf(kind)
			out = append(out,
				&Descriptor{
					Genus:         typ + "-" + name,
					Type:          "component_method",
					Role:          role,
					Strategy:      StrategyComponentMethod,
					ComponentType: typ,
					MemberName:    name,
				},
				&Descriptor{
					Genus:         "Type-" + typ + "-" + name,
					Type:          "component_method",
					Role:          role,
					Strategy:      StrategyGenericMethod,
					ComponentType: typ,
					MemberName:    name,
				},
			)
		}
	}
	return out
}

// DefaultCatalog returns a fresh copy of the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(embeddedCatalog)
}

// Build assembles a rule table from the built-in genera, the embedded
// catalog, any extra catalogs (later ones win) and the point-fixes.
func Build(extra ...*Catalog) (*Table, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	for _, e := range extra {
		c.Merge(e)
	}
	t := NewTable()
	for _, d := range builtins() {
		t.Add(d)
	}
	for _, d := range c.Descriptors() {
		t.Add(d)
	}
	for _, d := range pointFixes() {
		t.Add(d)
	}
	return t, nil
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return Build()
})

// Default returns the shared table built from the embedded catalog. The
// table is never mutated after construction.
func Default() *Table {
	t, err := defaultTable()
	if err != nil {
		panic(errors.Errorf("embedded catalog: %w", err))
	}
	return t
}
