// Package rules holds the per-genus conversion descriptors that drive the
// block rewriter.
package rules

import (
	"sort"
)

type Role int

const (
	RoleInert Role = iota
	RoleDeclaration
	RoleStatement
	RoleExpression
)

func (r Role) String() string {
	switch r {
	case RoleDeclaration:
		return "declaration"
	case RoleStatement:
		return "statement"
	case RoleExpression:
		return "expression"
	default:
		return "inert"
	}
}

// RoleOf parses a catalog role name.
func RoleOf(s string) (Role, bool) {
	switch s {
	case "declaration":
		return RoleDeclaration, true
	case "statement":
		return RoleStatement, true
	case "expression":
		return RoleExpression, true
	case "inert", "":
		return RoleInert, true
	}
	return RoleInert, false
}

// Strategy selects the rewrite routine for a descriptor.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyScopeDeclaration
	StrategyLeaf
	StrategyVariableGetter
	StrategyComponentGetter
	StrategyComponentSetter
	StrategyComponentEvent
	StrategyComponentMethod
	StrategyGenericComponent
	StrategyGenericGetter
	StrategyGenericSetter
	StrategyGenericMethod
	StrategyGlobalDeclaration
	StrategyGlobalGetter
	StrategyGlobalSetter
	StrategyOperator
	StrategyBinaryChain
	StrategyIf
	StrategyIfElse
	StrategyChoose
	StrategyWhile
	StrategyForEach
	StrategyForRange
	StrategyProcedureVoid
	StrategyProcedureReturn
	StrategyProcedureCall
	StrategyNoneColor
	StrategyTinyDBGetValue
	StrategyScreenAnimation
	StrategyUnimplemented
)

// Descriptor is the immutable conversion rule for one legacy genus.
type Descriptor struct {
	Genus    string
	Type     string // target block type
	Role     Role
	Strategy Strategy

	// Leaf literals
	FieldName  string
	FieldValue string // overrides the label when set (colors, booleans)

	// Operators
	OpFieldName          string // defaults to "OP"
	OpFieldValue         string
	ArgNames             []string
	ExpandableOutputName string // role prefix for expandable sockets, e.g. "ADD"
	MutatorItems         int    // fixed mutation item count when non-zero
	Inline               *bool

	// Component members
	ComponentType string
	MemberName    string
	ParamNames    []string // event parameter names, in socket order

	Message string // explanation for unimplemented conversions
}

// IsDeclaration reports whether nodes of this genus introduce a top-level
// declaration.
func (d *Descriptor) IsDeclaration() bool {
	return d != nil && d.Role == RoleDeclaration
}

// OpField returns the operator field name, defaulting to OP.
func (d *Descriptor) OpField() string {
	if d.OpFieldName != "" {
		return d.OpFieldName
	}
	return "OP"
}

// Table maps genus names to descriptors. It is read-only once built.
type Table struct {
	byGenus map[string]*Descriptor
}

func NewTable() *Table {
	return &Table{byGenus: make(map[string]*Descriptor)}
}

func (t *Table) Add(d *Descriptor) {
	t.byGenus[d.Genus] = d
}

// Lookup returns the descriptor for genus.
func (t *Table) Lookup(genus string) (*Descriptor, bool) {
	d, ok := t.byGenus[genus]
	return d, ok
}

// IsDeclaration reports whether genus is a declaration; unknown genera are not.
func (t *Table) IsDeclaration(genus string) bool {
	d, _ := t.Lookup(genus)
	return d.IsDeclaration()
}

func (t *Table) Len() int {
	return len(t.byGenus)
}

// Genera returns all known genus names, sorted.
func (t *Table) Genera() []string {
	out := make([]string, 0, len(t.byGenus))
	for g := range t.byGenus {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

func boolPtr(b bool) *bool { return &b }
