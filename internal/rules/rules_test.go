package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	table := Default()

	tests := []struct {
		genus    string
		typ      string
		role     Role
		strategy Strategy
	}{
		{"number", "math_number", RoleExpression, StrategyLeaf},
		{"argument", "", RoleInert, StrategyScopeDeclaration},
		{"def", "global_declaration", RoleDeclaration, StrategyGlobalDeclaration},
		{"define-void", "procedures_defnoreturn", RoleDeclaration, StrategyProcedureVoid},
		{"and", "logic_operation", RoleExpression, StrategyBinaryChain},
		{"color-dark-gray", "color_dark_gray", RoleExpression, StrategyLeaf},
		{"Button-Click", "component_event", RoleDeclaration, StrategyComponentEvent},
		{"Canvas-DrawCircle", "component_method", RoleStatement, StrategyComponentMethod},
		{"Type-Ball-PointInDirection", "component_method", RoleStatement, StrategyGenericMethod},
		{"Clock-Now", "component_method", RoleExpression, StrategyComponentMethod},
		{"TinyDB-GetValue", "component_method", RoleExpression, StrategyTinyDBGetValue},
		{"Type-TinyDB-GetValue", "", RoleExpression, StrategyUnimplemented},
		{"Screen-OpenScreenAnimation", "component_set_get", RoleStatement, StrategyScreenAnimation},
	}
	for _, tt := range tests {
		t.Run(tt.genus, func(t *testing.T) {
			d, ok := table.Lookup(tt.genus)
			require.True(t, ok)
			assert.Equal(t, tt.typ, d.Type)
			assert.Equal(t, tt.role, d.Role)
			assert.Equal(t, tt.strategy, d.Strategy)
		})
	}

	_, ok := table.Lookup("no-such-genus")
	require.False(t, ok)
}

func TestDeclarationGenera(t *testing.T) {
	table := Default()
	var got []string
	for _, g := range []string{"def", "define", "define-void", "Screen-Initialize", "argument", "getter", "foreach", "bogus"} {
		if table.IsDeclaration(g) {
			got = append(got, g)
		}
	}
	want := []string{"def", "define", "define-void", "Screen-Initialize"}
	require.Empty(t, cmp.Diff(want, got))
}

func TestEventParams(t *testing.T) {
	d, ok := Default().Lookup("Screen-ErrorOccurred")
	require.True(t, ok)
	require.Equal(t, []string{"component", "functionName", "errorNumber", "message"}, d.ParamNames)
	require.Equal(t, "Screen", d.ComponentType)
	require.Equal(t, "ErrorOccurred", d.MemberName)
}

func TestBuildWithExtraCatalog(t *testing.T) {
	extra, err := LoadCatalog([]byte(`
components:
  Pedometer:
    events:
      WalkStep: [walkSteps, distance]
    methods:
      Reset: statement
  Clock:
    methods:
      Now: statement
`))
	require.NoError(t, err)

	table, err := Build(extra)
	require.NoError(t, err)

	d, ok := table.Lookup("Pedometer-WalkStep")
	require.True(t, ok)
	require.Equal(t, []string{"walkSteps", "distance"}, d.ParamNames)

	_, ok = table.Lookup("Type-Pedometer-Reset")
	require.True(t, ok)

	d, ok = table.Lookup("Clock-Now")
	require.True(t, ok)
	require.Equal(t, RoleStatement, d.Role, "later catalogs override members")

	d, ok = table.Lookup("Clock-Timer")
	require.True(t, ok, "merging keeps untouched members")
	require.Equal(t, RoleDeclaration, d.Role)

	orig, ok := Default().Lookup("Clock-Now")
	require.True(t, ok)
	require.Equal(t, RoleExpression, orig.Role, "the shared table is not affected")
}

func TestLoadCatalogRejectsBadRole(t *testing.T) {
	_, err := LoadCatalog([]byte("components:\n  Ball:\n    methods:\n      Bounce: sometimes\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Ball.Bounce")
}

func TestRenameMember(t *testing.T) {
	assert.Equal(t, "Loop", RenameMember("Player", "IsLooping", "property"))
	assert.Equal(t, "IsLooping", RenameMember("Player", "IsLooping", "method"))
	assert.Equal(t, "Tweet", RenameMember("Twitter", "SetStatus", "method"))
	assert.Equal(t, "Text", RenameMember("Button", "Text", "property"))
}

func TestOpField(t *testing.T) {
	d, ok := Default().Lookup("number-modulo")
	require.True(t, ok)
	require.Equal(t, "OP", d.OpField())
	require.NotNil(t, d.Inline)
	require.False(t, *d.Inline)
}
