package converter

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		outFile string
		screen  string
	}{
		{name: "project", opts: []Option{WithInFile("legacy/HelloPurr.zip")}, outFile: "HelloPurr.aia", screen: "HelloPurr"},
		{name: "blocks", opts: []Option{WithInFile("Screen2.blk")}, outFile: "Screen2.bky", screen: "Screen2"},
		{name: "components", opts: []Option{WithInFile("Screen2.scm")}, outFile: "Screen2.scm", screen: "Screen2"},
		{name: "explicit", opts: []Option{WithInFile("Screen2.blk"), WithOutFile("out.bky"), WithScreen("Main")}, outFile: "out.bky", screen: "Main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			for _, opt := range tt.opts {
				opt(o)
			}
			require.NoError(t, o.Normalize())
			assert.Equal(t, tt.outFile, o.OutFile)
			assert.Equal(t, tt.screen, o.Screen)
			assert.True(t, filepath.IsAbs(o.OutDir))
			assert.Equal(t, DefaultInfoScreen, o.InfoScreen)
			assert.Equal(t, DefaultVersion, o.ConverterVersion)
		})
	}
}

func TestNormalizeRequiresInput(t *testing.T) {
	assert.EqualError(t, NewOptions().Normalize(), "no input file")
}

func TestOutPath(t *testing.T) {
	o := NewOptions()
	WithOutDir("/tmp/out/")(o)
	WithOutFile("HelloPurr.aia")(o)
	assert.Equal(t, "/tmp/out/HelloPurr.aia", o.OutPath())
}

func TestNewWithCatalogFiles(t *testing.T) {
	_, err := New(WithCatalogFiles(" " + filepath.Join(t.TempDir(), "missing.yaml") + " "))
	require.Error(t, err)

	c, err := New()
	require.NoError(t, err)
	res, err := c.Blocks("Screen1", "Screen1.blk", "")
	require.Error(t, err)
	assert.Equal(t, SeverityProject, SeverityOf(err))
	assert.True(t, HasProjectErrors(res.Diagnostics))
}

func TestDiagnose(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	_, err = c.Components(`{"Properties":{"$Name":"Screen1","$Type":"Form","$Version":"14","$Components":[{"$Name":"Ball1","$Type":"Ball","$Version":"1"}]}}`, nil)
	require.Error(t, err)

	ds := Diagnose("Screen1", "Screen1.scm", err)
	require.Len(t, ds, 1)
	assert.Equal(t, SeverityProject, ds[0].Severity)
	assert.Equal(t, "Screen1", ds[0].Screen)
	assert.Equal(t, "Screen1.scm", ds[0].File)
	assert.Empty(t, Diagnose("Screen1", "Screen1.scm", nil))
}

func TestRules(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	rs := c.Rules()
	require.NotEmpty(t, rs)
	assert.True(t, slices.IsSortedFunc(rs, func(a, b *Rule) int { return strings.Compare(a.Genus, b.Genus) }))

	i := slices.IndexFunc(rs, func(r *Rule) bool { return r.Genus == "string-append" })
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "text_join", rs[i].Type)
	assert.Equal(t, "expression", rs[i].Role.String())
}
