package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, m.Runs)
}

func TestLoadMalformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("runs: [\n"), 0o644))
	_, err := Load(p)
	assert.ErrorContains(t, err, "unmarshal manifest")
}

func TestSaveThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "conversions.yaml")
	want := &Manifest{}
	want.AddRun(Run{
		Source:  "HelloPurr.zip",
		Output:  "/out/HelloPurr.aia",
		Version: "1.1",
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Written: true,
		Files:   6,
		Screens: []Screen{
			{Name: "Screen1", Blocks: 6, TopLevel: 2, Upgrades: []string{"Screen1 (Form) 5 -> 14"}},
			{Name: "Screen2", Blocks: 2, TopLevel: 1},
		},
		Diagnostics: []Diagnostic{{Severity: "warning", Screen: "Screen2", File: "Screen2.blk", Message: "has 1 orphaned block assembly"}},
	})
	require.NoError(t, want.Save(p))

	got, err := Load(p)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 8, got.Runs[0].Blocks())
}

func TestLatest(t *testing.T) {
	m := &Manifest{}
	for _, src := range []string{"a.zip", "b.zip", "a.zip", "b.zip", "a.zip"} {
		m.AddRun(Run{Source: src, Files: len(m.Runs)})
	}

	tests := []struct {
		name     string
		source   string
		current  int
		previous int
	}{
		{name: "by source", source: "a.zip", current: 4, previous: 2},
		{name: "other source", source: "b.zip", current: 3, previous: 1},
		{name: "any source", source: "", current: 4, previous: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, prev := m.Latest(tt.source)
			require.NotNil(t, cur)
			require.NotNil(t, prev)
			assert.Equal(t, tt.current, cur.Files)
			assert.Equal(t, tt.previous, prev.Files)
		})
	}

	cur, prev := m.Latest("c.zip")
	assert.Nil(t, cur)
	assert.Nil(t, prev)
}
