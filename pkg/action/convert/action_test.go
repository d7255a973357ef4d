package convert

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/ai1convert/internal/diag"
	"github.com/cmmoran/ai1convert/pkg/converter"
	"github.com/cmmoran/ai1convert/pkg/manifest"
)

const projectDir = "src/appinventor/ai_tester/HelloPurr/"

var stamp = time.Date(2012, 3, 4, 5, 6, 0, 0, time.UTC)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// buildProject writes a legacy archive holding files, keyed by name in the
// archive, and returns its path.
func buildProject(t *testing.T, files map[string][]byte) string {
	t.Helper()
	var entries []*entry
	for name, data := range files {
		entries = append(entries, &entry{name: name, data: data, mod: stamp})
	}
	slices.SortFunc(entries, func(a, b *entry) int { return compareNames(b.name, a.name) })
	p := filepath.Join(t.TempDir(), "HelloPurr.zip")
	_, err := writeArchive(context.Background(), p, entries)
	require.NoError(t, err)
	return p
}

func legacyProject(t *testing.T) map[string][]byte {
	return map[string][]byte{
		projectDir + "Screen1.blk":              fixture(t, "Screen1.blk"),
		projectDir + "Screen1.scm":              fixture(t, "Screen1.scm"),
		projectDir + "Screen1.yail":             []byte("(define-form Screen1)"),
		projectDir + "Screen2.blk":              fixture(t, "Screen2.blk"),
		projectDir + "Screen2.scm":              fixture(t, "Screen2.scm"),
		"youngandroidproject/project.properties": []byte("main=appinventor.ai_tester.HelloPurr.Screen1\n"),
		"assets/kitty.png":                       {0x89, 'P', 'N', 'G'},
	}
}

func newConverter(t *testing.T, in string, opts ...converter.Option) *converter.Converter {
	t.Helper()
	opts = append([]converter.Option{converter.WithInFile(in), converter.WithOutDir(t.TempDir())}, opts...)
	c, err := converter.New(opts...)
	require.NoError(t, err)
	require.NoError(t, c.Opts.Normalize())
	return c
}

func TestRunConvertsProject(t *testing.T) {
	in := buildProject(t, legacyProject(t))
	report := filepath.Join(t.TempDir(), "reports", "conversions.yaml")
	c := newConverter(t, in, converter.WithReportFile(report))

	sum, err := Run(context.Background(), c)
	require.NoError(t, err)
	require.True(t, sum.Written)
	assert.Equal(t, c.Opts.OutPath(), sum.Output)
	assert.Equal(t, "HelloPurr.aia", path.Base(sum.Output))
	assert.Equal(t, 6, sum.Files)
	assert.Equal(t, 4, sum.Converted)
	assert.Equal(t, 2, sum.ScreensConverted())
	assert.Equal(t, 8, sum.Blocks())
	assert.False(t, converter.HasProjectErrors(sum.Diagnostics))

	out, _, err := readArchive(context.Background(), sum.Output)
	require.NoError(t, err)
	names := make([]string, len(out))
	contents := map[string]string{}
	for i, e := range out {
		names[i] = e.name
		contents[e.name] = string(e.data)
	}
	want := []string{
		projectDir + "Screen1.bky",
		projectDir + "Screen1.scm",
		projectDir + "Screen2.bky",
		projectDir + "Screen2.scm",
		"youngandroidproject/project.properties",
		"assets/kitty.png",
		projectDir + converter.DefaultInfoScreen + ".scm",
		projectDir + converter.DefaultInfoScreen + ".bky",
	}
	require.Equal(t, want, names, cmp.Diff(want, names))

	golden := strings.TrimRight(string(fixture(t, "Screen1.bky")), "\n")
	assert.Equal(t, golden, contents[projectDir+"Screen1.bky"], cmp.Diff(golden, contents[projectDir+"Screen1.bky"]))
	assert.Contains(t, contents[projectDir+"Screen1.scm"], `"$Version":"14"`)
	assert.Contains(t, contents[projectDir+"Screen1.scm"], `"$Name":"Button1","$Type":"Button","$Version":"6"`)
	assert.Contains(t, contents[projectDir+"Screen2.bky"], `<block id="12" type="global_declaration" x="15" y="25">`)
	assert.Equal(t, string(fixture(t, "Screen2.scm")), contents[projectDir+"Screen2.scm"])
	assert.Equal(t, "\x89PNG", contents["assets/kitty.png"])
	assert.Contains(t, contents[projectDir+converter.DefaultInfoScreen+".bky"], "Converted by AI1 to AI2 converter version "+converter.DefaultVersion)
	assert.Equal(t, "#|\n$JSON\n"+infoRecord+"\n|#", contents[projectDir+converter.DefaultInfoScreen+".scm"])

	m, err := manifest.Load(report)
	require.NoError(t, err)
	require.Len(t, m.Runs, 1)
	run := m.Runs[0]
	assert.True(t, run.Written)
	assert.Equal(t, converter.DefaultVersion, run.Version)
	assert.Equal(t, 8, run.Blocks())
	require.Len(t, run.Screens, 2)
	assert.Equal(t, []string{"Screen1 (Form) 5 -> 14", "Button1 (Button) 4 -> 6"}, run.Screens[0].Upgrades)
}

func TestRunRejectsProjects(t *testing.T) {
	tests := []struct {
		name    string
		files   func(t *testing.T) map[string][]byte
		msg     string
		diagMsg string
	}{
		{
			name: "no screen1",
			files: func(t *testing.T) map[string][]byte {
				return map[string][]byte{
					projectDir + "Screen2.blk": fixture(t, "Screen2.blk"),
					projectDir + "Screen2.scm": fixture(t, "Screen2.scm"),
				}
			},
			msg:     "HelloPurr.zip is not an AI1 project file; it does not have a Screen1.",
			diagMsg: "does not have a Screen1",
		},
		{
			name: "unpaired source",
			files: func(t *testing.T) map[string][]byte {
				files := legacyProject(t)
				delete(files, projectDir+"Screen2.scm")
				return files
			},
			msg:     "No .aia file was generated.",
			diagMsg: "Unpaired source file Screen2.blk",
		},
		{
			name: "empty blocks",
			files: func(t *testing.T) map[string][]byte {
				files := legacyProject(t)
				files[projectDir+"Screen2.blk"] = []byte("  \n")
				return files
			},
			msg:     "No .aia file was generated.",
			diagMsg: "Legacy file Screen2.blk is empty!",
		},
		{
			name: "component too old",
			files: func(t *testing.T) map[string][]byte {
				files := legacyProject(t)
				files[projectDir+"Screen2.scm"] = []byte(`{"Properties":{"$Name":"Screen2","$Type":"Form","$Version":"14","Scrollable":"True","$Components":[{"$Name":"Ball1","$Type":"Ball","$Version":"2"}]}}`)
				return files
			},
			msg:     "No .aia file was generated.",
			diagMsg: "Version of component type Ball in this project (version 2) is too old to be converted.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newConverter(t, buildProject(t, tt.files(t)))

			sum, err := Run(context.Background(), c)
			var pe *diag.ProjectError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, err.Error(), tt.msg)
			assert.False(t, sum.Written)
			assert.NoFileExists(t, c.Opts.OutPath())
			assert.True(t, slices.ContainsFunc(sum.Diagnostics, func(d converter.Diagnostic) bool {
				return d.Severity == converter.SeverityProject && strings.Contains(d.Message, tt.diagMsg)
			}), "diagnostics: %v", sum.Diagnostics)
		})
	}
}

func TestRunRequiresZip(t *testing.T) {
	c := newConverter(t, filepath.Join(t.TempDir(), "HelloPurr.aia"))
	sum, err := Run(context.Background(), c)
	var pe *diag.ProjectError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Legacy project file names must end in .zip, not HelloPurr.aia", pe.Msg)
	assert.False(t, sum.Written)
}

func TestRunRecordsFailedRuns(t *testing.T) {
	files := legacyProject(t)
	delete(files, projectDir+"Screen2.scm")
	report := filepath.Join(t.TempDir(), "conversions.yaml")
	c := newConverter(t, buildProject(t, files), converter.WithReportFile(report))

	_, err := Run(context.Background(), c)
	require.Error(t, err)

	m, err := manifest.Load(report)
	require.NoError(t, err)
	require.Len(t, m.Runs, 1)
	assert.False(t, m.Runs[0].Written)
	assert.Empty(t, m.Runs[0].Output)
	require.NotEmpty(t, m.Runs[0].Diagnostics)
	assert.Equal(t, "project error", m.Runs[0].Diagnostics[0].Severity)
}

func TestRunAcceptsScreensEndingInScreen1(t *testing.T) {
	files := legacyProject(t)
	files[projectDir+"MyScreen1.blk"] = fixture(t, "Screen2.blk")
	files[projectDir+"MyScreen1.scm"] = fixture(t, "Screen2.scm")
	c := newConverter(t, buildProject(t, files))

	sum, err := Run(context.Background(), c)
	require.NoError(t, err)
	require.True(t, sum.Written)
	assert.Equal(t, 3, sum.ScreensConverted())
	assert.Equal(t, "Screen1", sum.Screens[0].Name)
	assert.Equal(t, "MyScreen1", sum.Screens[1].Name)
}

func TestRunKeepsEmptyBlocksForUnparsableScreen(t *testing.T) {
	files := legacyProject(t)
	files[projectDir+"Screen2.blk"] = []byte("<YACodeBlocks>")
	c := newConverter(t, buildProject(t, files))

	sum, err := Run(context.Background(), c)
	require.NoError(t, err)
	require.True(t, sum.Written)
	assert.Equal(t, 1, sum.ScreensConverted())
	require.True(t, slices.ContainsFunc(sum.Diagnostics, func(d converter.Diagnostic) bool {
		return d.Severity == converter.SeveritySystem && d.File == "Screen2.blk"
	}), "diagnostics: %v", sum.Diagnostics)

	out, _, err := readArchive(context.Background(), sum.Output)
	require.NoError(t, err)
	contents := map[string]string{}
	for _, e := range out {
		contents[e.name] = string(e.data)
	}
	require.Contains(t, contents, projectDir+"Screen2.bky")
	assert.Equal(t, `<xml xmlns="http://www.w3.org/1999/xhtml"></xml>`, contents[projectDir+"Screen2.bky"])
	assert.Contains(t, contents, projectDir+"Screen2.scm")
}

func TestRunStopsWhenCancelled(t *testing.T) {
	c := newConverter(t, buildProject(t, legacyProject(t)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := Run(ctx, c)
	require.Error(t, err)
	assert.False(t, sum.Written)
	assert.NoFileExists(t, c.Opts.OutPath())
}

func TestCompareNames(t *testing.T) {
	names := []string{
		"src/Screen2.properties", "src/Screen3.blk", "assets/purr.wav", "src/Hello.scm",
		"src/Screen1.scm", "src/Goodbye.blk", "assets/dog.png", "src/Screen2.scm",
		"src/Foo.blk", "src/Screen3.properties", "src/Screen1.blk", "src/Hello.blk",
		"assets/cat.png", "src/Goodbye.scm", "src/Screen2.blk", "src/Foo.scm", "src/Screen3.scm",
		"src/MyScreen1.scm", "src/MyScreen1.blk",
	}
	want := []string{
		"src/Screen1.blk", "src/Screen1.scm",
		"src/Foo.blk", "src/Foo.scm", "src/Goodbye.blk", "src/Goodbye.scm",
		"src/Hello.blk", "src/Hello.scm", "src/MyScreen1.blk", "src/MyScreen1.scm",
		"src/Screen2.blk", "src/Screen2.scm",
		"src/Screen3.blk", "src/Screen3.scm",
		"src/Screen2.properties", "src/Screen3.properties",
		"assets/cat.png", "assets/dog.png", "assets/purr.wav",
	}
	slices.SortFunc(names, compareNames)
	assert.Equal(t, want, names, cmp.Diff(want, names))
}

func TestPlan(t *testing.T) {
	in := []*entry{
		{name: "p/Screen2.scm"},
		{name: "p/Screen1.yail"},
		{name: "p/Screen1.scm"},
		{name: "p/Orphan.scm"},
		{name: "p/Screen1.blk"},
		{name: "p/Screen2.blk"},
	}
	got, unpaired := plan(in)
	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.name
	}
	assert.Equal(t, []string{"p/Screen1.blk", "p/Screen1.scm", "p/Orphan.scm", "p/Screen2.blk", "p/Screen2.scm"}, names)
	assert.Equal(t, []string{"p/Orphan.scm"}, unpaired)
}
