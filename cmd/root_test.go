package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/ai1convert/pkg/converter"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{in: "trace", want: levelTrace, ok: true},
		{in: "TRACE", want: levelTrace, ok: true},
		{in: "debug", want: slog.LevelDebug, ok: true},
		{in: "warn", want: slog.LevelWarn, ok: true},
		{in: "debug+1", want: slog.LevelDebug + 1, ok: true},
		{in: "loud", want: slog.LevelInfo, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseLevel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, slog.LevelInfo, "json").Info("converted", "screen", "Screen1")
	assert.Contains(t, buf.String(), `"msg":"converted"`)
	assert.Contains(t, buf.String(), `"screen":"Screen1"`)

	buf.Reset()
	newLogger(&buf, slog.LevelInfo, "text").Debug("hidden")
	assert.Empty(t, buf.String())
	newLogger(&buf, slog.LevelInfo, "text").Info("converted", "screen", "Screen1")
	assert.Contains(t, buf.String(), "converted")
	assert.Contains(t, buf.String(), "Screen1")
}

func TestCounted(t *testing.T) {
	assert.Equal(t, "0 screens", counted(0, "screen"))
	assert.Equal(t, "1 screen", counted(1, "screen"))
	assert.Equal(t, "3 assemblies", counted(3, "assembly"))
}

func TestPrintDiagnostics(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printDiagnostics(&buf, []converter.Diagnostic{
		{Severity: converter.SeverityProject, Screen: "Screen1", File: "Screen1.blk", Message: "Legacy file Screen1.blk is empty!"},
		{Severity: converter.SeverityWarning, Screen: "Screen2", Message: "orphans"},
	})
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "Project error from screen Screen1 in file Screen1.blk: Legacy file Screen1.blk is empty!", string(lines[0]))
	assert.Equal(t, "Warning from screen Screen2: orphans", string(lines[1]))
}

func TestPrintRules(t *testing.T) {
	conv, err := converter.New()
	require.NoError(t, err)
	rs := conv.Rules()

	var buf bytes.Buffer
	printRules(&buf, rs)
	out := buf.String()
	assert.Contains(t, out, "string-append")
	assert.Contains(t, out, "text_join")
	assert.Contains(t, out, "expression")
	assert.Contains(t, out, strings.ToUpper(counted(len(rs), "rule")))
}
