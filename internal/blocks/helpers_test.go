package blocks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/ai1convert/internal/diag"
	"github.com/cmmoran/ai1convert/internal/model"
	"github.com/cmmoran/ai1convert/internal/rules"
)

// document wraps blocks in the legacy page structure. components are
// instance=Type pairs.
func document(components []string, blocks ...string) string {
	var entries strings.Builder
	for _, c := range components {
		instance, typ, _ := strings.Cut(c, "=")
		fmt.Fprintf(&entries, `<YoungAndroidUuidEntry uuid="0" component-id="%s" component-genus="%s" />`, instance, typ)
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<YACodeBlocks ya-version="75" lang-version="17">
<Pages><Page page-name="Screen1" page-color="-1" page-width="1280" page-height="1024" page-infullview="yes" page-drawer="Screen1">
<PageBlocks>
` + strings.Join(blocks, "\n") + `
</PageBlocks>
</Page></Pages>
<YoungAndroidMaps><YoungAndroidUuidMap>` + entries.String() + `</YoungAndroidUuidMap></YoungAndroidMaps>
</YACodeBlocks>`
}

func block(id int, genus, label string, parts ...string) string {
	return fmt.Sprintf(`<Block id="%d" genus-name="%s" ><Label>%s</Label>%s</Block>`, id, genus, label, strings.Join(parts, ""))
}

func stub(parentName, parentGenus, inner string) string {
	return `<BlockStub><StubParentName>` + parentName + `</StubParentName><StubParentGenus>` + parentGenus +
		`</StubParentGenus>` + inner + `</BlockStub>`
}

func at(x, y int) string {
	return fmt.Sprintf(`<Location><X>%d</X><Y>%d</Y></Location>`, x, y)
}

func plug(target int) string {
	return `<Plug>` + connector("plug", "poly", "", false, target) + `</Plug>`
}

func after(id int) string {
	return fmt.Sprintf(`<AfterBlockId>%d</AfterBlockId>`, id)
}

func sockets(cs ...string) string {
	return fmt.Sprintf(`<Sockets num-sockets="%d" >%s</Sockets>`, len(cs), strings.Join(cs, ""))
}

func expr(label string, target int) string { return connector("socket", "poly", label, false, target) }

func expandable(label string, target int) string { return connector("socket", "poly", label, true, target) }

func stmt(label string, target int) string { return connector("socket", "cmd", label, false, target) }

func connector(kind, typ, label string, expandable bool, target int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<BlockConnector connector-kind="%s" connector-type="%s" init-type="%s" label="%s"`, kind, typ, typ, label)
	if expandable {
		sb.WriteString(` is-expandable="yes"`)
	}
	sb.WriteString(` position-type="single"`)
	if target != 0 {
		fmt.Fprintf(&sb, ` con-block-id="%d"`, target)
	}
	sb.WriteString(` ></BlockConnector>`)
	return sb.String()
}

// convertAll runs a session over every node in declaration order.
func convertAll(t *testing.T, text string) (*Session, *diag.Collector) {
	t.Helper()
	g, err := Load(text)
	require.NoError(t, err)
	table := rules.Default()
	c := diag.NewCollector("Screen1", "Screen1.blk")
	s := NewSession(g, table, c)
	for _, n := range SortDeclarationsFirst(g, table) {
		s.Visit(n.ID)
	}
	return s, c
}

func pretty(t *testing.T, s *Session, id int) string {
	t.Helper()
	e, ok := s.Result(id)
	require.True(t, ok, "block %d did not convert", id)
	return model.Pretty(e)
}

func countBlocks(e *model.Element, typ string) int {
	n := 0
	if v, _ := e.Get("type"); e.Tag == "block" && v == typ {
		n++
	}
	for _, c := range e.Children {
		n += countBlocks(c, typ)
	}
	return n
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return strings.TrimRight(string(data), "\n")
}
