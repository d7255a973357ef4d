package blocks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/ai1convert/internal/rules"
)

func TestSortDeclarationsFirst(t *testing.T) {
	g, err := Load(document([]string{"Button1=Button"},
		block(9, "number", "1", plug(0)),
		block(4, "Button-Click", "Button1.Click", sockets(stmt("do", 0))),
		block(2, "argument", "x", plug(0)),
		block(7, "def", "total", sockets(expr("as", 0))),
		block(1, "close-screen", "close screen"),
		block(3, "define-void", "reset", sockets(expandable("arg", 0), stmt("do", 0))),
	))
	require.NoError(t, err)

	var ids []int
	for _, n := range SortDeclarationsFirst(g, rules.Default()) {
		ids = append(ids, n.ID)
	}
	require.Equal(t, []int{3, 4, 7, 1, 2, 9}, ids)

	// the graph keeps document order
	require.Equal(t, 9, g.Nodes[0].ID)
}
