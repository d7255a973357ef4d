package blocks

import (
	"cmp"
	"slices"

	"github.com/cmmoran/ai1convert/internal/model"
	"github.com/cmmoran/ai1convert/internal/rules"
)

// SortDeclarationsFirst orders the graph's nodes so that every declaration
// precedes every other node, each partition in ascending id order. Converting
// declarations first records the binding names their uses look up.
func SortDeclarationsFirst(g *model.Graph, table *rules.Table) []*model.Node {
	out := slices.Clone(g.Nodes)
	slices.SortStableFunc(out, func(a, b *model.Node) int {
		da, db := table.IsDeclaration(a.Genus), table.IsDeclaration(b.Genus)
		if da != db {
			if da {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
