package transform

import (
	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// CycleHeadKey is the MISC attribute that records heads discarded by
// [BreakCycles]. Repeated fixes on one node are joined with ":".
const CycleHeadKey = "CycleHead"

// CycleFix describes one redirected basic edge.
type CycleFix struct {
	Node    depgraph.ID // node whose head was replaced by the root
	OldHead depgraph.ID // discarded head
}

// BreakCycles makes the basic tree acyclic.
//
// For every word in sentence order, BreakCycles follows head pointers toward
// the root, remembering the nodes seen on this walk. When the walk reaches a
// node it has already seen, the head pointer that closed the cycle is
// redirected to the root and the old head is appended to the node's
// [CycleHeadKey] MISC attribute. Only that one edge is cut; the rest of the
// chain is left as is.
//
// Words are processed once, in order, so a fix made for an earlier word
// changes the walks of later ones. The result is acyclic but the number of
// redirected edges is not guaranteed to be minimal. Heads naming nodes that
// are not in the graph end the walk and are left untouched. Enhanced edges
// are not consulted or modified.
func BreakCycles(g *depgraph.Graph) []CycleFix {
	var fixes []CycleFix
	for _, start := range g.Words() {
		visited := make(map[depgraph.ID]bool)
		cur := start
		for {
			visited[cur.ID] = true
			if cur.Head.IsZero() || cur.Head.IsRoot() {
				break
			}
			next, ok := g.Node(cur.Head)
			if !ok {
				break
			}
			if visited[next.ID] {
				fixes = append(fixes, CycleFix{Node: cur.ID, OldHead: cur.Head})
				recordCycleHead(cur, cur.Head)
				cur.Head = depgraph.Root
				break
			}
			cur = next
		}
	}
	return fixes
}

func recordCycleHead(n *depgraph.Node, old depgraph.ID) {
	if prev, ok := n.Misc.Get(CycleHeadKey); ok && prev != "" {
		n.Misc.Set(CycleHeadKey, prev+":"+old.String())
		return
	}
	n.Misc.Set(CycleHeadKey, old.String())
}
