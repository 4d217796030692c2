package analyze

import (
	"slices"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// IsDisconnected reports whether the enhanced graph has more than one
// connected component once singleton nodes are ignored. Edges are followed in
// both directions; the root is never traversed, so two subgraphs that only
// meet at the root count as separate components.
//
// The search stops as soon as a second component is found; it does not
// partition the graph.
func IsDisconnected(g *depgraph.Graph) bool {
	var candidates []*depgraph.Node
	for _, n := range g.Nodes(false) {
		if ClassifyDegree(n) != Singleton {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return false
	}

	reached := map[depgraph.ID]bool{candidates[0].ID: true}
	queue := []depgraph.ID{candidates[0].ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		for _, e := range slices.Concat(n.In, n.Out) {
			if e.ID.IsRoot() || reached[e.ID] {
				continue
			}
			reached[e.ID] = true
			queue = append(queue, e.ID)
		}
	}

	for _, n := range candidates[1:] {
		if !reached[n.ID] {
			return true
		}
	}
	return false
}
