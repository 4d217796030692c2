package analyze

import (
	"slices"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// FindCycle looks for a directed cycle in the enhanced graph and returns the
// ids on the first one found, starting and ending with the same id
// (for example [1 2 1]). It returns nil when the enhanced graph is acyclic.
//
// The search keeps a stack of partial paths seeded with every node and
// extends each along outgoing edges. A path whose next step is already on the
// path closes a cycle; its cyclic suffix is reported and the search stops, so
// at most one cycle is returned. A node is expanded at most once: any cycle
// through it is found on the first path that reaches it.
func FindCycle(g *depgraph.Graph) []depgraph.ID {
	nodes := g.Nodes(false)
	stack := make([][]depgraph.ID, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, []depgraph.ID{nodes[i].ID})
	}

	processed := make(map[depgraph.ID]bool)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		tail := p[len(p)-1]
		if processed[tail] {
			continue
		}
		processed[tail] = true

		n, ok := g.Node(tail)
		if !ok {
			continue
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			if j := slices.Index(p, c); j >= 0 {
				cycle := slices.Clone(p[j:])
				return append(cycle, c)
			}
			next := append(slices.Clone(p), c)
			stack = append(stack, next)
		}
	}
	return nil
}

// HasCycle reports whether the enhanced graph contains a directed cycle.
func HasCycle(g *depgraph.Graph) bool { return FindCycle(g) != nil }

// HasBasicCycle reports whether following basic heads from some word never
// reaches the root. Heads naming absent nodes end the walk.
func HasBasicCycle(g *depgraph.Graph) bool {
	limit := g.NodeCount()
	for _, n := range g.Words() {
		cur := n
		for steps := 0; !cur.Head.IsZero() && !cur.Head.IsRoot(); steps++ {
			if steps >= limit {
				return true
			}
			next, ok := g.Node(cur.Head)
			if !ok {
				break
			}
			cur = next
		}
	}
	return false
}
