package depgraph

import (
	"slices"
	"strings"
)

// Edge is one end of an enhanced dependency as stored on a node: the other
// endpoint and the relation label. On [Node.In] the ID is the parent, on
// [Node.Out] it is the child.
type Edge struct {
	ID  ID
	Rel string
}

// Arc is an enhanced dependency seen from outside the two nodes.
type Arc struct {
	From ID
	To   ID
	Rel  string
}

// Node is one line of a CoNLL-U sentence plus its enhanced edges.
//
// Nodes hold no reference to their graph; edges name their endpoints by id.
// The zero value is not usable on its own - set ID before [Graph.AddNode].
type Node struct {
	ID     ID
	Form   string
	Lemma  string
	UPOS   string
	XPOS   string
	Feats  Attrs
	Head   ID // basic parent; zero when unset (empty nodes, ranges, "_")
	Deprel string
	Misc   Attrs

	In  []Edge
	Out []Edge

	// deps is the raw DEPS column, consumed when the graph is assembled.
	deps string
}

// Parents returns the distinct ids of enhanced parents in edge order.
func (n *Node) Parents() []ID { return distinctIDs(n.In) }

// Children returns the distinct ids of enhanced children in edge order.
func (n *Node) Children() []ID { return distinctIDs(n.Out) }

func distinctIDs(edges []Edge) []ID {
	ids := make([]ID, 0, len(edges))
	for _, e := range edges {
		if !slices.Contains(ids, e.ID) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// InDegree returns the number of incoming enhanced edges.
func (n *Node) InDegree() int { return len(n.In) }

// OutDegree returns the number of outgoing enhanced edges.
func (n *Node) OutDegree() int { return len(n.Out) }

// HasParent reports whether some incoming edge comes from id.
func (n *Node) HasParent(id ID) bool {
	return slices.ContainsFunc(n.In, func(e Edge) bool { return e.ID == id })
}

// SortedIn returns the incoming edges ordered by (parent id, relation),
// the order required for the DEPS column.
func (n *Node) SortedIn() []Edge { return sortEdges(n.In) }

func sortEdges(edges []Edge) []Edge {
	sorted := slices.Clone(edges)
	slices.SortFunc(sorted, func(a, b Edge) int {
		if c := Compare(a.ID, b.ID); c != 0 {
			return c
		}
		return strings.Compare(a.Rel, b.Rel)
	})
	return sorted
}

func addEdge(edges []Edge, e Edge) ([]Edge, bool) {
	if slices.Contains(edges, e) {
		return edges, false
	}
	return append(edges, e), true
}

func removeEdge(edges []Edge, e Edge) []Edge {
	return slices.DeleteFunc(edges, func(x Edge) bool { return x == e })
}
