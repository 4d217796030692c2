package depgraph

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Graph is one sentence: an owning collection of nodes keyed by id plus the
// sentence-level comment lines.
//
// The root node 0 is created by [New] and is always present. Edges reference
// nodes by id, so removing a node does not touch edge lists held by other
// nodes; callers that remove nodes reconcile edges themselves (see
// [Graph.DetachNode]).
//
// The zero value is not usable - use New. A Graph is not safe for concurrent
// use; the pipeline gives each worker its own graphs.
type Graph struct {
	nodes    map[ID]*Node
	Comments []string
}

// New creates a graph containing only the root node.
func New() *Graph {
	g := &Graph{nodes: make(map[ID]*Node)}
	g.nodes[Root] = &Node{ID: Root}
	return g
}

// AddNode adds n to the graph. It returns ErrMissingID if n has the zero id
// and ErrDuplicateID if the id is taken.
func (g *Graph) AddNode(n *Node) error {
	if n == nil || n.ID.IsZero() {
		return ErrMissingID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
	}
	g.nodes[n.ID] = n
	return nil
}

// RemoveNode detaches the node with the given id from the graph and returns
// it. Edge lists of other nodes still mention the id afterwards.
// The root cannot be removed.
func (g *Graph) RemoveNode(id ID) (*Node, bool) {
	if id.IsRoot() {
		return nil, false
	}
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	delete(g.nodes, id)
	return n, true
}

// DetachNode removes every enhanced edge incident to id from both endpoints,
// then removes the node. It returns false if the node is not in the graph.
func (g *Graph) DetachNode(id ID) bool {
	n, ok := g.nodes[id]
	if !ok || id.IsRoot() {
		return false
	}
	for _, e := range slices.Clone(n.In) {
		g.unlink(e.ID, id, e.Rel)
	}
	for _, e := range slices.Clone(n.Out) {
		g.unlink(id, e.ID, e.Rel)
	}
	delete(g.nodes, id)
	return true
}

// Node returns the node with the given id.
func (g *Graph) Node(id ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether a node with the given id exists.
func (g *Graph) Has(id ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes, root and ranges included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Nodes returns every node except the root, in sentence order. Multiword
// ranges are included only when includeRanges is set.
func (g *Graph) Nodes(includeRanges bool) []*Node {
	ids := slices.SortedFunc(maps.Keys(g.nodes), Compare)
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if id.IsRoot() || (id.IsRange() && !includeRanges) {
			continue
		}
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Words returns the regular (non-root) nodes in order.
func (g *Graph) Words() []*Node {
	return slices.DeleteFunc(g.Nodes(false), func(n *Node) bool { return !n.ID.IsRegular() })
}

// EmptyNodes returns the empty nodes in order.
func (g *Graph) EmptyNodes() []*Node {
	return slices.DeleteFunc(g.Nodes(false), func(n *Node) bool { return !n.ID.IsEmpty() })
}

// AddEdge adds the enhanced edge src -rel-> tgt. It returns ErrUnknownNode if
// either endpoint is missing. Adding an edge that exists is a no-op.
func (g *Graph) AddEdge(src, tgt ID, rel string) error {
	s, ok := g.nodes[src]
	if !ok {
		return fmt.Errorf("%w: source %s", ErrUnknownNode, src)
	}
	t, ok := g.nodes[tgt]
	if !ok {
		return fmt.Errorf("%w: target %s", ErrUnknownNode, tgt)
	}
	s.Out, _ = addEdge(s.Out, Edge{ID: tgt, Rel: rel})
	t.In, _ = addEdge(t.In, Edge{ID: src, Rel: rel})
	return nil
}

// RemoveEdge removes src -rel-> tgt from both endpoints. It is a no-op if
// the edge does not exist and returns ErrUnknownNode if an endpoint is
// missing.
func (g *Graph) RemoveEdge(src, tgt ID, rel string) error {
	if !g.Has(src) {
		return fmt.Errorf("%w: source %s", ErrUnknownNode, src)
	}
	if !g.Has(tgt) {
		return fmt.Errorf("%w: target %s", ErrUnknownNode, tgt)
	}
	g.unlink(src, tgt, rel)
	return nil
}

// unlink removes whichever halves of src -rel-> tgt are present.
func (g *Graph) unlink(src, tgt ID, rel string) {
	if s, ok := g.nodes[src]; ok {
		s.Out = removeEdge(s.Out, Edge{ID: tgt, Rel: rel})
	}
	if t, ok := g.nodes[tgt]; ok {
		t.In = removeEdge(t.In, Edge{ID: src, Rel: rel})
	}
}

// Arcs returns every enhanced edge, ordered by (child, parent, relation).
func (g *Graph) Arcs() []Arc {
	var arcs []Arc
	for _, n := range g.Nodes(false) {
		for _, e := range n.SortedIn() {
			arcs = append(arcs, Arc{From: e.ID, To: n.ID, Rel: e.Rel})
		}
	}
	return arcs
}

// EdgeCount returns the number of enhanced edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, n := range g.nodes {
		count += len(n.In)
	}
	return count
}

// Text returns the value of the "# text = ..." comment, if any.
func (g *Graph) Text() string { return g.commentValue("text") }

// SentID returns the value of the "# sent_id = ..." comment, if any.
func (g *Graph) SentID() string { return g.commentValue("sent_id") }

func (g *Graph) commentValue(key string) string {
	for _, c := range g.Comments {
		if v, ok := strings.CutPrefix(c, "# "+key+" = "); ok {
			return v
		}
	}
	return ""
}
