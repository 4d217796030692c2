package transform

import (
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// DefaultSeparator joins the relations of a collapsed path.
const DefaultSeparator = ">"

// CollapseOptions configures [CollapseEmptyNodes].
type CollapseOptions struct {
	// Separator joins relation labels along a collapsed path.
	// Empty means DefaultSeparator.
	Separator string
	// KeepEmptyIDs puts the ids of the removed empty nodes into the new
	// labels ("conj>1.1>nsubj" instead of "conj>nsubj").
	KeepEmptyIDs bool
	// Logger receives warnings about dropped paths and empty nodes.
	// Nil uses log.Default().
	Logger *log.Logger
}

// CollapseResult reports what [CollapseEmptyNodes] changed.
type CollapseResult struct {
	Added   []depgraph.Arc // new edges between regular nodes
	Removed []depgraph.ID  // empty nodes removed from the graph
	Cycles  []string       // spliced paths discarded because they revisit a node
	Orphans []depgraph.ID  // empty nodes that led to no regular node
}

// path is a walk through the enhanced graph: nodes[i] -rels[i]-> nodes[i+1].
// In the flat notation "p rel n rel c" the nodes sit at even positions.
type path struct {
	nodes []depgraph.ID
	rels  []string
}

func (p path) first() depgraph.ID { return p.nodes[0] }
func (p path) last() depgraph.ID  { return p.nodes[len(p.nodes)-1] }

// splice joins p (ending at x) with q (starting at x).
func (p path) splice(q path) path {
	nodes := make([]depgraph.ID, 0, len(p.nodes)+len(q.nodes)-1)
	nodes = append(nodes, p.nodes...)
	nodes = append(nodes, q.nodes[1:]...)
	rels := make([]string, 0, len(p.rels)+len(q.rels))
	rels = append(rels, p.rels...)
	rels = append(rels, q.rels...)
	return path{nodes: nodes, rels: rels}
}

func (p path) hasRepeat() bool {
	seen := make(map[depgraph.ID]bool, len(p.nodes))
	for _, id := range p.nodes {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

func (p path) String() string {
	var b strings.Builder
	for i, id := range p.nodes {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(p.rels[i-1])
			b.WriteByte(' ')
		}
		b.WriteString(id.String())
	}
	return b.String()
}

func (p path) label(sep string, keepIDs bool) string {
	parts := make([]string, 0, 2*len(p.rels))
	for i, rel := range p.rels {
		if i > 0 && keepIDs {
			parts = append(parts, p.nodes[i].String())
		}
		parts = append(parts, rel)
	}
	return strings.Join(parts, sep)
}

// CollapseEmptyNodes removes all empty nodes from the enhanced graph. Every
// path parent -> e1 -> ... -> en -> child running through empty nodes only
// becomes one edge parent -> child whose label joins the relations on the
// path, so "1 -conj-> 1.1 -nsubj-> 2" becomes "1 -conj>nsubj-> 2".
//
// Paths are built by repeatedly splicing edges that leave an empty node onto
// paths that enter it. A spliced path that visits a node twice is discarded
// with a warning, as is every empty node that never reaches a regular node.
// Edges between regular nodes are left alone. Basic heads are not touched;
// empty nodes have none.
func CollapseEmptyNodes(g *depgraph.Graph, opts CollapseOptions) CollapseResult {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sep := opts.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	var into, outOf []path
	for _, a := range g.Arcs() {
		p := path{nodes: []depgraph.ID{a.From, a.To}, rels: []string{a.Rel}}
		if a.To.IsEmpty() {
			into = append(into, p)
		}
		if a.From.IsEmpty() {
			outOf = append(outOf, p)
		}
	}
	direct := slices.Clone(into)

	var (
		result   CollapseResult
		finished []path
		seen     = make(map[string]bool)
	)
	for len(outOf) > 0 {
		out := outOf[0]
		outOf = outOf[1:]
		for _, in := range into {
			if in.last() != out.first() {
				continue
			}
			p := in.splice(out)
			key := p.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			if p.hasRepeat() {
				logger.Warn("dropping cyclic path through empty nodes", "path", key)
				result.Cycles = append(result.Cycles, key)
				continue
			}
			if !p.first().IsEmpty() && !p.last().IsEmpty() {
				finished = append(finished, p)
				continue
			}
			if p.first().IsEmpty() {
				outOf = append(outOf, p)
			}
			if p.last().IsEmpty() {
				into = append(into, p)
			}
		}
	}

	slices.SortStableFunc(finished, func(a, b path) int {
		if c := depgraph.Compare(a.last(), b.last()); c != 0 {
			return c
		}
		if c := depgraph.Compare(a.first(), b.first()); c != 0 {
			return c
		}
		return strings.Compare(a.String(), b.String())
	})

	used := make(map[depgraph.ID]bool)
	for _, p := range finished {
		for _, id := range p.nodes[1 : len(p.nodes)-1] {
			used[id] = true
		}
	}
	for _, d := range direct {
		id := d.last()
		if used[id] || slices.Contains(result.Orphans, id) {
			continue
		}
		logger.Warn("empty node has no regular descendant; its incoming edges are lost", "id", id)
		result.Orphans = append(result.Orphans, id)
	}

	for _, n := range g.EmptyNodes() {
		g.DetachNode(n.ID)
		result.Removed = append(result.Removed, n.ID)
	}

	for _, p := range finished {
		if len(p.nodes) <= 2 {
			continue
		}
		arc := depgraph.Arc{From: p.first(), To: p.last(), Rel: p.label(sep, opts.KeepEmptyIDs)}
		if err := g.AddEdge(arc.From, arc.To, arc.Rel); err != nil {
			// Both ends are regular nodes that were in the graph a moment ago.
			logger.Error("adding collapsed edge", "from", arc.From, "to", arc.To, "err", err)
			continue
		}
		result.Added = append(result.Added, arc)
	}
	return result
}
