// Package depgraph models one CoNLL-U sentence as a graph of nodes and
// enhanced dependency edges.
//
// # Nodes and ids
//
// Every line of a sentence becomes a [Node]. Node ids come in three shapes,
// modelled by [ID]:
//
//   - Regular(n): a syntactic word; Regular(0) is the virtual root, [Root]
//   - Empty(n, m): an empty node "n.m" standing for elided material
//   - Range(n, m): a multiword token "n-m"; it carries annotation only
//
// [Compare] orders ids the way CoNLL-U orders lines: "3-4", "3", "3.1", "4".
//
// # Edges
//
// The basic tree lives in [Node.Head] and [Node.Deprel]. Enhanced edges are
// stored twice, as an outgoing [Edge] on the parent and an incoming one on
// the child, so both directions are a slice lookup. Edges name their
// endpoints by id; nodes never point at each other or at their graph.
//
// # Building and writing
//
//	g, err := depgraph.FromRecords(lines, logger)
//	if err != nil {
//	    return err
//	}
//	_ = g.AddEdge(depgraph.Regular(2), depgraph.Regular(1), "nsubj:xsubj")
//	for _, line := range g.Records() {
//	    fmt.Println(line)
//	}
//
// [FromRecords] tolerates malformed lines (they are logged and skipped) but
// fails on structural errors such as duplicate ids. [Graph.Records] writes
// FEATS sorted by key and DEPS sorted by head then relation.
//
// # Related Packages
//
// The [transform] subpackage rewrites graphs (basic cycle repair, empty node
// collapsing). The [analyze] subpackage reads them (degree classes, cycles,
// connectivity, enhancement patterns, corpus statistics).
//
// [transform]: github.com/matzehuels/udgraph/pkg/depgraph/transform
// [analyze]: github.com/matzehuels/udgraph/pkg/depgraph/analyze
package depgraph
