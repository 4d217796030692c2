// Package transform provides in-place rewrites of sentence graphs.
//
// [BreakCycles] repairs the basic tree so that every word reaches the root,
// recording each discarded head in MISC. [CollapseEmptyNodes] removes empty
// nodes from the enhanced graph and replaces every path through them with a
// single edge whose label joins the relations along the path.
//
// Both functions operate on one sentence and are not safe for concurrent use
// on the same graph.
package transform
