package depgraph

import "errors"

var (
	// ErrMissingID is returned by [Graph.AddNode] when the node has the zero id.
	ErrMissingID = errors.New("node has no id")

	// ErrDuplicateID is returned by [Graph.AddNode] when a node with the same
	// id is already in the graph.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrUnknownNode is returned by [Graph.AddEdge] and [Graph.RemoveEdge] when
	// an endpoint is not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidID is returned by [ParseID] for text that is not an integer,
	// an "N.M" empty node id, or an "N-M" range.
	ErrInvalidID = errors.New("invalid node id")

	// ErrInvalidRecord is returned by [ParseRecord] for a line that does not
	// have exactly ten tab-separated fields or has an unparsable column.
	ErrInvalidRecord = errors.New("invalid record")
)
