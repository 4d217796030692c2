package depgraph

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Column layout of a CoNLL-U node line.
const (
	colID = iota
	colForm
	colLemma
	colUPOS
	colXPOS
	colFeats
	colHead
	colDeprel
	colDeps
	colMisc

	// NumFields is the number of tab-separated columns in a node line.
	NumFields
)

const placeholder = "_"

func field(s string) string {
	if s == placeholder {
		return ""
	}
	return s
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// ParseRecord parses one node line. The DEPS column is kept raw until the
// node is placed in a graph by [FromRecords], because its edges can point at
// nodes that come later in the sentence.
func ParseRecord(line string) (*Node, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != NumFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrInvalidRecord, NumFields, len(cols))
	}
	id, err := ParseID(cols[colID])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if id.IsRoot() {
		return nil, fmt.Errorf("%w: id 0 is reserved for the root", ErrInvalidRecord)
	}

	n := &Node{
		ID:     id,
		Form:   field(cols[colForm]),
		Lemma:  field(cols[colLemma]),
		UPOS:   field(cols[colUPOS]),
		XPOS:   field(cols[colXPOS]),
		Feats:  ParseAttrs(cols[colFeats]),
		Deprel: field(cols[colDeprel]),
		Misc:   ParseAttrs(cols[colMisc]),
		deps:   field(cols[colDeps]),
	}
	if h := field(cols[colHead]); h != "" {
		head, err := ParseID(h)
		if err != nil || !head.IsRegular() {
			return nil, fmt.Errorf("%w: bad head %q", ErrInvalidRecord, h)
		}
		n.Head = head
	}
	return n, nil
}

// FromRecords builds a graph from the lines of one sentence (without the
// terminating blank line). Comment lines are kept verbatim and in order.
//
// Malformed node lines and malformed DEPS entries are logged and skipped so
// that a noisy corpus can still be streamed. Structural violations (two lines
// with the same id, a DEPS entry naming a node that does not exist) fail the
// whole sentence. A nil logger uses log.Default().
func FromRecords(lines []string, logger *log.Logger) (*Graph, error) {
	if logger == nil {
		logger = log.Default()
	}
	g := New()
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			g.Comments = append(g.Comments, line)
			continue
		}
		n, err := ParseRecord(line)
		if err != nil {
			logger.Warn("skipping malformed record", "line", i+1, "err", err)
			continue
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	for _, n := range g.Nodes(true) {
		deps := n.deps
		n.deps = ""
		if deps == "" {
			continue
		}
		if n.ID.IsRange() {
			logger.Warn("ignoring DEPS on multiword token", "id", n.ID, "deps", deps)
			continue
		}
		for _, dep := range strings.Split(deps, "|") {
			h, rel, ok := strings.Cut(dep, ":")
			if !ok || rel == "" {
				logger.Warn("skipping malformed DEPS entry", "id", n.ID, "entry", dep)
				continue
			}
			head, err := ParseID(h)
			if err != nil || head.IsRange() {
				logger.Warn("skipping malformed DEPS entry", "id", n.ID, "entry", dep)
				continue
			}
			if err := g.AddEdge(head, n.ID, rel); err != nil {
				return nil, fmt.Errorf("node %s: %w", n.ID, err)
			}
		}
	}
	return g, nil
}

// Records serializes the graph: comments first, then one line per node in
// sentence order, multiword tokens included.
func (g *Graph) Records() []string {
	lines := make([]string, 0, len(g.Comments)+len(g.nodes))
	lines = append(lines, g.Comments...)
	for _, n := range g.Nodes(true) {
		lines = append(lines, FormatRecord(n))
	}
	return lines
}

// FormatRecord renders one node line from the node's current fields. FEATS
// are sorted by key and DEPS by (head, relation); MISC keeps its order.
func FormatRecord(n *Node) string {
	head := placeholder
	if !n.Head.IsZero() {
		head = n.Head.String()
	}
	deps := placeholder
	if !n.ID.IsRange() {
		deps = FormatDeps(n.SortedIn())
	}
	return strings.Join([]string{
		n.ID.String(),
		orPlaceholder(n.Form),
		orPlaceholder(n.Lemma),
		orPlaceholder(n.UPOS),
		orPlaceholder(n.XPOS),
		n.Feats.Sorted().String(),
		head,
		orPlaceholder(n.Deprel),
		deps,
		n.Misc.String(),
	}, "\t")
}

// FormatDeps joins incoming edges as a DEPS column ("_" when empty).
func FormatDeps(in []Edge) string {
	if len(in) == 0 {
		return placeholder
	}
	parts := make([]string, len(in))
	for i, e := range in {
		parts[i] = e.ID.String() + ":" + e.Rel
	}
	return strings.Join(parts, "|")
}
