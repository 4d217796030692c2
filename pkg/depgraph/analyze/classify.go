package analyze

import (
	"strings"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// Enhancements counts how the enhanced graph of a sentence differs from its
// basic tree and which enhancement patterns it shows.
//
// The first five fields compare, for every node, the basic incoming edge with
// the enhanced incoming edges. The rest count nodes that match a pattern.
// Patterns are matched on relation label prefixes and on edge topology, so
// they are heuristics: false positives and negatives are expected.
type Enhancements struct {
	BasicOnly    int `json:"basic_only"`    // basic edge has no enhanced edge from the same head
	Identical    int `json:"identical"`     // same head, same label
	Subtype      int `json:"subtype"`       // same head, same main type, different subtype
	Incompatible int `json:"incompatible"`  // same head, different main type
	EnhancedOnly int `json:"enhanced_only"` // enhanced edges not matched to the basic edge

	Gapping               int `json:"gapping"`                 // empty nodes
	CoordParentSharing    int `json:"coord_parent_sharing"`    // conj parent plus non-conj parent
	CoordDependentSharing int `json:"coord_dependent_sharing"` // dependent shared by conjuncts
	ControlledSubject     int `json:"controlled_subject"`      // subject of xcomp is an argument of the controller
	RelativeClause        int `json:"relative_clause"`         // incoming ref edge
	CaseMarking           int `json:"case_marking"`            // label carries a case/lemma subtype
}

// Add accumulates o into e.
func (e *Enhancements) Add(o Enhancements) {
	e.BasicOnly += o.BasicOnly
	e.Identical += o.Identical
	e.Subtype += o.Subtype
	e.Incompatible += o.Incompatible
	e.EnhancedOnly += o.EnhancedOnly
	e.Gapping += o.Gapping
	e.CoordParentSharing += o.CoordParentSharing
	e.CoordDependentSharing += o.CoordDependentSharing
	e.ControlledSubject += o.ControlledSubject
	e.RelativeClause += o.RelativeClause
	e.CaseMarking += o.CaseMarking
}

// coreArgPrefixes are the relations treated as core arguments of a controller.
var coreArgPrefixes = []string{"nsubj", "obj", "iobj", "csubj", "ccomp", "xcomp", "expl"}

// MainType returns the universal part of a relation label, before the first colon.
func MainType(rel string) string {
	main, _, _ := strings.Cut(rel, ":")
	return main
}

func isConj(rel string) bool { return strings.HasPrefix(rel, "conj") }

func hasAnyPrefix(rel string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(rel, p) {
			return true
		}
	}
	return false
}

// hasCaseChars reports whether rel contains anything but lowercase ASCII
// letters and colons. Case subtypes with non-ASCII lemmas ("nmod:в") or
// multiword markers ("obl:because_of") fall outside that set.
func hasCaseChars(rel string) bool {
	for _, r := range rel {
		if (r < 'a' || r > 'z') && r != ':' {
			return true
		}
	}
	return false
}

// Classify counts the enhancements of every word and empty node of g.
func Classify(g *depgraph.Graph) Enhancements {
	var e Enhancements
	for _, n := range g.Nodes(false) {
		classifyNode(g, n, &e)
	}
	return e
}

func classifyNode(g *depgraph.Graph, n *depgraph.Node, e *Enhancements) {
	compareBasic(n, e)

	if n.ID.IsEmpty() {
		e.Gapping++
	}

	var conjParent, otherParent, ref, caseMark bool
	for _, in := range n.In {
		if isConj(in.Rel) {
			conjParent = true
		} else {
			otherParent = true
		}
		if strings.HasPrefix(in.Rel, "ref") {
			ref = true
		}
		if hasCaseChars(in.Rel) {
			caseMark = true
		}
		if n.Deprel != "" && in.ID == n.Head && strings.HasPrefix(in.Rel, n.Deprel+":") {
			caseMark = true
		}
	}
	if conjParent && otherParent {
		e.CoordParentSharing++
	}
	if ref {
		e.RelativeClause++
	}
	if caseMark {
		e.CaseMarking++
	}
	if sharesDependent(g, n) {
		e.CoordDependentSharing++
	}
	if controlledSubject(g, n) {
		e.ControlledSubject++
	}
}

// compareBasic matches the basic incoming edge of n against its enhanced
// incoming edges.
func compareBasic(n *depgraph.Node, e *Enhancements) {
	matched := -1
	if !n.Head.IsZero() {
		kind := 0 // 0 none, 1 incompatible, 2 subtype, 3 identical
		for i, in := range n.In {
			if in.ID != n.Head {
				continue
			}
			k := 1
			switch {
			case in.Rel == n.Deprel:
				k = 3
			case MainType(in.Rel) == MainType(n.Deprel):
				k = 2
			}
			if k > kind {
				kind, matched = k, i
			}
		}
		switch kind {
		case 0:
			e.BasicOnly++
		case 1:
			e.Incompatible++
		case 2:
			e.Subtype++
		case 3:
			e.Identical++
		}
	}
	for i := range n.In {
		if i != matched {
			e.EnhancedOnly++
		}
	}
}

// sharesDependent reports whether n has a non-conj parent P and P is a
// conjunct of some G (G -conj-> P) that is also a parent of n.
func sharesDependent(g *depgraph.Graph, n *depgraph.Node) bool {
	for _, in := range n.In {
		if isConj(in.Rel) {
			continue
		}
		p, ok := g.Node(in.ID)
		if !ok {
			continue
		}
		for _, pin := range p.In {
			if isConj(pin.Rel) && pin.ID != n.ID && n.HasParent(pin.ID) {
				return true
			}
		}
	}
	return false
}

// controlledSubject reports whether n is the nsubj of some P, P is the xcomp
// of some G, and n is also a core argument of G.
func controlledSubject(g *depgraph.Graph, n *depgraph.Node) bool {
	for _, in := range n.In {
		if !strings.HasPrefix(in.Rel, "nsubj") {
			continue
		}
		p, ok := g.Node(in.ID)
		if !ok {
			continue
		}
		for _, pin := range p.In {
			if !strings.HasPrefix(pin.Rel, "xcomp") {
				continue
			}
			for _, gin := range n.In {
				if gin.ID == pin.ID && hasAnyPrefix(gin.Rel, coreArgPrefixes) {
					return true
				}
			}
		}
	}
	return false
}
