package analyze

import (
	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// DegreeClass groups nodes by the shape of their enhanced in/out edges.
type DegreeClass int

const (
	// Singleton nodes have no enhanced edges at all.
	Singleton DegreeClass = iota
	// IndependentNonTop nodes have children but no parent.
	IndependentNonTop
	// Top nodes have exactly one parent, the root.
	Top
	// SingleParent nodes have exactly one parent other than the root.
	SingleParent
	// MultiParent nodes have several incoming edges, none from the root.
	MultiParent
	// MultiParentTop nodes have several incoming edges, one of them from the root.
	MultiParentTop
)

var degreeClassNames = [...]string{
	Singleton:         "singleton",
	IndependentNonTop: "independent_non_top",
	Top:               "top",
	SingleParent:      "single_parent",
	MultiParent:       "multi_parent",
	MultiParentTop:    "multi_parent_top",
}

func (c DegreeClass) String() string {
	if int(c) < len(degreeClassNames) {
		return degreeClassNames[c]
	}
	return "unknown"
}

// ClassifyDegree places n in a [DegreeClass].
func ClassifyDegree(n *depgraph.Node) DegreeClass {
	in, out := n.InDegree(), n.OutDegree()
	switch {
	case in == 0 && out == 0:
		return Singleton
	case in == 0:
		return IndependentNonTop
	case in == 1 && n.In[0].ID.IsRoot():
		return Top
	case in == 1:
		return SingleParent
	case n.HasParent(depgraph.Root):
		return MultiParentTop
	default:
		return MultiParent
	}
}

// Degrees classifies every word and empty node of g.
func Degrees(g *depgraph.Graph) map[depgraph.ID]DegreeClass {
	classes := make(map[depgraph.ID]DegreeClass)
	for _, n := range g.Nodes(false) {
		classes[n.ID] = ClassifyDegree(n)
	}
	return classes
}
