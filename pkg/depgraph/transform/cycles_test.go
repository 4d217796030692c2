package transform

import (
	"testing"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// basicGraph builds a graph of words 1..len(heads) where word i+1 has head
// heads[i].
func basicGraph(t *testing.T, heads ...uint32) *depgraph.Graph {
	t.Helper()
	g := depgraph.New()
	for i, h := range heads {
		n := &depgraph.Node{ID: depgraph.Regular(uint32(i + 1)), Head: depgraph.Regular(h), Deprel: "dep"}
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	return g
}

// reachesRoot checks that every word reaches the root within NodeCount steps.
func reachesRoot(t *testing.T, g *depgraph.Graph) {
	t.Helper()
	limit := g.NodeCount()
	for _, n := range g.Words() {
		cur := n
		steps := 0
		for !cur.Head.IsRoot() {
			if steps > limit {
				t.Fatalf("node %v does not reach the root", n.ID)
			}
			next, ok := g.Node(cur.Head)
			if !ok {
				t.Fatalf("node %v: head %v missing", cur.ID, cur.Head)
			}
			cur = next
			steps++
		}
	}
}

func TestBreakCycles_NoCycles(t *testing.T) {
	g := basicGraph(t, 2, 0, 2)

	fixes := BreakCycles(g)

	if len(fixes) != 0 {
		t.Errorf("BreakCycles() made %d fixes, want 0", len(fixes))
	}
	for _, n := range g.Words() {
		if n.Misc.Has(CycleHeadKey) {
			t.Errorf("node %v got %s", n.ID, CycleHeadKey)
		}
	}
}

func TestBreakCycles_SimpleCycle(t *testing.T) {
	// 1 -> 2 -> 1
	g := basicGraph(t, 2, 1)

	fixes := BreakCycles(g)

	if len(fixes) != 1 {
		t.Fatalf("BreakCycles() made %d fixes, want 1", len(fixes))
	}
	want := CycleFix{Node: depgraph.Regular(2), OldHead: depgraph.Regular(1)}
	if fixes[0] != want {
		t.Errorf("fix = %+v, want %+v", fixes[0], want)
	}
	n2, _ := g.Node(depgraph.Regular(2))
	if !n2.Head.IsRoot() {
		t.Errorf("node 2 head = %v, want 0", n2.Head)
	}
	if v, _ := n2.Misc.Get(CycleHeadKey); v != "1" {
		t.Errorf("%s = %q, want 1", CycleHeadKey, v)
	}
	if n2.Deprel != "dep" {
		t.Errorf("deprel changed to %q", n2.Deprel)
	}
	reachesRoot(t, g)
}

func TestBreakCycles_SelfLoop(t *testing.T) {
	g := basicGraph(t, 1)

	fixes := BreakCycles(g)

	if len(fixes) != 1 {
		t.Fatalf("BreakCycles() made %d fixes, want 1", len(fixes))
	}
	reachesRoot(t, g)
}

func TestBreakCycles_MultipleCycles(t *testing.T) {
	// 1 <-> 2, 3 -> 4 -> 5 -> 3, 6 hangs off the second cycle.
	g := basicGraph(t, 2, 1, 5, 3, 4, 4)

	fixes := BreakCycles(g)

	if len(fixes) != 2 {
		t.Errorf("BreakCycles() made %d fixes, want 2", len(fixes))
	}
	reachesRoot(t, g)
}

func TestBreakCycles_KeepsExistingMisc(t *testing.T) {
	g := basicGraph(t, 2, 1)
	n2, _ := g.Node(depgraph.Regular(2))
	n2.Misc.Set("SpaceAfter", "No")
	n2.Misc.Set(CycleHeadKey, "7")

	BreakCycles(g)

	if got := n2.Misc.String(); got != "SpaceAfter=No|CycleHead=7:1" {
		t.Errorf("Misc = %q", got)
	}
}

func TestBreakCycles_IgnoresEnhanced(t *testing.T) {
	g := basicGraph(t, 0, 1)
	_ = g.AddEdge(depgraph.Regular(2), depgraph.Regular(1), "x")
	_ = g.AddEdge(depgraph.Regular(1), depgraph.Regular(2), "y")

	if fixes := BreakCycles(g); len(fixes) != 0 {
		t.Errorf("BreakCycles() made %d fixes on an acyclic basic tree", len(fixes))
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}
