package analyze

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

func parse(t *testing.T, lines ...string) *depgraph.Graph {
	t.Helper()
	g, err := depgraph.FromRecords(lines, log.New(io.Discard))
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	return g
}

func bare(t *testing.T, n int, arcs ...depgraph.Arc) *depgraph.Graph {
	t.Helper()
	g := depgraph.New()
	for i := 1; i <= n; i++ {
		if err := g.AddNode(&depgraph.Node{ID: depgraph.Regular(uint32(i))}); err != nil {
			t.Fatal(err)
		}
	}
	for _, a := range arcs {
		if err := g.AddEdge(a.From, a.To, a.Rel); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func arc(from, to uint32, rel string) depgraph.Arc {
	return depgraph.Arc{From: depgraph.Regular(from), To: depgraph.Regular(to), Rel: rel}
}

func TestClassifyDegree_Chain(t *testing.T) {
	// root -root-> 1 -obj-> 2
	g := bare(t, 2, arc(0, 1, "root"), arc(1, 2, "obj"))

	got := Degrees(g)

	if got[depgraph.Regular(1)] != Top {
		t.Errorf("node 1 = %v, want %v", got[depgraph.Regular(1)], Top)
	}
	if got[depgraph.Regular(2)] != SingleParent {
		t.Errorf("node 2 = %v, want %v", got[depgraph.Regular(2)], SingleParent)
	}
	if _, ok := got[depgraph.Root]; ok {
		t.Error("root should not be classified")
	}
}

func TestClassifyDegree_AllClasses(t *testing.T) {
	g := bare(t, 6,
		arc(0, 1, "root"),
		arc(1, 2, "a"), arc(3, 2, "b"),
		arc(0, 4, "root"), arc(1, 4, "c"),
		arc(5, 1, "d"),
	)
	want := map[depgraph.ID]DegreeClass{
		depgraph.Regular(1): MultiParentTop,
		depgraph.Regular(2): MultiParent,
		depgraph.Regular(3): IndependentNonTop,
		depgraph.Regular(4): MultiParentTop,
		depgraph.Regular(5): IndependentNonTop,
		depgraph.Regular(6): Singleton,
	}
	got := Degrees(g)
	for id, w := range want {
		if got[id] != w {
			t.Errorf("node %v = %v, want %v", id, got[id], w)
		}
	}
}

func TestDegreeClass_String(t *testing.T) {
	if Top.String() != "top" || MultiParentTop.String() != "multi_parent_top" {
		t.Errorf("String() = %q, %q", Top, MultiParentTop)
	}
	if DegreeClass(99).String() != "unknown" {
		t.Errorf("DegreeClass(99) = %q", DegreeClass(99))
	}
}

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name string
		g    func(t *testing.T) *depgraph.Graph
		want []depgraph.ID
	}{
		{
			name: "tree",
			g: func(t *testing.T) *depgraph.Graph {
				return bare(t, 4, arc(0, 2, "root"), arc(2, 1, "nsubj"), arc(2, 4, "obj"), arc(4, 3, "det"))
			},
		},
		{
			name: "dag with shared child",
			g: func(t *testing.T) *depgraph.Graph {
				return bare(t, 3, arc(0, 1, "root"), arc(1, 2, "a"), arc(1, 3, "b"), arc(3, 2, "c"))
			},
		},
		{
			name: "mutual parents",
			g: func(t *testing.T) *depgraph.Graph {
				return bare(t, 2, arc(1, 2, "x"), arc(2, 1, "y"))
			},
			want: []depgraph.ID{depgraph.Regular(1), depgraph.Regular(2), depgraph.Regular(1)},
		},
		{
			name: "triangle behind a tail",
			g: func(t *testing.T) *depgraph.Graph {
				return bare(t, 4, arc(1, 2, "a"), arc(2, 3, "b"), arc(3, 4, "c"), arc(4, 2, "d"))
			},
			want: []depgraph.ID{depgraph.Regular(2), depgraph.Regular(3), depgraph.Regular(4), depgraph.Regular(2)},
		},
		{
			name: "self loop",
			g: func(t *testing.T) *depgraph.Graph {
				return bare(t, 1, arc(1, 1, "x"))
			},
			want: []depgraph.ID{depgraph.Regular(1), depgraph.Regular(1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.g(t)
			got := FindCycle(g)
			if !slices.Equal(got, tt.want) {
				t.Errorf("FindCycle() = %v, want %v", got, tt.want)
			}
			if HasCycle(g) != (tt.want != nil) {
				t.Errorf("HasCycle() = %v", HasCycle(g))
			}
		})
	}
}

func TestHasBasicCycle(t *testing.T) {
	acyclic := parse(t,
		"1\ta\t_\t_\t_\t_\t2\tnsubj\t_\t_",
		"2\tb\t_\t_\t_\t_\t0\troot\t_\t_",
	)
	if HasBasicCycle(acyclic) {
		t.Error("HasBasicCycle() = true on a tree")
	}
	cyclic := parse(t,
		"1\ta\t_\t_\t_\t_\t2\tdep\t_\t_",
		"2\tb\t_\t_\t_\t_\t1\tdep\t_\t_",
		"3\tc\t_\t_\t_\t_\t0\troot\t_\t_",
	)
	if !HasBasicCycle(cyclic) {
		t.Error("HasBasicCycle() = false on a 2-cycle")
	}
}

func TestIsDisconnected(t *testing.T) {
	tests := []struct {
		name string
		g    *depgraph.Graph
		want bool
	}{
		{"empty", bare(t, 0), false},
		{"singletons only", bare(t, 3), false},
		{"connected", bare(t, 3, arc(0, 1, "root"), arc(1, 2, "a"), arc(3, 2, "b")), false},
		{"connected via reverse edge", bare(t, 3, arc(2, 1, "a"), arc(2, 3, "b")), false},
		{"singleton ignored", bare(t, 3, arc(0, 1, "root"), arc(1, 2, "a")), false},
		{"two components", bare(t, 4, arc(1, 2, "a"), arc(3, 4, "b")), true},
		{"joined only at root", bare(t, 2, arc(0, 1, "root"), arc(0, 2, "root")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDisconnected(tt.g); got != tt.want {
				t.Errorf("IsDisconnected() = %v, want %v", got, tt.want)
			}
		})
	}
}
