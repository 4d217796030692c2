package depgraph

import (
	"slices"
	"testing"
)

func TestParseAttrs(t *testing.T) {
	a := ParseAttrs("Number=Sing|Case=Nom|SpaceAfter=No")
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	if v, ok := a.Get("Case"); !ok || v != "Nom" {
		t.Errorf("Get(Case) = %q, %v", v, ok)
	}
	if got := a.Keys(); !slices.Equal(got, []string{"Number", "Case", "SpaceAfter"}) {
		t.Errorf("Keys() = %v, want insertion order", got)
	}
	if got := a.String(); got != "Number=Sing|Case=Nom|SpaceAfter=No" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseAttrs_Empty(t *testing.T) {
	for _, s := range []string{"", "_"} {
		a := ParseAttrs(s)
		if a.Len() != 0 || a.String() != "_" {
			t.Errorf("ParseAttrs(%q): Len=%d String=%q", s, a.Len(), a.String())
		}
	}
}

func TestParseAttrs_RepeatedKey(t *testing.T) {
	a := ParseAttrs("A=1|B=2|A=3")
	if got := a.String(); got != "A=3|B=2" {
		t.Errorf("String() = %q, want A=3|B=2", got)
	}
}

func TestParseAttrs_Flag(t *testing.T) {
	a := ParseAttrs("Flag|X=y")
	if !a.Has("Flag") {
		t.Fatal("Has(Flag) = false")
	}
	if v, _ := a.Get("Flag"); v != "" {
		t.Errorf("flag value = %q, want empty", v)
	}
	if got := a.String(); got != "Flag|X=y" {
		t.Errorf("String() = %q", got)
	}
}

func TestAttrs_SetDelete(t *testing.T) {
	var a Attrs
	a.Set("B", "1")
	a.Set("A", "2")
	a.Set("B", "3")
	if got := a.String(); got != "B=3|A=2" {
		t.Errorf("String() = %q, want B=3|A=2", got)
	}
	a.Delete("B")
	a.Delete("missing")
	if got := a.String(); got != "A=2" {
		t.Errorf("after Delete String() = %q", got)
	}
}

func TestAttrs_Sorted(t *testing.T) {
	a := ParseAttrs("Number[psor]=Sing|number=x|Gender=Fem|Case=Acc|Number=Plur")
	got := a.Sorted().String()
	want := "Case=Acc|Gender=Fem|Number=Plur|number=x|Number[psor]=Sing"
	if got != want {
		t.Errorf("Sorted() = %q, want %q", got, want)
	}
	if a.String() == got {
		t.Error("Sorted() modified the receiver")
	}
}
