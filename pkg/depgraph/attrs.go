package depgraph

import (
	"slices"
	"strings"
)

// Attr is one entry of a FEATS or MISC column. Bare is set for MISC flags
// written without "=".
type Attr struct {
	Key   string
	Value string
	Bare  bool
}

func (a Attr) String() string {
	if a.Bare {
		return a.Key
	}
	return a.Key + "=" + a.Value
}

// Attrs is an ordered key/value container with unique keys.
// Insertion order is kept; [Attrs.Sorted] gives the FEATS serialization.
// The zero value is an empty container ready to use.
type Attrs struct {
	entries []Attr
}

// ParseAttrs splits a "|"-joined FEATS or MISC column. "_" and "" give an
// empty container. A repeated key keeps its first position and takes the
// last value.
func ParseAttrs(s string) Attrs {
	var a Attrs
	if s == "" || s == "_" {
		return a
	}
	for _, part := range strings.Split(s, "|") {
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok {
			a.Set(k, v)
		} else {
			a.SetFlag(part)
		}
	}
	return a
}

func (a *Attrs) index(key string) int {
	return slices.IndexFunc(a.entries, func(e Attr) bool { return e.Key == key })
}

// Len returns the number of entries.
func (a Attrs) Len() int { return len(a.entries) }

// Get returns the value stored for key.
func (a Attrs) Get(key string) (string, bool) {
	if i := a.index(key); i >= 0 {
		return a.entries[i].Value, true
	}
	return "", false
}

// Has reports whether key is present, as a pair or a bare flag.
func (a Attrs) Has(key string) bool { return a.index(key) >= 0 }

// Set stores key=value, replacing an existing value in place.
func (a *Attrs) Set(key, value string) {
	if i := a.index(key); i >= 0 {
		a.entries[i] = Attr{Key: key, Value: value}
		return
	}
	a.entries = append(a.entries, Attr{Key: key, Value: value})
}

// SetFlag stores a bare key with no value.
func (a *Attrs) SetFlag(key string) {
	if i := a.index(key); i >= 0 {
		a.entries[i] = Attr{Key: key, Bare: true}
		return
	}
	a.entries = append(a.entries, Attr{Key: key, Bare: true})
}

// Delete removes key if present.
func (a *Attrs) Delete(key string) {
	a.entries = slices.DeleteFunc(a.entries, func(e Attr) bool { return e.Key == key })
}

// Keys returns the keys in insertion order.
func (a Attrs) Keys() []string {
	keys := make([]string, len(a.entries))
	for i, e := range a.entries {
		keys[i] = e.Key
	}
	return keys
}

// Sorted returns a copy ordered by key. UD orders FEATS case-insensitively
// ("Case" before "Gender", "Number[psor]" after "Number").
func (a Attrs) Sorted() Attrs {
	entries := slices.Clone(a.entries)
	slices.SortStableFunc(entries, func(x, y Attr) int {
		if c := strings.Compare(strings.ToLower(x.Key), strings.ToLower(y.Key)); c != 0 {
			return c
		}
		return strings.Compare(x.Key, y.Key)
	})
	return Attrs{entries: entries}
}

// String joins the entries with "|" in stored order, or returns "_".
func (a Attrs) String() string {
	if len(a.entries) == 0 {
		return "_"
	}
	parts := make([]string, len(a.entries))
	for i, e := range a.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, "|")
}
