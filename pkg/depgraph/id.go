package depgraph

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the three shapes a CoNLL-U node id can take.
type Kind uint8

const (
	// KindNone is the zero Kind. An ID of this kind is "no id".
	KindNone Kind = iota
	// KindRegular is a syntactic word (or the virtual root, id 0).
	KindRegular
	// KindEmpty is an empty node "N.M" introduced for elided material.
	KindEmpty
	// KindRange is a multiword token "N-M". Ranges never take part in edges.
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindEmpty:
		return "empty"
	case KindRange:
		return "range"
	default:
		return "none"
	}
}

// ID identifies a node within one sentence.
//
// The zero value is not a valid id; it is used for "unset" (for example the
// basic head of an empty node). IDs are comparable and can be used as map keys.
type ID struct {
	kind  Kind
	major uint32
	minor uint32
}

// Root is the id of the virtual root node present in every graph.
var Root = Regular(0)

// Regular returns the id of syntactic word n.
func Regular(n uint32) ID { return ID{kind: KindRegular, major: n} }

// Empty returns the id "n.m" of an empty node.
func Empty(n, m uint32) ID { return ID{kind: KindEmpty, major: n, minor: m} }

// Range returns the id "from-to" of a multiword token.
func Range(from, to uint32) ID { return ID{kind: KindRange, major: from, minor: to} }

// ParseID parses the id column of a CoNLL-U line.
func ParseID(s string) (ID, error) {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		from, err1 := parseUint(s[:i])
		to, err2 := parseUint(s[i+1:])
		if err1 != nil || err2 != nil {
			return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		if to < from {
			return ID{}, fmt.Errorf("%w: range %q ends before it starts", ErrInvalidID, s)
		}
		return Range(from, to), nil
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		n, err1 := parseUint(s[:i])
		m, err2 := parseUint(s[i+1:])
		if err1 != nil || err2 != nil || m == 0 {
			return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		return Empty(n, m), nil
	}
	n, err := parseUint(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return Regular(n), nil
}

// MustParseID is like ParseID but panics on malformed input.
// It is meant for tests and literals.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func parseUint(s string) (uint32, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}

// Kind reports the shape of the id.
func (id ID) Kind() Kind { return id.kind }

// IsZero reports whether id is the zero ("no id") value.
func (id ID) IsZero() bool { return id.kind == KindNone }

// IsRoot reports whether id is the virtual root 0.
func (id ID) IsRoot() bool { return id == Root }

// IsRegular reports whether id names a syntactic word or the root.
func (id ID) IsRegular() bool { return id.kind == KindRegular }

// IsEmpty reports whether id names an empty node.
func (id ID) IsEmpty() bool { return id.kind == KindEmpty }

// IsRange reports whether id names a multiword token.
func (id ID) IsRange() bool { return id.kind == KindRange }

// Major returns the word number (for ranges, the first word covered).
func (id ID) Major() uint32 { return id.major }

// Minor returns the empty node index or the last word of a range.
// It is 0 for regular ids.
func (id ID) Minor() uint32 { return id.minor }

func (id ID) String() string {
	switch id.kind {
	case KindRegular:
		return strconv.FormatUint(uint64(id.major), 10)
	case KindEmpty:
		return fmt.Sprintf("%d.%d", id.major, id.minor)
	case KindRange:
		return fmt.Sprintf("%d-%d", id.major, id.minor)
	default:
		return "_"
	}
}

// kindRank orders shapes sharing a major number the way CoNLL-U lines are
// ordered: "3-4" before "3" before "3.1".
func kindRank(k Kind) int {
	switch k {
	case KindRange:
		return 1
	case KindRegular:
		return 2
	case KindEmpty:
		return 3
	default:
		return 0
	}
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to,
// or after b in sentence order.
func Compare(a, b ID) int {
	if c := cmp.Compare(a.major, b.major); c != 0 {
		return c
	}
	if c := cmp.Compare(kindRank(a.kind), kindRank(b.kind)); c != 0 {
		return c
	}
	return cmp.Compare(a.minor, b.minor)
}

// Less reports whether a sorts before b.
func Less(a, b ID) bool { return Compare(a, b) < 0 }
