package analyze

import (
	"maps"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// Stats accumulates corpus-level counts over many sentences.
//
// A Stats value is owned by one goroutine; parallel callers keep one per
// worker and combine them with [Stats.Merge]. The zero value is not usable -
// use NewStats.
type Stats struct {
	Sentences          int `json:"sentences"`
	Words              int `json:"words"`
	EmptyNodes         int `json:"empty_nodes"`
	SentencesWithEmpty int `json:"sentences_with_empty"`
	EnhancedEdges      int `json:"enhanced_edges"`

	BasicCycles    int `json:"basic_cycles"`    // sentences whose basic tree has a cycle
	EnhancedCycles int `json:"enhanced_cycles"` // sentences whose enhanced graph has a cycle
	Disconnected   int `json:"disconnected"`    // sentences with more than one enhanced component

	Degrees      map[string]int `json:"degrees"`
	Enhancements Enhancements   `json:"enhancements"`
	// PatternSentences counts sentences in which each enhancement count is non-zero.
	PatternSentences Enhancements `json:"pattern_sentences"`

	BasicRelations    map[string]int `json:"basic_relations"`
	EnhancedRelations map[string]int `json:"enhanced_relations"`
}

// NewStats returns an empty accumulator.
func NewStats() *Stats {
	return &Stats{
		Degrees:           make(map[string]int),
		BasicRelations:    make(map[string]int),
		EnhancedRelations: make(map[string]int),
	}
}

// Observe adds one sentence. It does not modify g.
func (s *Stats) Observe(g *depgraph.Graph) {
	s.Sentences++

	empty := 0
	for _, n := range g.Nodes(false) {
		if n.ID.IsEmpty() {
			empty++
		} else {
			s.Words++
		}
		if n.Deprel != "" {
			s.BasicRelations[n.Deprel]++
		}
		for _, e := range n.In {
			s.EnhancedRelations[e.Rel]++
		}
		s.Degrees[ClassifyDegree(n).String()]++
	}
	s.EmptyNodes += empty
	if empty > 0 {
		s.SentencesWithEmpty++
	}
	s.EnhancedEdges += g.EdgeCount()

	if HasBasicCycle(g) {
		s.BasicCycles++
	}
	if HasCycle(g) {
		s.EnhancedCycles++
	}
	if IsDisconnected(g) {
		s.Disconnected++
	}

	e := Classify(g)
	s.Enhancements.Add(e)
	s.PatternSentences.Add(e.presence())
}

// presence maps every non-zero count to 1.
func (e Enhancements) presence() Enhancements {
	one := func(n int) int {
		if n > 0 {
			return 1
		}
		return 0
	}
	return Enhancements{
		BasicOnly:             one(e.BasicOnly),
		Identical:             one(e.Identical),
		Subtype:               one(e.Subtype),
		Incompatible:          one(e.Incompatible),
		EnhancedOnly:          one(e.EnhancedOnly),
		Gapping:               one(e.Gapping),
		CoordParentSharing:    one(e.CoordParentSharing),
		CoordDependentSharing: one(e.CoordDependentSharing),
		ControlledSubject:     one(e.ControlledSubject),
		RelativeClause:        one(e.RelativeClause),
		CaseMarking:           one(e.CaseMarking),
	}
}

// Merge adds the counts of o to s.
func (s *Stats) Merge(o *Stats) {
	s.Sentences += o.Sentences
	s.Words += o.Words
	s.EmptyNodes += o.EmptyNodes
	s.SentencesWithEmpty += o.SentencesWithEmpty
	s.EnhancedEdges += o.EnhancedEdges
	s.BasicCycles += o.BasicCycles
	s.EnhancedCycles += o.EnhancedCycles
	s.Disconnected += o.Disconnected
	s.Enhancements.Add(o.Enhancements)
	s.PatternSentences.Add(o.PatternSentences)
	mergeCounts(s.Degrees, o.Degrees)
	mergeCounts(s.BasicRelations, o.BasicRelations)
	mergeCounts(s.EnhancedRelations, o.EnhancedRelations)
}

func mergeCounts(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}

// Clone returns a deep copy of s.
func (s *Stats) Clone() *Stats {
	c := *s
	c.Degrees = maps.Clone(s.Degrees)
	c.BasicRelations = maps.Clone(s.BasicRelations)
	c.EnhancedRelations = maps.Clone(s.EnhancedRelations)
	return &c
}
