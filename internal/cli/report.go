package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/udgraph/pkg/depgraph/analyze"
)

var (
	styleSection = StyleTitle.MarginTop(1)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(28)
	styleCount   = lipgloss.NewStyle().Foreground(colorWhite).Width(10).Align(lipgloss.Right)
	styleShare   = lipgloss.NewStyle().Foreground(colorDim).Width(9).Align(lipgloss.Right)
)

type reportRow struct {
	label string
	count int
	share string
}

// renderReport formats stats as a sectioned text report. Relation tables
// list at most top entries.
func renderReport(s *analyze.Stats, top int) string {
	var b strings.Builder

	section(&b, "Corpus", []reportRow{
		{label: "sentences", count: s.Sentences},
		{label: "words", count: s.Words},
		{label: "empty nodes", count: s.EmptyNodes},
		{label: "sentences with empty nodes", count: s.SentencesWithEmpty, share: percent(s.SentencesWithEmpty, s.Sentences)},
		{label: "enhanced edges", count: s.EnhancedEdges},
	})

	section(&b, "Structure", []reportRow{
		{label: "basic cycles", count: s.BasicCycles, share: percent(s.BasicCycles, s.Sentences)},
		{label: "enhanced cycles", count: s.EnhancedCycles, share: percent(s.EnhancedCycles, s.Sentences)},
		{label: "disconnected", count: s.Disconnected, share: percent(s.Disconnected, s.Sentences)},
	})

	var degrees []reportRow
	total := 0
	for _, n := range s.Degrees {
		total += n
	}
	for c := analyze.Singleton; c <= analyze.MultiParentTop; c++ {
		n := s.Degrees[c.String()]
		degrees = append(degrees, reportRow{label: c.String(), count: n, share: percent(n, total)})
	}
	section(&b, "Degree classes", degrees)

	e, p := s.Enhancements, s.PatternSentences
	section(&b, "Enhancements", []reportRow{
		{label: "basic only", count: e.BasicOnly},
		{label: "identical", count: e.Identical},
		{label: "subtype", count: e.Subtype},
		{label: "incompatible", count: e.Incompatible},
		{label: "enhanced only", count: e.EnhancedOnly},
		{label: "gapping", count: e.Gapping, share: sentences(p.Gapping)},
		{label: "coord parent sharing", count: e.CoordParentSharing, share: sentences(p.CoordParentSharing)},
		{label: "coord dependent sharing", count: e.CoordDependentSharing, share: sentences(p.CoordDependentSharing)},
		{label: "controlled subject", count: e.ControlledSubject, share: sentences(p.ControlledSubject)},
		{label: "relative clause", count: e.RelativeClause, share: sentences(p.RelativeClause)},
		{label: "case marking", count: e.CaseMarking, share: sentences(p.CaseMarking)},
	})

	section(&b, "Basic relations", topRelations(s.BasicRelations, top))
	section(&b, "Enhanced relations", topRelations(s.EnhancedRelations, top))
	return b.String()
}

func section(b *strings.Builder, title string, rows []reportRow) {
	b.WriteString(styleSection.Render(title))
	b.WriteByte('\n')
	if len(rows) == 0 {
		b.WriteString("  " + StyleDim.Render("none") + "\n")
		return
	}
	for _, r := range rows {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			styleLabel.Render(r.label),
			styleCount.Render(fmt.Sprint(r.count)),
			styleShare.Render(r.share))
		b.WriteString("  " + strings.TrimRight(line, " ") + "\n")
	}
}

// topRelations orders counts by frequency, then by name.
func topRelations(counts map[string]int, top int) []reportRow {
	total := 0
	rows := make([]reportRow, 0, len(counts))
	for rel, n := range counts {
		total += n
		rows = append(rows, reportRow{label: rel, count: n})
	}
	slices.SortFunc(rows, func(a, b reportRow) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return strings.Compare(a.label, b.label)
	})
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	for i := range rows {
		rows[i].share = percent(rows[i].count, total)
	}
	return rows
}

func percent(n, total int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}

func sentences(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d sent", n)
}
