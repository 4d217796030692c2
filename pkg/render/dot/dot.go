package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// Format names accepted by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Options configures diagram generation.
type Options struct {
	// Enhanced draws the DEPS graph instead of the basic tree.
	Enhanced bool
	// Detailed adds lemma and UPOS to node labels.
	Detailed bool
}

// ToDOT converts a sentence to Graphviz DOT source.
func ToDOT(g *depgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	if id := g.SentID(); id != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", id)
	}
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=\"\", shape=point, width=0.1];\n", depgraph.Root.String())

	var order []string
	for _, n := range g.Nodes(false) {
		if n.ID.IsEmpty() && !opts.Enhanced {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(nodeAttrs(n, opts.Detailed), ", "))
		order = append(order, strconv.Quote(n.ID.String()))
	}
	if len(order) > 1 {
		// Invisible chain keeps words in sentence order.
		fmt.Fprintf(&buf, "  { rank=same; %s [style=invis]; }\n", strings.Join(order, " -> "))
	}

	buf.WriteString("\n")
	if opts.Enhanced {
		for _, a := range g.Arcs() {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", a.From.String(), a.To.String(), a.Rel)
		}
	} else {
		for _, n := range g.Words() {
			if n.Head.IsZero() || !g.Has(n.Head) {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.Head.String(), n.ID.String(), n.Deprel)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *depgraph.Node, detailed bool) []string {
	label := n.ID.String()
	if n.Form != "" {
		label += "\n" + n.Form
	}
	if detailed {
		label += "\n" + n.Lemma + " " + n.UPOS
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.ID.IsEmpty() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render produces the sentence diagram in the named format.
func Render(ctx context.Context, g *depgraph.Graph, format string, opts Options) ([]byte, error) {
	src := ToDOT(g, opts)
	switch format {
	case FormatDOT:
		return []byte(src), nil
	case FormatSVG:
		return RenderSVG(ctx, src)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
