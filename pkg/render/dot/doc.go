// Package dot renders a sentence graph as a Graphviz diagram.
//
// # Usage
//
// Convert a sentence to DOT, then render it to SVG:
//
//	src := dot.ToDOT(g, dot.Options{Enhanced: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Graphs
//
// The basic tree draws one arrow from each word's HEAD to the word, labeled
// with DEPREL. The enhanced graph draws every DEPS edge instead and includes
// empty nodes, which are shown with dashed outlines. The root is a small
// point so the diagram stays readable for long sentences.
//
// Nodes are laid out left to right in sentence order and labeled with their
// id and form. Multiword ranges are not drawn.
//
// # Dependencies
//
// [RenderSVG] uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no external binary is needed.
package dot
