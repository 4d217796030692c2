package conllu

import (
	"bufio"
	"io"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// Writer writes sentences in CoNLL-U, each followed by a blank line.
// Call Flush when done.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer that buffers output to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteGraph writes the records of g.
func (w *Writer) WriteGraph(g *depgraph.Graph) error {
	return w.WriteLines(g.Records())
}

// WriteLines writes one sentence given as lines.
func (w *Writer) WriteLines(lines []string) error {
	for _, line := range lines {
		if _, err := w.w.WriteString(line); err != nil {
			return err
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.w.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// Write writes graphs to w and flushes.
func Write(w io.Writer, graphs ...*depgraph.Graph) error {
	cw := NewWriter(w)
	for _, g := range graphs {
		if err := cw.WriteGraph(g); err != nil {
			return err
		}
	}
	return cw.Flush()
}
