package conllu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// MaxLineSize is the longest line the reader accepts.
const MaxLineSize = 1 << 20

// Block is the raw text of one sentence: its lines without the terminating
// blank line.
type Block struct {
	Index int      // 0-based position in the stream
	Line  int      // 1-based line number of the first line
	Lines []string // comment and node lines
}

// Parse builds the sentence graph of b.
func (b Block) Parse(logger *log.Logger) (*depgraph.Graph, error) {
	return depgraph.FromRecords(b.Lines, logger)
}

// Reader splits a CoNLL-U stream into sentence blocks.
type Reader struct {
	sc    *bufio.Scanner
	line  int
	index int
	done  bool
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{sc: sc}
}

// Next returns the next sentence block. Runs of blank lines separate
// sentences; a missing blank line at the end of input is tolerated. Next
// returns io.EOF once the input is exhausted.
func (r *Reader) Next() (Block, error) {
	if r.done {
		return Block{}, io.EOF
	}
	var b Block
	for r.sc.Scan() {
		r.line++
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(b.Lines) == 0 {
				continue
			}
			return r.emit(b), nil
		}
		if len(b.Lines) == 0 {
			b.Line = r.line
		}
		b.Lines = append(b.Lines, line)
	}
	r.done = true
	if err := r.sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Block{}, &LineError{Line: r.line + 1, Err: err}
		}
		return Block{}, err
	}
	if len(b.Lines) == 0 {
		return Block{}, io.EOF
	}
	return r.emit(b), nil
}

func (r *Reader) emit(b Block) Block {
	b.Index = r.index
	r.index++
	return b
}

// LineError reports a read failure at a specific input line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// ReadAll reads up to limit blocks from r (all of them if limit <= 0).
func ReadAll(ctx context.Context, r io.Reader, limit int) ([]Block, error) {
	var blocks []Block
	err := Stream(ctx, r, func(b Block) error {
		blocks = append(blocks, b)
		if limit > 0 && len(blocks) >= limit {
			return errStop
		}
		return nil
	})
	return blocks, err
}

var errStop = errors.New("stop")

// Stream calls fn for every block of r in order. It stops at the end of
// input, on the first error from fn, or when ctx is done.
func Stream(ctx context.Context, r io.Reader, fn func(Block) error) error {
	rd := NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			if err == errStop {
				return nil
			}
			return err
		}
	}
}
