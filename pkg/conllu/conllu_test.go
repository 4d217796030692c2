package conllu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const twoSentences = "# sent_id = 1\n" +
	"1\tJohn\tJohn\tPROPN\t_\t_\t2\tnsubj\t2:nsubj\t_\n" +
	"2\truns\trun\tVERB\t_\t_\t0\troot\t0:root\t_\n" +
	"\n" +
	"\n" +
	"# sent_id = 2\r\n" +
	"1\tHi\thi\tINTJ\t_\t_\t0\troot\t0:root\t_\n"

func TestReader_Next(t *testing.T) {
	r := NewReader(strings.NewReader(twoSentences))

	b1, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if b1.Index != 0 || b1.Line != 1 || len(b1.Lines) != 3 {
		t.Errorf("block 1 = index %d line %d with %d lines", b1.Index, b1.Line, len(b1.Lines))
	}

	b2, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if b2.Index != 1 || b2.Line != 6 {
		t.Errorf("block 2 = index %d line %d, want 1 and 6", b2.Index, b2.Line)
	}
	if b2.Lines[0] != "# sent_id = 2" {
		t.Errorf("carriage return not trimmed: %q", b2.Lines[0])
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next at end = %v, want io.EOF", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next after end = %v, want io.EOF", err)
	}
}

func TestReader_Empty(t *testing.T) {
	for _, in := range []string{"", "\n\n  \n"} {
		if _, err := NewReader(strings.NewReader(in)).Next(); err != io.EOF {
			t.Errorf("Next(%q) = %v, want io.EOF", in, err)
		}
	}
}

func TestReader_LineTooLong(t *testing.T) {
	in := "1\t" + strings.Repeat("x", MaxLineSize+1) + "\n"
	_, err := NewReader(strings.NewReader(in)).Next()
	var le *LineError
	if !errors.As(err, &le) {
		t.Fatalf("Next() = %v, want *LineError", err)
	}
	if le.Line != 1 {
		t.Errorf("Line = %d, want 1", le.Line)
	}
}

func TestReadAll_Limit(t *testing.T) {
	ctx := context.Background()

	all, err := ReadAll(ctx, strings.NewReader(twoSentences), 0)
	if err != nil || len(all) != 2 {
		t.Fatalf("ReadAll() = %d blocks, %v", len(all), err)
	}
	one, err := ReadAll(ctx, strings.NewReader(twoSentences), 1)
	if err != nil || len(one) != 1 {
		t.Errorf("ReadAll(limit 1) = %d blocks, %v", len(one), err)
	}
}

func TestStream_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Stream(ctx, strings.NewReader(twoSentences), func(Block) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Stream() = %v, want context.Canceled", err)
	}
}

func TestStream_CallbackError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Stream(context.Background(), strings.NewReader(twoSentences), func(Block) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("Stream() = %v after %d calls", err, calls)
	}
}

func TestRoundTrip(t *testing.T) {
	blocks, err := ReadAll(context.Background(), strings.NewReader(twoSentences), 0)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, b := range blocks {
		g, err := b.Parse(log.New(io.Discard))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if err := w.WriteGraph(g); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	want := strings.ReplaceAll(strings.Replace(twoSentences, "\n\n\n", "\n\n", 1), "\r", "") + "\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
}

func TestWrite(t *testing.T) {
	blocks, _ := ReadAll(context.Background(), strings.NewReader(twoSentences), 1)
	g, err := blocks[0].Parse(log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, g, g); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n\n"); n != 2 {
		t.Errorf("got %d sentence terminators, want 2", n)
	}
}
