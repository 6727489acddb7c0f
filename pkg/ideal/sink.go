package ideal

import (
	"fmt"
	"io"
	"sync"
)

// Sink consumes ideals. Visit returns false to stop the walk early; the
// engines check the result after every ideal.
type Sink interface {
	Visit(v View) bool
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(View) bool

// Visit calls f(v).
func (f SinkFunc) Visit(v View) bool { return f(v) }

type discard struct{}

func (discard) Visit(View) bool { return true }

// Discard accepts every ideal and does nothing. Benchmarks use it.
var Discard Sink = discard{}

// Counter counts the ideals it sees. It is not safe for concurrent use;
// give each worker its own.
type Counter struct {
	N uint64
}

// Visit increments the count.
func (c *Counter) Visit(View) bool {
	c.N++
	return true
}

// Collector keeps a copy of every ideal in the chosen mode. When Limit is
// positive it stops the walk once Limit ideals are collected.
type Collector struct {
	Mode   Mode
	Limit  int
	Ideals [][]int
}

// Visit appends a copy of v.
func (c *Collector) Visit(v View) bool {
	c.Ideals = append(c.Ideals, v.Form(c.Mode))
	return c.Limit <= 0 || len(c.Ideals) < c.Limit
}

// Writer prints one ideal per line. The output matches the command line
// listing: a Go slice literal such as "[1 2 5]", optionally prefixed with
// the worker id as "3  : ". Writer is safe for concurrent use, so parallel
// workers can share one.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	mode   Mode
	worker bool
	err    error
}

// NewWriter returns a Writer printing ideals to w in the given mode.
func NewWriter(w io.Writer, mode Mode) *Writer {
	return &Writer{w: w, mode: mode}
}

// WithWorkerPrefix makes the writer prefix every line with the worker id.
func (w *Writer) WithWorkerPrefix() *Writer {
	w.worker = true
	return w
}

// Visit prints v. It stops the walk after the first write error.
func (w *Writer) Visit(v View) bool {
	form := v.Form(w.mode)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return false
	}
	if w.worker {
		_, w.err = fmt.Fprintf(w.w, "%-3d: %v\n", v.Worker(), form)
	} else {
		_, w.err = fmt.Fprintf(w.w, "%v\n", form)
	}
	return w.err == nil
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
