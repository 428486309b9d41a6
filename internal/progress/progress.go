// Package progress tracks how many benchmark tasks have finished and renders
// that count while the run is in flight.
package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Tracker is advanced exactly once by every task when it finishes.
type Tracker interface {
	Advance()
}

// Sink renders counter updates. Update may be called from many goroutines.
type Sink interface {
	Update(completed, total int)
}

// Renderer is a Sink with a lifecycle.
type Renderer interface {
	Sink
	Start()
	Stop()
}

// Counter is the shared completed/total state of one run.
type Counter struct {
	total     int
	completed atomic.Int64
	sink      Sink
}

// NewCounter returns a counter at 0/total that reports every advance to sink.
func NewCounter(total int, sink Sink) *Counter {
	if sink == nil {
		sink = Discard
	}
	c := &Counter{total: total, sink: sink}
	sink.Update(0, total)
	return c
}

// Advance records one finished task.
func (c *Counter) Advance() {
	completed := c.completed.Add(1)
	c.sink.Update(int(completed), c.total)
}

func (c *Counter) Completed() int { return int(c.completed.Load()) }

func (c *Counter) Total() int { return c.total }

type discard struct{}

func (discard) Update(int, int) {}
func (discard) Start()          {}
func (discard) Stop()           {}

// Discard drops every update.
var Discard Renderer = discard{}

// Lines writes one line per update; used when stdout is not a terminal.
type Lines struct {
	mu    sync.Mutex
	out   io.Writer
	title string
	last  int
}

func NewLines(out io.Writer, title string) *Lines {
	return &Lines{out: out, title: title, last: -1}
}

func (l *Lines) Start() {}

func (l *Lines) Stop() {}

func (l *Lines) Update(completed, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Updates can arrive out of order from concurrent tasks; never go backwards.
	if completed <= l.last {
		return
	}
	l.last = completed
	fmt.Fprintf(l.out, "%s %d/%d (%3.0f%%)\n", l.title, completed, total, percent(completed, total)*100)
}

func percent(completed, total int) float64 {
	if total <= 0 {
		return 1
	}
	p := float64(completed) / float64(total)
	if p > 1 {
		return 1
	}
	return p
}
