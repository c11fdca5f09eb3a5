// Package ui renders samples for the operator: the classic one-line
// console refresh, and a full-screen dashboard for terminals that want it.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/jasata/pithermon/internal/format"
	"github.com/jasata/pithermon/internal/model"
)

// Console rewrites one status line in place on every sample. When out is
// not a terminal each sample becomes its own line, so piped or redirected
// output stays readable.
type Console struct {
	out io.Writer
	tty bool
}

func NewConsole(out io.Writer) *Console {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Console{out: out, tty: tty}
}

// Record renders s onto the status line.
func (c *Console) Record(s model.Sample) error {
	end := "\n"
	if c.tty {
		end = "\r"
	}
	_, err := fmt.Fprint(c.out, format.ConsoleLine(s), end)
	return err
}

// Finish terminates the open status line before exit.
func (c *Console) Finish() {
	if c.tty {
		fmt.Fprintln(c.out)
	}
}

// StreamSink passes samples to the dashboard without ever blocking the
// sampling loop. A sample arriving while the previous one is still
// pending is dropped.
type StreamSink struct {
	ch chan model.Sample
}

func NewStreamSink() *StreamSink {
	return &StreamSink{ch: make(chan model.Sample, 1)}
}

// Samples is the dashboard's receive side.
func (s *StreamSink) Samples() <-chan model.Sample { return s.ch }

func (s *StreamSink) Record(smp model.Sample) error {
	select {
	case s.ch <- smp:
	default:
	}
	return nil
}
