package loop

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Trigger blocks until the next turn may start.
type Trigger interface {
	Await(ctx context.Context) error
}

// ReaderTrigger waits for a line of input, printing a prompt first.
type ReaderTrigger struct {
	lines  *Lines
	w      io.Writer
	prompt string
	stop   string
}

// DefaultAdvancePrompt is shown by ReaderTrigger before each wait.
const DefaultAdvancePrompt = "Press enter to continue..."

// NewReaderTrigger reads lines from r and writes prompt to w. An empty
// prompt writes nothing.
func NewReaderTrigger(r io.Reader, w io.Writer, prompt string) *ReaderTrigger {
	return NewLinesTrigger(NewLines(r), w, prompt)
}

// NewLinesTrigger waits on lines shared with other readers of the same
// input.
func NewLinesTrigger(lines *Lines, w io.Writer, prompt string) *ReaderTrigger {
	return &ReaderTrigger{lines: lines, w: w, prompt: prompt}
}

// WithStop makes a line reading exactly word (ignoring surrounding space)
// report io.EOF, which ends Run cleanly.
func (t *ReaderTrigger) WithStop(word string) *ReaderTrigger {
	t.stop = word
	return t
}

// Await returns once a line is read. A cancelled context returns early and
// leaves the next line to the next reader.
func (t *ReaderTrigger) Await(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.prompt != "" && t.w != nil {
		fmt.Fprint(t.w, t.prompt)
	}

	text, err := t.lines.Next(ctx)
	if err == nil && t.stop != "" && strings.TrimSpace(text) == t.stop {
		return io.EOF
	}
	return err
}

// ChannelTrigger waits for a value on a channel. A closed channel reports
// io.EOF.
type ChannelTrigger struct {
	ch <-chan struct{}
}

// NewChannelTrigger waits on ch.
func NewChannelTrigger(ch <-chan struct{}) *ChannelTrigger {
	return &ChannelTrigger{ch: ch}
}

func (t *ChannelTrigger) Await(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-t.ch:
		if !ok {
			return io.EOF
		}
		return nil
	}
}

// TickerTrigger advances on a fixed interval.
type TickerTrigger struct {
	ticker *time.Ticker
}

// NewTickerTrigger ticks every interval. Call Stop when done.
func NewTickerTrigger(interval time.Duration) *TickerTrigger {
	return &TickerTrigger{ticker: time.NewTicker(interval)}
}

func (t *TickerTrigger) Await(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.ticker.C:
		return nil
	}
}

// Stop releases the ticker.
func (t *TickerTrigger) Stop() {
	t.ticker.Stop()
}
