package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/papercomputeco/geist/pkg/agent"
	"github.com/papercomputeco/geist/pkg/cliui"
	"github.com/papercomputeco/geist/pkg/loop"
)

// ExitCommand ends a conversation.
const ExitCommand = "/exit"

// PrintReport writes the notes a report drew on, then its text.
func PrintReport(w io.Writer, r *Report) {
	for _, name := range r.Notes {
		fmt.Fprintf(w, "@%s\n\n", cliui.NameStyle.Render(name))
	}
	fmt.Fprintln(w, cliui.DimStyle.Render("@@@"))
	cliui.Print(w, r.Text)
	fmt.Fprintln(w)
}

// Converse reads lines from in and answers each through ag until EOF or
// ExitCommand. Embedding failures are reported and the conversation goes on.
// A cancelled context ends the conversation even while waiting for input.
func Converse(ctx context.Context, ag *agent.Agent, in *loop.Lines, out io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "> ")
		line, err := in.Next(ctx)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading input: %w", err)
		}
		eof := err != nil

		text := strings.TrimSpace(line)
		switch {
		case text == ExitCommand:
			return nil
		case text == "":
			if eof {
				fmt.Fprintln(out)
				return nil
			}
			continue
		}

		reply, err := ag.Speak(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "  %s %v\n\n", cliui.FailMark, err)
		} else {
			fmt.Fprintln(out, cliui.DimStyle.Render("---"))
			cliui.Print(out, reply)
			fmt.Fprintln(out)
		}

		if eof {
			return nil
		}
	}
}

// RunLoop seeds the conversation loop with seed and runs it until the
// trigger ends it or ctx is cancelled, printing each turn. A cancelled
// context is not an error.
func (a *App) RunLoop(ctx context.Context, seed string, trigger loop.Trigger, out io.Writer) (loop.State, error) {
	state, err := loop.Run(ctx, loop.NewState(seed), a.Rand, a.Runner(), trigger, func(o loop.Output) {
		fmt.Fprintf(out, "%s %s\n",
			cliui.HeaderStyle.Render(fmt.Sprintf("[%d]", o.Turn)),
			cliui.NameStyle.Render(string(o.Strategy)),
		)
		cliui.Print(out, o.Text)
		fmt.Fprintln(out)
	})
	if errors.Is(err, context.Canceled) {
		return state, nil
	}
	return state, err
}
