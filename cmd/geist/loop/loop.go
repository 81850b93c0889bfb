// Package loopcmder provides the loop command, which runs the conversation
// loop from a note or from seed text.
package loopcmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/geist/pkg/app"
	"github.com/papercomputeco/geist/pkg/cliui"
	"github.com/papercomputeco/geist/pkg/loop"
)

type loopCommander struct {
	seed     string
	interval time.Duration
	turns    int
}

const loopLongDesc string = `Run the conversation loop.

Each turn picks a strategy at random (chatter, critic, actor or compress),
runs it over the last three outputs and prints the result. The loop starts
from --seed, or from a random note when no seed is given.

By default the loop waits for enter between turns. With --interval it
advances on a timer instead. Press Ctrl-C to stop.

Examples:
  geist loop
  geist loop --seed "what is a note for?"
  geist loop --interval 30s --turns 10`

const loopShortDesc string = "Run the conversation loop"

func NewLoopCmd() *cobra.Command {
	cmder := &loopCommander{}

	cmd := &cobra.Command{
		Use:   "loop",
		Short: loopShortDesc,
		Long:  loopLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if cmder.interval < 0 {
				return fmt.Errorf("--interval must not be negative, got %s", cmder.interval)
			}
			if cmder.turns < 0 {
				return fmt.Errorf("--turns must not be negative, got %d", cmder.turns)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := app.Bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return cmder.run(ctx, a, cmd.InOrStdin(), cliui.Output(cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&cmder.seed, "seed", "", "Text to start the loop from (default: a random note)")
	cmd.Flags().DurationVar(&cmder.interval, "interval", 0, "Advance on a timer instead of waiting for enter")
	cmd.Flags().IntVar(&cmder.turns, "turns", 0, "Stop after this many turns (0 runs until stopped)")
	app.AddProviderFlags(cmd)

	return cmd
}

func (c *loopCommander) run(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	name, seed, err := a.Seed(c.seed)
	if err != nil {
		return err
	}
	if name != "" {
		fmt.Fprintf(out, "@%s\n\n", cliui.NameStyle.Render(name))
	}

	var trigger loop.Trigger
	if c.interval > 0 {
		ticker := loop.NewTickerTrigger(c.interval)
		defer ticker.Stop()
		trigger = ticker
	} else {
		trigger = loop.NewReaderTrigger(in, out, loop.DefaultAdvancePrompt)
	}
	if c.turns > 0 {
		trigger = &limitTrigger{next: trigger, remaining: c.turns - 1}
	}

	start := time.Now()
	state, err := a.RunLoop(ctx, seed, trigger, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n  %s %d turns in %s\n",
		cliui.SuccessMark,
		state.Turn,
		cliui.FormatDuration(time.Since(start)),
	)
	return nil
}

// limitTrigger ends the loop once remaining more turns have been allowed.
type limitTrigger struct {
	next      loop.Trigger
	remaining int
}

func (t *limitTrigger) Await(ctx context.Context) error {
	if t.remaining <= 0 {
		return io.EOF
	}
	t.remaining--
	return t.next.Await(ctx)
}
