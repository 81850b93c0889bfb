// Package chatcmder provides the chat command: a conversation with an agent
// primed from random notes.
package chatcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/geist/pkg/agent"
	"github.com/papercomputeco/geist/pkg/app"
	"github.com/papercomputeco/geist/pkg/cliui"
	"github.com/papercomputeco/geist/pkg/loop"
)

type chatCommander struct {
	rounds int
}

const chatLongDesc string = `Talk to an agent primed with your notes.

Before the conversation starts the agent memorizes --rounds batches of three
random notes, then generates and memorizes --rounds connections between
fresh notes. Each line you type is answered using the memories closest to it.

Type /exit or press Ctrl-D to leave.

Examples:
  geist chat
  geist chat --rounds 5 --notes-dir ~/notes`

const chatShortDesc string = "Talk to an agent primed with your notes"

// DefaultRounds is the default number of priming rounds.
const DefaultRounds = 3

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if cmder.rounds < 0 {
				return fmt.Errorf("--rounds must not be negative, got %d", cmder.rounds)
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

	cmd.Flags().IntVar(&cmder.rounds, "rounds", DefaultRounds, "Rounds of notes to memorize before the conversation")
	app.AddProviderFlags(cmd)

	return cmd
}

func (c *chatCommander) run(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	var ag *agent.Agent
	err := cliui.Step(out, "Memorizing notes", func() error {
		var err error
		ag, err = a.NewAgent(ctx, c.rounds, nil)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "  %s %s\n\n",
		cliui.KeyStyle.Render("memories:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", ag.Bank().Len())),
	)

	err = app.Converse(ctx, ag, loop.NewLines(in), out)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out)
		return nil
	}
	return err
}
