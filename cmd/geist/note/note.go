// Package notecmder provides the note command and its one-shot note actions.
package notecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/geist/pkg/app"
	"github.com/papercomputeco/geist/pkg/cliui"
)

type noteCommander struct {
	title string
	run   func(ctx context.Context, a *app.App, args []string, in io.Reader) (*app.Report, error)
}

const noteLongDesc string = `Run one note action and exit.

Each action loads random notes from the notes directory and prints the
notes it used, followed by the generated text.

Examples:
  geist note critic
  geist note compress --notes-dir ~/notes
  geist note free-text "the map is not the territory"
  echo "a draft paragraph" | geist note free-text`

const noteShortDesc string = "Run one note action"

// action wraps an App method that needs no input.
func action(fn func(*app.App, context.Context) (*app.Report, error)) func(context.Context, *app.App, []string, io.Reader) (*app.Report, error) {
	return func(ctx context.Context, a *app.App, _ []string, _ io.Reader) (*app.Report, error) {
		return fn(a, ctx)
	}
}

func NewNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: noteShortDesc,
		Long:  noteLongDesc,
	}

	cmd.AddCommand(newActionCmd("critic", "Analyse a random note as a critic",
		&noteCommander{title: "Random note analysis (critic)", run: action((*app.App).Critic)}, cobra.NoArgs))
	cmd.AddCommand(newActionCmd("actor", "Analyse a random note as an actor",
		&noteCommander{title: "Random note analysis (actor)", run: action((*app.App).Actor)}, cobra.NoArgs))
	cmd.AddCommand(newActionCmd("four-actor", "Analyse a random note against three others",
		&noteCommander{title: "Random 4 note analysis (actor)", run: action((*app.App).FourActor)}, cobra.NoArgs))
	cmd.AddCommand(newActionCmd("compress", "Compress two random notes into a metaphor",
		&noteCommander{title: "Random note combination", run: action((*app.App).Compress)}, cobra.NoArgs))
	cmd.AddCommand(newActionCmd("question", "Ask a random note a question",
		&noteCommander{title: "Random questions from note", run: action((*app.App).Question)}, cobra.NoArgs))
	cmd.AddCommand(newActionCmd("critique", "Critique a random note",
		&noteCommander{title: "Random critique from note", run: action((*app.App).Critique)}, cobra.NoArgs))
	cmd.AddCommand(newActionCmd("connect", "Connect a random note to three others",
		&noteCommander{title: "Random note with connections to random notes", run: action((*app.App).Connect)}, cobra.NoArgs))
	cmd.AddCommand(newActionCmd("free-text [text]", "Run the critic over text from the arguments or stdin",
		&noteCommander{title: "Critic over free text", run: freeText}, cobra.ArbitraryArgs))

	return cmd
}

func newActionCmd(use, short string, cmder *noteCommander, args cobra.PositionalArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := app.Bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return cmder.runAction(ctx, a, args, cmd.InOrStdin(), cliui.Output(cmd.OutOrStdout()))
		},
	}

	app.AddProviderFlags(cmd)

	return cmd
}

func (c *noteCommander) runAction(ctx context.Context, a *app.App, args []string, in io.Reader, out io.Writer) error {
	var r *app.Report
	err := cliui.Step(out, c.title, func() error {
		var err error
		r, err = c.run(ctx, a, args, in)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	app.PrintReport(out, r)
	return nil
}

var errNoText = errors.New("no text given: pass it as arguments or on stdin")

func freeText(ctx context.Context, a *app.App, args []string, in io.Reader) (*app.Report, error) {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		text = string(b)
	}
	if strings.TrimSpace(text) == "" {
		return nil, errNoText
	}

	return a.FreeText(ctx, text)
}
