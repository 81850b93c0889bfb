// Package menucmder provides the interactive numbered menu, geist's default
// action.
package menucmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/geist/pkg/app"
	"github.com/papercomputeco/geist/pkg/cliui"
	"github.com/papercomputeco/geist/pkg/loop"
)

const menuLongDesc string = `Open the interactive menu.

Each numbered command loads random notes from the notes directory and runs
one generation over them. Enter the number of a command and press enter.

Commands:
  1  critic      Analyse a random note as a critic
  2  actor       Analyse a random note as an actor
  3  four-actor  Analyse a random note against three others
  4  compress    Compress two random notes into a metaphor
  5  question    Ask a random note a question
  6  critique    Critique a random note
  7  connect     Connect a random note to three others
  8  free text   Run the critic over text you type
  9  chat        Talk to an agent primed with your notes
  10 loop        Run the conversation loop
  11 quit`

const menuShortDesc string = "Open the interactive menu"

// InvalidCommand is printed for input that is not a menu number.
const InvalidCommand = "Invalid command. Please try again."

// StopWord ends the loop from the menu and returns to it.
const StopWord = "q"

// DefaultRounds is how many rounds of notes the menu's chat agent memorizes.
const DefaultRounds = 3

type menuItem struct {
	label string

	// action returns errQuit to leave the menu.
	action func(m *menu, ctx context.Context) error
}

var errQuit = errors.New("quit")

// commandContext scopes one menu command. An interrupt cancels only it.
var commandContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

type menu struct {
	app *app.App

	// in is the only reader of the menu's input; every command reads
	// through it.
	in  *loop.Lines
	out io.Writer
}

var items = []menuItem{
	{"Load random note & analyse (critic)", reportAction("Random note analysis (critic)", (*app.App).Critic)},
	{"Load random note & analyse (actor)", reportAction("Random note analysis (actor)", (*app.App).Actor)},
	{"Load 4 random notes & analyse (actor)", reportAction("Random 4 note analysis (actor)", (*app.App).FourActor)},
	{"Load two random notes & compress", reportAction("Random note combination", (*app.App).Compress)},
	{"Load random note & question", reportAction("Random questions from note", (*app.App).Question)},
	{"Load random note & critique", reportAction("Random critique from note", (*app.App).Critique)},
	{"Load random note & connect to random notes", reportAction("Random note with connections to random notes", (*app.App).Connect)},
	{"Free text input", (*menu).freeText},
	{"Conversation with a geist", (*menu).conversation},
	{"Conversation loop", (*menu).loop},
	{"Quit", func(*menu, context.Context) error { return errQuit }},
}

func NewMenuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: menuShortDesc,
		Long:  menuLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.Bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return Run(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	app.AddProviderFlags(cmd)

	return cmd
}

// Run shows the menu on out and runs the commands read from in until quit
// or end of input. Each command gets its own interrupt-aware context, so an
// interrupt stops the running command and returns to the menu.
func Run(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	out = cliui.Output(out)
	m := &menu{app: a, in: loop.NewLines(in), out: out}
	for {
		m.printMenu()

		line, err := m.in.Next(ctx)
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading command: %w", err)
		}

		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil || n < 1 || n > len(items) {
			fmt.Fprintln(out, InvalidCommand)
			continue
		}

		actionCtx, stop := commandContext(ctx)
		err = items[n-1].action(m, actionCtx)
		interrupted := actionCtx.Err() != nil && ctx.Err() == nil
		stop()

		switch {
		case errors.Is(err, errQuit):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case interrupted:
			fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("interrupted"))
		case err != nil:
			fmt.Fprintf(out, "  %s %v\n\n", cliui.FailMark, err)
		}
	}
}

func (m *menu) printMenu() {
	fmt.Fprintln(m.out, cliui.HeaderStyle.Render("Commands:"))
	for i, it := range items {
		fmt.Fprintf(m.out, "[%d] %s\n", i+1, it.label)
	}
}

// reportAction runs one note action under a spinner and prints its report.
func reportAction(title string, fn func(*app.App, context.Context) (*app.Report, error)) func(*menu, context.Context) error {
	return func(m *menu, ctx context.Context) error {
		var r *app.Report
		err := cliui.Step(m.out, title, func() error {
			var err error
			r, err = fn(m.app, ctx)
			return err
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(m.out)
		app.PrintReport(m.out, r)
		return nil
	}
}

func (m *menu) freeText(ctx context.Context) error {
	fmt.Fprint(m.out, "> ")
	text, err := m.in.Next(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var r *app.Report
	err = cliui.Step(m.out, "Critic over free text", func() error {
		var err error
		r, err = m.app.FreeText(ctx, text)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, cliui.DimStyle.Render("---"))
	cliui.Print(m.out, r.Text)
	fmt.Fprintln(m.out)
	return nil
}

func (m *menu) conversation(ctx context.Context) error {
	fmt.Fprintln(m.out, "memorizing notes")
	ag, err := m.app.NewAgent(ctx, DefaultRounds, func() { fmt.Fprint(m.out, ".") })
	fmt.Fprintln(m.out)
	if err != nil {
		return err
	}

	fmt.Fprintf(m.out, "%s\n\n", cliui.DimStyle.Render(fmt.Sprintf("type %s to return to the menu", app.ExitCommand)))
	return app.Converse(ctx, ag, m.in, m.out)
}

func (m *menu) loop(ctx context.Context) error {
	name, seed, err := m.app.Seed("")
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "@%s\n\n", cliui.NameStyle.Render(name))

	prompt := fmt.Sprintf("Press enter to continue (%s to stop)...", StopWord)
	trigger := loop.NewLinesTrigger(m.in, m.out, prompt).WithStop(StopWord)

	state, err := m.app.RunLoop(ctx, seed, trigger, m.out)
	m.app.Logger.Debug("loop finished", "turns", state.Turn)
	return err
}
