// Package geistcmder is the root geist command.
package geistcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/geist/cmd/geist/auth"
	chatcmder "github.com/papercomputeco/geist/cmd/geist/chat"
	configcmder "github.com/papercomputeco/geist/cmd/geist/config"
	initcmder "github.com/papercomputeco/geist/cmd/geist/init"
	loopcmder "github.com/papercomputeco/geist/cmd/geist/loop"
	menucmder "github.com/papercomputeco/geist/cmd/geist/menu"
	notecmder "github.com/papercomputeco/geist/cmd/geist/note"
	versioncmder "github.com/papercomputeco/geist/cmd/geist/version"
	"github.com/papercomputeco/geist/pkg/app"
)

const geistLongDesc string = `Geist is a writing companion for a directory of notes.

It reads random notes, asks questions of them, critiques them, compresses
them into metaphors and draws connections between them. It can also hold a
conversation backed by a memory of your notes, or run an open-ended loop
that feeds its own output back in.

Run without a subcommand to open the interactive menu:
  geist                Open the menu
  geist note critic    Run one note action
  geist chat           Talk to an agent primed with your notes
  geist loop           Run the conversation loop`

const geistShortDesc string = "Geist - a writing companion for your notes"

func NewGeistCmd() *cobra.Command {
	menu := menucmder.NewMenuCmd()

	cmd := &cobra.Command{
		Use:          "geist",
		Short:        geistShortDesc,
		Long:         geistLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         menu.RunE,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .geist/ config directory")
	cmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
	cmd.PersistentFlags().Uint64("random-seed", 0, "Seed every random choice (0 picks a random seed)")

	app.AddProviderFlags(cmd)

	// Add subcommands
	cmd.AddCommand(menu)
	cmd.AddCommand(notecmder.NewNoteCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(loopcmder.NewLoopCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
