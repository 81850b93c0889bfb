// Package authcmder provides the auth command for storing API credentials.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/geist/pkg/cliui"
	"github.com/papercomputeco/geist/pkg/config"
	"github.com/papercomputeco/geist/pkg/llm/provider"
)

type authCommander struct {
	embedding bool
	list      bool
	remove    bool

	configDir string
	in        io.Reader
	out       io.Writer
}

const authLongDesc string = `Store API credentials for LLM providers.

Keys are stored in config.toml in the .geist/ directory. By default the key
is used for generation. With --embedding it is stored separately for the
embedding provider; without one, embedding falls back to the generation key.

The GEIST_GENERATION_API_KEY and legacy API_KEY environment variables
override stored keys.

Supported providers: openai, anthropic

Examples:
  geist auth openai                     Prompt for an OpenAI API key
  geist auth anthropic                  Prompt for an Anthropic API key
  geist auth openai --embedding         Store a key for embeddings only
  geist auth --list                     Show which keys are stored
  geist auth --remove                   Remove the stored generation key
  echo $KEY | geist auth openai         Pipe API key from stdin`

const authShortDesc string = "Store API credentials for LLM providers"

// supportedProviders are the providers that take an API key.
func supportedProviders() []string {
	var out []string
	for _, p := range provider.SupportedProviders() {
		if provider.NeedsAPIKey(p) {
			out = append(out, p)
		}
	}
	return out
}

func NewAuthCmd() *cobra.Command {
	cmder := &authCommander{}

	cmd := &cobra.Command{
		Use:   "auth [provider]",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.in = cmd.InOrStdin()
			cmder.out = cliui.Output(cmd.OutOrStdout())

			switch {
			case cmder.list:
				return cmder.runList()
			case cmder.remove:
				return cmder.runRemove()
			default:
				if len(args) == 0 {
					return fmt.Errorf("provider argument required\n\nSupported providers: %s",
						strings.Join(supportedProviders(), ", "))
				}
				return cmder.runAuth(args[0])
			}
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return supportedProviders(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&cmder.embedding, "embedding", false, "Store or remove the embedding key instead of the generation key")
	cmd.Flags().BoolVar(&cmder.list, "list", false, "List stored credentials")
	cmd.Flags().BoolVar(&cmder.remove, "remove", false, "Remove the stored key")

	return cmd
}

func (c *authCommander) key() string {
	if c.embedding {
		return "embedding.api_key"
	}
	return "generation.api_key"
}

func (c *authCommander) providerKey() string {
	if c.embedding {
		return "embedding.provider"
	}
	return "generation.provider"
}

func (c *authCommander) runAuth(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))

	if !provider.NeedsAPIKey(name) {
		return fmt.Errorf("unsupported provider: %q\n\nSupported providers: %s",
			name, strings.Join(supportedProviders(), ", "))
	}
	if c.embedding && name != provider.OpenAI {
		return fmt.Errorf("%s has no embeddings API; only openai embedding keys can be stored", name)
	}

	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	apiKey, err := c.readAPIKey(name)
	if err != nil {
		return err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}

	if err := cfger.SetConfigValue(c.key(), apiKey); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Stored %s credentials %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(name),
		cliui.DimStyle.Render("(as "+c.key()+")"),
	)

	configured, err := cfger.GetConfigValue(c.providerKey())
	if err == nil && configured != name {
		fmt.Fprintf(c.out, "  %s %s is %q. Run 'geist config set %s %s' to use this key.\n",
			cliui.DimStyle.Render("!"),
			c.providerKey(), configured,
			c.providerKey(), name,
		)
	}

	fmt.Fprintln(c.out)
	return nil
}

func (c *authCommander) runList() error {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.HeaderStyle.Render("Stored credentials"))
	for _, key := range []string{"generation.api_key", "embedding.api_key"} {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Fprintf(c.out, "  %s  %s\n", cliui.DimStyle.Render("●"), cliui.DimStyle.Render(key+" not set"))
			continue
		}
		fmt.Fprintf(c.out, "  %s  %s\n", cliui.SuccessMark, cliui.NameStyle.Render(key))
	}
	fmt.Fprintln(c.out)

	return nil
}

func (c *authCommander) runRemove() error {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SetConfigValue(c.key(), ""); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Removed %s.\n\n", cliui.SuccessMark, cliui.NameStyle.Render(c.key()))
	return nil
}

// readAPIKey reads an API key from the command's input. A terminal gets a
// hidden prompt; anything else is read up to the first newline.
func (c *authCommander) readAPIKey(name string) (string, error) {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		fmt.Fprintf(c.out, "Enter API key for %s: ", name)

		keyBytes, err := term.ReadPassword(int(f.Fd())) //nolint:gosec // fd fits in int
		fmt.Fprintln(c.out) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return string(keyBytes), nil
	}

	scanner := bufio.NewScanner(c.in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
