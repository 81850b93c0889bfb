// Package configcmder provides the config command for managing persistent
// geist configuration stored in the .geist/ directory.
package configcmder

import (
	"strings"

	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent geist configuration.

Configuration is stored as config.toml in the .geist/ directory and provides
default values for command flags. Environment variables (GEIST_*, or the
legacy API_PATH and API_KEY), a .env file in the working directory and CLI
flags all take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  generation.provider, generation.target, generation.api_key,
  generation.completion_model, generation.chat_model, generation.max_tokens,
  embedding.provider, embedding.target, embedding.api_key,
  embedding.model, embedding.cache_size,
  notes.dir, agent.persona,
  breaker.max_failures, breaker.timeout_seconds

Use subcommands to get, set, or list configuration values:
  geist config set <key> <value>    Set a configuration value
  geist config get <key>            Get a configuration value
  geist config list                 List all configuration values

Examples:
  geist config set generation.provider anthropic
  geist config set notes.dir ~/notes
  geist config get embedding.model
  geist config list`

const configShortDesc string = "Manage persistent geist configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// display masks secrets so keys never end up in terminal scrollback.
func display(key, value string) string {
	if value == "" || !strings.HasSuffix(key, ".api_key") {
		return value
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
