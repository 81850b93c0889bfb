// Package initcmder provides the init command for initializing a local .geist
// directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/geist/pkg/cliui"
	"github.com/papercomputeco/geist/pkg/config"
	"github.com/papercomputeco/geist/pkg/dotdir"
)

type initCommander struct {
	preset string
}

const initLongDesc string = `Initialize a new .geist/ directory in the current working directory.

Creates a local .geist/ directory that takes precedence over the default
~/.geist/ directory, and writes a config.toml into it. An existing
config.toml is left alone unless --preset is given.

--preset is either a built-in preset name (openai, anthropic, ollama) or an
http(s) URL of a config.toml to fetch.

Examples:
  geist init
  geist init --preset ollama
  geist init --preset https://example.com/geist/config.toml`

const initShortDesc string = "Initialize a local .geist/ directory"

const fetchTimeout = 15 * time.Second

// maxPresetSize bounds a fetched preset.
const maxPresetSize = 1 << 20

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cliui.Output(cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Preset name or URL of a config.toml")
	_ = cmd.RegisterFlagCompletionFunc("preset", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *initCommander) run(ctx context.Context, out io.Writer) error {
	dir, created, err := dotdir.NewManager().InitLocal()
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Initialized .geist directory: %s\n", dir)
	} else {
		fmt.Fprintf(out, "Already initialized: %s\n", dir)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return err
	}

	path := cfger.GetTarget()
	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists && c.preset == "" {
		fmt.Fprintf(out, "  %s %s\n", cliui.DimStyle.Render("keeping"), path)
		return nil
	}

	cfg, source, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "  %s wrote %s %s\n", cliui.SuccessMark, path, cliui.DimStyle.Render("("+source+")"))
	return nil
}

// resolve returns the config to write and a description of where it came
// from.
func (c *initCommander) resolve(ctx context.Context) (*config.Config, string, error) {
	switch {
	case c.preset == "":
		return config.NewDefaultConfig(), "defaults", nil
	case strings.HasPrefix(c.preset, "http://") || strings.HasPrefix(c.preset, "https://"):
		cfg, err := fetchPreset(ctx, c.preset)
		if err != nil {
			return nil, "", err
		}
		return cfg, c.preset, nil
	default:
		cfg, err := config.PresetConfig(c.preset)
		if err != nil {
			return nil, "", err
		}
		return cfg, "preset " + c.preset, nil
	}
}

func fetchPreset(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating preset request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching preset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching preset: %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPresetSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}
	if len(data) > maxPresetSize {
		return nil, errors.New("preset is larger than 1 MiB")
	}

	return config.ParseConfigTOML(data)
}
