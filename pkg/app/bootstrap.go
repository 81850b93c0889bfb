package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/geist/pkg/config"
	"github.com/papercomputeco/geist/pkg/logger"
)

// Globals are the persistent flags every geist command inherits.
type Globals struct {
	ConfigDir string
	Debug     bool
	LogFile   string

	// Seed fixes every random choice when non-zero.
	Seed uint64
}

// GlobalsFrom reads the persistent flags registered by the root command.
// Missing flags keep their zero value.
func GlobalsFrom(cmd *cobra.Command) Globals {
	var g Globals
	g.ConfigDir, _ = cmd.Flags().GetString("config-dir")
	g.Debug, _ = cmd.Flags().GetBool("debug")
	g.LogFile, _ = cmd.Flags().GetString("log-file")
	g.Seed, _ = cmd.Flags().GetUint64("random-seed")
	return g
}

// Logger builds the CLI logger: pretty output on stderr and, with LogFile
// set, JSON lines appended to that file. The returned closer releases the
// file.
func (g Globals) Logger(stderr io.Writer) (*slog.Logger, io.Closer, error) {
	pretty := logger.New(
		logger.WithPretty(true),
		logger.WithWriter(stderr),
		logger.WithDebug(g.Debug),
	)
	if g.LogFile == "" {
		return pretty, nopCloser{}, nil
	}

	f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithJSON(true),
		logger.WithWriter(f),
		logger.WithDebug(true),
	)
	return logger.Multi(pretty, file), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// intFlags are the provider flags registered as ints.
var intFlags = map[string]bool{
	config.FlagMaxTokens:      true,
	config.FlagEmbeddingCache: true,
}

// AddProviderFlags registers the provider flags on cmd. Their values are
// read back through viper in Bootstrap, not through variables.
func AddProviderFlags(cmd *cobra.Command) {
	for _, key := range config.ProviderFlags {
		if intFlags[key] {
			config.AddIntFlag(cmd, config.Flags, key, new(int))
			continue
		}
		config.AddStringFlag(cmd, config.Flags, key, new(string))
	}
}

// Bootstrap resolves configuration for cmd (defaults, config.toml, .env,
// environment, then any provider flags registered on cmd), validates it and
// builds an App. Close the App to release its resources.
func Bootstrap(cmd *cobra.Command, opts ...Option) (*App, error) {
	g := GlobalsFrom(cmd)

	v, err := config.InitViper(g.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, config.ProviderFlags)

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, closer, err := g.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	base := []Option{WithLogger(log)}
	if g.Seed != 0 {
		base = append(base, WithSeed(g.Seed))
	}

	a, err := New(cfg, append(base, opts...)...)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	a.closers = append(a.closers, closer)

	log.Debug("configuration resolved",
		"generation_provider", cfg.Generation.Provider,
		"generation_target", cfg.Generation.Target,
		"embedding_provider", cfg.Embedding.Provider,
		"notes_dir", cfg.Notes.Dir,
	)
	return a, nil
}
