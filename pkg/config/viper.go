package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/geist/pkg/dotdir"
)

// DotEnvFile is the legacy credentials file read from the working directory.
// It may set API_PATH and API_KEY for the generation provider.
const DotEnvFile = ".env"

// legacyEnv maps the legacy environment names onto config keys.
var legacyEnv = map[string]string{
	"generation.target":  "API_PATH",
	"generation.api_key": "API_KEY",
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), merges a .env file from the working
// directory, and binds environment variables with the GEIST_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (GEIST_GENERATION_TARGET, then legacy API_PATH, etc.)
//  3. .env file values (API_PATH, API_KEY)
//  4. config.toml file values
//  5. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	return initViper(configDir, DotEnvFile)
}

func initViper(configDir, envFile string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Legacy .env file layered over config.toml.
	if err := mergeDotEnv(v, envFile); err != nil {
		return nil, err
	}

	// 4. Environment variables: GEIST_GENERATION_TARGET, GEIST_NOTES_DIR, etc.
	v.SetEnvPrefix("GEIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := "GEIST_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, legacy)
	}

	return v, nil
}

// mergeDotEnv reads envFile with a throwaway viper and merges the legacy
// keys it sets into v's config layer. A missing file is not an error.
func mergeDotEnv(v *viper.Viper, envFile string) error {
	if envFile == "" {
		return nil
	}

	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", envFile, err)
	}

	env := viper.New()
	env.SetConfigFile(envFile)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", envFile, err)
	}

	generation := map[string]any{}
	for key, legacy := range legacyEnv {
		// viper lowercases keys read from env files.
		val := env.GetString(strings.ToLower(legacy))
		if val == "" {
			continue
		}
		generation[strings.TrimPrefix(key, "generation.")] = val
	}

	if len(generation) == 0 {
		return nil
	}

	return v.MergeConfigMap(map[string]any{"generation": generation})
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Generation
	v.SetDefault("generation.provider", d.Generation.Provider)
	v.SetDefault("generation.target", d.Generation.Target)
	v.SetDefault("generation.api_key", d.Generation.APIKey)
	v.SetDefault("generation.completion_model", d.Generation.CompletionModel)
	v.SetDefault("generation.chat_model", d.Generation.ChatModel)
	v.SetDefault("generation.max_tokens", d.Generation.MaxTokens)

	// Embedding
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.api_key", d.Embedding.APIKey)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.cache_size", d.Embedding.CacheSize)

	// Notes and agent
	v.SetDefault("notes.dir", d.Notes.Dir)
	v.SetDefault("agent.persona", d.Agent.Persona)

	// Breaker
	v.SetDefault("breaker.max_failures", d.Breaker.MaxFailures)
	v.SetDefault("breaker.timeout_seconds", d.Breaker.TimeoutSeconds)
}

// FromViper materialises a *Config from the resolved values in v.
// Every supported key is read through its setter, so integer keys are
// validated the same way "geist config set" validates them.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{Version: v.GetInt("version")}

	for _, key := range ValidConfigKeys() {
		val := v.GetString(key)
		if val == "" {
			continue
		}
		if err := configKeys[key].set(cfg, val); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("%w: unsupported config version %d (expected %d)", ErrConfiguration, cfg.Version, CurrentV)
	}

	return cfg, nil
}
