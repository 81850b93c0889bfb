package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent geist configuration stored as config.toml
// in the .geist/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Generation GenerationConfig `toml:"generation"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Notes      NotesConfig      `toml:"notes"`
	Agent      AgentConfig      `toml:"agent"`
	Breaker    BreakerConfig    `toml:"breaker"`
}

// GenerationConfig holds text generation settings shared by the completion
// and chat tiers. Target is the provider's base URL.
type GenerationConfig struct {
	Provider        string `toml:"provider,omitempty"`
	Target          string `toml:"target,omitempty"`
	APIKey          string `toml:"api_key,omitempty"`
	CompletionModel string `toml:"completion_model,omitempty"`
	ChatModel       string `toml:"chat_model,omitempty"`
	MaxTokens       int    `toml:"max_tokens,omitempty"`
}

// EmbeddingConfig holds embedding provider settings. An empty APIKey falls
// back to the generation key.
type EmbeddingConfig struct {
	Provider  string `toml:"provider,omitempty"`
	Target    string `toml:"target,omitempty"`
	APIKey    string `toml:"api_key,omitempty"`
	Model     string `toml:"model,omitempty"`
	CacheSize int    `toml:"cache_size,omitempty"`
}

// NotesConfig points at the directory of plain-text notes.
type NotesConfig struct {
	Dir string `toml:"dir,omitempty"`
}

// AgentConfig holds conversation agent settings.
type AgentConfig struct {
	// Persona replaces the built-in base prompt when set.
	Persona string `toml:"persona,omitempty"`
}

// BreakerConfig tunes the circuit breakers around provider calls.
type BreakerConfig struct {
	MaxFailures    int `toml:"max_failures,omitempty"`
	TimeoutSeconds int `toml:"timeout_seconds,omitempty"`
}

// EmbeddingAPIKey returns the key used for embedding requests.
func (c *Config) EmbeddingAPIKey() string {
	if c.Embedding.APIKey != "" {
		return c.Embedding.APIKey
	}
	return c.Generation.APIKey
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"generation.provider": {
		get: func(c *Config) string { return c.Generation.Provider },
		set: func(c *Config, v string) error { c.Generation.Provider = v; return nil },
	},
	"generation.target": {
		get: func(c *Config) string { return c.Generation.Target },
		set: func(c *Config, v string) error { c.Generation.Target = v; return nil },
	},
	"generation.api_key": {
		get: func(c *Config) string { return c.Generation.APIKey },
		set: func(c *Config, v string) error { c.Generation.APIKey = v; return nil },
	},
	"generation.completion_model": {
		get: func(c *Config) string { return c.Generation.CompletionModel },
		set: func(c *Config, v string) error { c.Generation.CompletionModel = v; return nil },
	},
	"generation.chat_model": {
		get: func(c *Config) string { return c.Generation.ChatModel },
		set: func(c *Config, v string) error { c.Generation.ChatModel = v; return nil },
	},
	"generation.max_tokens": intKey("generation.max_tokens",
		func(c *Config) *int { return &c.Generation.MaxTokens }),
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.api_key": {
		get: func(c *Config) string { return c.Embedding.APIKey },
		set: func(c *Config, v string) error { c.Embedding.APIKey = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.cache_size": intKey("embedding.cache_size",
		func(c *Config) *int { return &c.Embedding.CacheSize }),
	"notes.dir": {
		get: func(c *Config) string { return c.Notes.Dir },
		set: func(c *Config, v string) error { c.Notes.Dir = v; return nil },
	},
	"agent.persona": {
		get: func(c *Config) string { return c.Agent.Persona },
		set: func(c *Config, v string) error { c.Agent.Persona = v; return nil },
	},
	"breaker.max_failures": intKey("breaker.max_failures",
		func(c *Config) *int { return &c.Breaker.MaxFailures }),
	"breaker.timeout_seconds": intKey("breaker.timeout_seconds",
		func(c *Config) *int { return &c.Breaker.TimeoutSeconds }),
}

// intKey builds accessors for a non-negative integer field. Zero reads back
// as "" so unset values list the same way unset strings do.
func intKey(name string, field func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			n := *field(c)
			if n == 0 {
				return ""
			}
			return strconv.Itoa(n)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			if n < 0 {
				return fmt.Errorf("invalid value for %s: must not be negative", name)
			}
			*field(c) = n
			return nil
		},
	}
}
