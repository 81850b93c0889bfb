package config

import (
	"errors"
	"fmt"

	"github.com/papercomputeco/geist/pkg/llm/provider"
)

// ErrConfiguration is returned when the resolved configuration cannot be used
// to reach the providers.
var ErrConfiguration = errors.New("configuration error")

// Validate checks that the generation and embedding providers are reachable
// in principle: a target is set and hosted providers have an API key.
func (c *Config) Validate() error {
	if c.Generation.Target == "" {
		return fmt.Errorf("%w: generation.target is empty (set it or API_PATH)", ErrConfiguration)
	}

	genProvider := c.Generation.Provider
	if genProvider == "" {
		genProvider = provider.Detect(c.Generation.Target)
	}
	if provider.NeedsAPIKey(genProvider) && c.Generation.APIKey == "" {
		return fmt.Errorf("%w: generation.api_key is empty for provider %q (set it or API_KEY)", ErrConfiguration, genProvider)
	}

	if c.Embedding.Target == "" {
		return fmt.Errorf("%w: embedding.target is empty", ErrConfiguration)
	}
	if c.Embedding.Provider == provider.OpenAI && c.EmbeddingAPIKey() == "" {
		return fmt.Errorf("%w: embedding.api_key is empty for provider %q", ErrConfiguration, c.Embedding.Provider)
	}

	return nil
}
