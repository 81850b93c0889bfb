package provider

import (
	"fmt"
	"log/slog"

	"github.com/papercomputeco/geist/pkg/circuit"
	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/llm/provider/anthropic"
	"github.com/papercomputeco/geist/pkg/llm/provider/ollama"
	"github.com/papercomputeco/geist/pkg/llm/provider/openai"
)

// Supported provider type constants
const (
	Anthropic = "anthropic"
	OpenAI    = "openai"
	Ollama    = "ollama"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{Anthropic, OpenAI, Ollama}
}

// NeedsAPIKey reports whether providerType cannot work without an API key.
func NeedsAPIKey(providerType string) bool {
	return providerType == OpenAI || providerType == Anthropic
}

// NewGeneratorOpts configures NewGenerator.
type NewGeneratorOpts struct {
	// ProviderType names the provider. Empty means detect it from TargetURL.
	ProviderType string
	TargetURL    string
	APIKey       string
	Model        string
	Tier         llm.Tier
	MaxTokens    int

	// Temperatures draws per-request temperatures. Nil uses a randomly
	// seeded source for Tier.
	Temperatures *llm.TemperatureSource

	Breaker circuit.Config
	Logger  *slog.Logger
}

// NewGenerator creates a generator for o.ProviderType on o.Tier.
// Returns an error if the provider type is not recognized.
func NewGenerator(o *NewGeneratorOpts) (Provider, error) {
	providerType := o.ProviderType
	if providerType == "" {
		providerType = Detect(o.TargetURL)
	}

	breaker := circuit.New(fmt.Sprintf("generation-%s-%s", providerType, o.Tier), o.Breaker, o.Logger)

	switch providerType {
	case OpenAI:
		return openai.New(openai.Config{
			BaseURL:      o.TargetURL,
			APIKey:       o.APIKey,
			Model:        o.Model,
			Tier:         o.Tier,
			MaxTokens:    o.MaxTokens,
			Temperatures: o.Temperatures,
			Breaker:      breaker,
			Logger:       o.Logger,
		}), nil
	case Ollama:
		return ollama.New(ollama.Config{
			BaseURL:      o.TargetURL,
			Model:        o.Model,
			Tier:         o.Tier,
			MaxTokens:    o.MaxTokens,
			Temperatures: o.Temperatures,
			Breaker:      breaker,
			Logger:       o.Logger,
		}), nil
	case Anthropic:
		return anthropic.New(anthropic.Config{
			BaseURL:      o.TargetURL,
			APIKey:       o.APIKey,
			Model:        o.Model,
			Tier:         o.Tier,
			MaxTokens:    o.MaxTokens,
			Temperatures: o.Temperatures,
			Breaker:      breaker,
			Logger:       o.Logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", providerType, SupportedProviders())
	}
}
