// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"
	"log/slog"

	"github.com/papercomputeco/geist/pkg/circuit"
	"github.com/papercomputeco/geist/pkg/embeddings"
	"github.com/papercomputeco/geist/pkg/embeddings/cache"
	"github.com/papercomputeco/geist/pkg/embeddings/ollama"
	"github.com/papercomputeco/geist/pkg/embeddings/openai"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	APIKey       string
	Model        string

	// CacheSize bounds the LRU placed in front of the provider. Zero disables it.
	CacheSize int

	Breaker circuit.Config
	Logger  *slog.Logger
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	breaker := circuit.New("embedding-"+o.ProviderType, o.Breaker, o.Logger)

	var (
		e   embeddings.Embedder
		err error
	)
	switch o.ProviderType {
	case "openai":
		e, err = openai.NewEmbedder(openai.EmbedderConfig{
			BaseURL: o.TargetURL,
			APIKey:  o.APIKey,
			Model:   o.Model,
			Breaker: breaker,
		})
	case "ollama":
		e, err = ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			Breaker: breaker,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
	if err != nil {
		return nil, err
	}

	return cache.New(e, o.CacheSize, o.Logger)
}
