// Package cache wraps an embeddings.Embedder with a bounded LRU keyed by the
// embedded text. Identical notes and repeated operator input are embedded once.
package cache

import (
	"context"
	"log/slog"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/papercomputeco/geist/pkg/embeddings"
	"github.com/papercomputeco/geist/pkg/logger"
)

// Embedder is a caching embeddings.Embedder.
type Embedder struct {
	inner  embeddings.Embedder
	lru    *lru.Cache[string, []float32]
	logger *slog.Logger
}

// New wraps inner with an LRU of the given size. A size of zero or less
// returns inner unchanged.
func New(inner embeddings.Embedder, size int, log *slog.Logger) (embeddings.Embedder, error) {
	if size <= 0 {
		return inner, nil
	}

	if log == nil {
		log = logger.Nop()
	}

	c, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		inner:  inner,
		lru:    c,
		logger: log,
	}, nil
}

// Embed returns the cached embedding for text, or asks the wrapped embedder.
// Failures are not cached.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.lru.Get(text); ok {
		e.logger.Debug("embedding cache hit", "length", len(text))
		return slices.Clone(v), nil
	}

	v, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.lru.Add(text, slices.Clone(v))
	return v, nil
}

// Len reports the number of cached embeddings.
func (e *Embedder) Len() int {
	return e.lru.Len()
}

// Close purges the cache and closes the wrapped embedder.
func (e *Embedder) Close() error {
	e.lru.Purge()
	return e.inner.Close()
}

var _ embeddings.Embedder = (*Embedder)(nil)
