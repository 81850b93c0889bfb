// Package memory holds an agent's remembered text and recalls the entry most
// similar to a query embedding.
//
// A Bank is append-only. Memories are embedded once when memorized, kept in
// insertion order, and never mutated or removed. Recall is an exact linear
// scan using cosine similarity: entries whose similarity is undefined (for
// example because the embedding service changed dimensionality) are skipped,
// and only a strictly positive similarity counts as a match. Ties keep the
// earliest memory.
//
// Memories live in process memory only.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/geist/pkg/embeddings"
	"github.com/papercomputeco/geist/pkg/logger"
	"github.com/papercomputeco/geist/pkg/utils"
	"github.com/papercomputeco/geist/pkg/vector"
)

// NoMatch is the text rendering of a recall that found nothing.
const NoMatch = "no match"

// Memory is one remembered piece of text and its embedding.
type Memory struct {
	ID        string
	Subject   string
	Content   string
	Embedding []float32
	CreatedAt time.Time
}

// Recollection is the result of a successful recall.
type Recollection struct {
	Memory Memory
	Score  float64
}

// Bank is an append-only, in-memory store of memories.
type Bank struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	memories []Memory
}

// BankOption configures a Bank.
type BankOption func(*Bank)

// WithLogger sets the bank's logger.
func WithLogger(l *slog.Logger) BankOption {
	return func(b *Bank) {
		b.logger = l
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) BankOption {
	return func(b *Bank) {
		b.now = now
	}
}

// NewBank creates an empty bank that embeds content with embedder.
func NewBank(embedder embeddings.Embedder, opts ...BankOption) *Bank {
	b := &Bank{
		embedder: embedder,
		logger:   logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Memorize embeds content and appends it to the bank under subject. When the
// embedding fails the bank is left unchanged and the error wraps
// embeddings.ErrEmbedding.
func (b *Bank) Memorize(ctx context.Context, subject, content string) (*Memory, error) {
	embedding, err := b.embedder.Embed(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("memorizing %q: %w", subject, err)
	}

	m := Memory{
		ID:        uuid.NewString(),
		Subject:   subject,
		Content:   content,
		Embedding: slices.Clone(embedding),
		CreatedAt: b.now(),
	}

	b.mu.Lock()
	b.memories = append(b.memories, m)
	n := len(b.memories)
	b.mu.Unlock()

	b.logger.Debug("memorized",
		"id", m.ID,
		"subject", subject,
		"content", utils.Preview(content, 60),
		"dimensions", len(embedding),
		"memories", n,
	)

	return &m, nil
}

// Recall returns the memory most similar to query. ok is false when the bank
// is empty or no memory has a similarity above zero.
func (b *Bank) Recall(query []float32) (Recollection, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var (
		best      Recollection
		bestScore = 0.0
		found     bool
		skipped   int
	)

	for _, m := range b.memories {
		score, ok := vector.CosineSimilarity(m.Embedding, query)
		if !ok {
			skipped++
			continue
		}
		if score > bestScore {
			best = Recollection{Memory: m, Score: score}
			bestScore = score
			found = true
		}
	}

	if skipped > 0 {
		b.logger.Debug("recall skipped memories with undefined similarity", "skipped", skipped)
	}

	if !found {
		return Recollection{}, false
	}
	return best, true
}

// Len returns the number of memories.
func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.memories)
}

// Memories returns a copy of the bank's memories in insertion order.
func (b *Bank) Memories() []Memory {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.memories)
}
