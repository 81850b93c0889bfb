// Package strategy builds meta-prompts: prompts whose statements are
// themselves generated by earlier completion calls over the same input.
package strategy

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/logger"
	"github.com/papercomputeco/geist/pkg/prompts"
)

// Builder runs the completion calls behind each meta-prompt. It is owned by
// a single caller; the rng is not guarded.
type Builder struct {
	completion llm.Generator
	rng        *rand.Rand
	logger     *slog.Logger
}

// New creates a Builder that generates statements with completion and picks
// questions with rng.
func New(completion llm.Generator, rng *rand.Rand, log *slog.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		completion: completion,
		rng:        rng,
		logger:     log,
	}
}

// Critic returns a critic prompt over input, backed by one compressed
// statement and two answered questions.
func (b *Builder) Critic(ctx context.Context, input string) (string, error) {
	statements, err := b.statements(ctx,
		prompts.Compressor(input),
		prompts.QuestionEverything(input, b.rng),
		prompts.QuestionEverything(input, b.rng),
	)
	if err != nil {
		return "", err
	}
	return prompts.Critic(input, statements), nil
}

// Actor returns an actor prompt over input, backed by one compressed
// statement and three answered questions.
func (b *Builder) Actor(ctx context.Context, input string) (string, error) {
	statements, err := b.statements(ctx,
		prompts.Compressor(input),
		prompts.QuestionEverything(input, b.rng),
		prompts.QuestionEverything(input, b.rng),
		prompts.QuestionEverything(input, b.rng),
	)
	if err != nil {
		return "", err
	}
	return prompts.Actor([]string{input}, statements), nil
}

// GigaActor returns an actor prompt over input and three further notes. Its
// statements compress input, answer a question on each of the four texts,
// and draw connections between them.
func (b *Builder) GigaActor(ctx context.Context, input, noteA, noteB, noteC string) (string, error) {
	statements, err := b.statements(ctx,
		prompts.Compressor(input),
		prompts.QuestionEverything(input, b.rng),
		prompts.QuestionEverything(noteA, b.rng),
		prompts.QuestionEverything(noteB, b.rng),
		prompts.QuestionEverything(noteC, b.rng),
		prompts.Connections(input, noteA, noteB, noteC),
	)
	if err != nil {
		return "", err
	}
	return prompts.Actor([]string{input, noteA, noteB, noteC}, statements), nil
}

// statements completes each prompt in order. A failed completion contributes
// llm.Sentinel; only cancellation aborts.
func (b *Builder) statements(ctx context.Context, ps ...string) ([]string, error) {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, llm.Complete(ctx, b.completion, p, b.logger))
	}
	b.logger.Debug("generated statements", "count", len(out))
	return out, nil
}
