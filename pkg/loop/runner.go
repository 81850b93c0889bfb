package loop

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/logger"
	"github.com/papercomputeco/geist/pkg/prompts"
	"github.com/papercomputeco/geist/pkg/strategy"
)

// GenerationRunner runs strategies against completion and chat generators.
// Chatter and compress send their prompt on the completion tier; critic and
// actor build a meta-prompt with completion calls and send it on the chat
// tier. Generation failures read as llm.Sentinel.
type GenerationRunner struct {
	completion llm.Generator
	chat       llm.Generator
	builder    *strategy.Builder
	rng        *rand.Rand
	logger     *slog.Logger
}

// NewGenerationRunner creates a runner. rng picks questions and should be the
// rng passed to Turn so that a seed reproduces a whole run.
func NewGenerationRunner(completion, chat llm.Generator, rng *rand.Rand, log *slog.Logger) *GenerationRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &GenerationRunner{
		completion: completion,
		chat:       chat,
		builder:    strategy.New(completion, rng, log),
		rng:        rng,
		logger:     log,
	}
}

func (r *GenerationRunner) Run(ctx context.Context, s Strategy, input string) (string, error) {
	r.logger.Debug("running strategy", "strategy", string(s))

	switch s {
	case Chatter:
		return r.complete(ctx, r.completion, prompts.QuestionEverything(input, r.rng))
	case Compress:
		return r.complete(ctx, r.completion, prompts.Compressor(input))
	case Critic:
		p, err := r.builder.Critic(ctx, input)
		if err != nil {
			return "", err
		}
		return r.complete(ctx, r.chat, p)
	case Actor:
		p, err := r.builder.Actor(ctx, input)
		if err != nil {
			return "", err
		}
		return r.complete(ctx, r.chat, p)
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidPolicy, s)
	}
}

func (r *GenerationRunner) complete(ctx context.Context, gen llm.Generator, prompt string) (string, error) {
	text := llm.Complete(ctx, gen, prompt, r.logger)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return text, nil
}
