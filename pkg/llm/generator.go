// Package llm defines the text generation boundary.
//
// Providers under pkg/llm/provider implement Generator against a concrete API
// and report failures as errors wrapping ErrGeneration. Callers that need the
// legacy contract, where a failed generation reads as the literal text
// "Error", go through Complete.
package llm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/papercomputeco/geist/pkg/utils"
)

// Sentinel is returned by Complete in place of generated text when
// generation fails.
const Sentinel = "Error"

// ErrGeneration is wrapped by every generation failure.
var ErrGeneration = errors.New("generation failed")

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Complete sends prompt to gen. Failures are logged and downgraded to
// Sentinel, so Complete never returns an error.
func Complete(ctx context.Context, gen Generator, prompt string, logger *slog.Logger) string {
	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		if logger != nil {
			logger.Warn("generation failed",
				"error", err,
				"prompt", utils.Preview(prompt, 80),
			)
		}
		return Sentinel
	}
	return text
}
