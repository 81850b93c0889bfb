// Package agent ties a persona prompt to a memory bank. Speaking recalls the
// memory closest to the input and splices it into the prompt before
// generation.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/geist/pkg/embeddings"
	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/logger"
	"github.com/papercomputeco/geist/pkg/memory"
	"github.com/papercomputeco/geist/pkg/prompts"
	"github.com/papercomputeco/geist/pkg/utils"
)

// DefaultPersona is the base prompt of the conversation agent.
const DefaultPersona = "Simulation: You are a conversation bot designed to ask thought provoking questions. You respond to messages drawing connections between broad topics, making insightful use of any memories that you recall. You respond in at most two sentences."

// Agent is a persona with its own memory bank.
type Agent struct {
	basePrompt string
	embedder   embeddings.Embedder
	generator  llm.Generator
	bank       *memory.Bank
	logger     *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the agent's logger. The bank logs through it too.
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = l
	}
}

// New creates an agent with an empty bank. The embedder serves both
// memorizing and speaking; the generator answers composed prompts.
func New(basePrompt string, embedder embeddings.Embedder, generator llm.Generator, opts ...Option) *Agent {
	a := &Agent{
		basePrompt: basePrompt,
		embedder:   embedder,
		generator:  generator,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.bank = memory.NewBank(embedder, memory.WithLogger(a.logger))
	return a
}

// BasePrompt returns the persona prompt the agent was created with.
func (a *Agent) BasePrompt() string {
	return a.basePrompt
}

// Bank returns the agent's memory bank.
func (a *Agent) Bank() *memory.Bank {
	return a.bank
}

// Memorize stores content under subject.
func (a *Agent) Memorize(ctx context.Context, subject, content string) (*memory.Memory, error) {
	return a.bank.Memorize(ctx, subject, content)
}

// Speak answers input. An embedding failure is returned before anything is
// generated. A generation failure is not an error: the reply is llm.Sentinel.
func (a *Agent) Speak(ctx context.Context, input string) (string, error) {
	embedding, err := a.embedder.Embed(ctx, input)
	if err != nil {
		return "", fmt.Errorf("speaking: %w", err)
	}

	recalled, ok := a.bank.Recall(embedding)
	if ok {
		a.logger.Debug("recalled",
			"id", recalled.Memory.ID,
			"subject", recalled.Memory.Subject,
			"score", recalled.Score,
		)
	} else {
		a.logger.Debug("recalled", "result", memory.NoMatch)
	}

	prompt := prompts.Compose(a.basePrompt, input, recalled.Memory.Content, ok)
	a.logger.Debug("composed prompt", "prompt", utils.Preview(prompt[len(a.basePrompt):], 120))

	return llm.Complete(ctx, a.generator, prompt, a.logger), nil
}
