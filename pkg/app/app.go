// Package app assembles geist's runtime from a resolved configuration: the
// embedder, the completion and chat generators, the note source and the
// random source every command shares.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/papercomputeco/geist/pkg/agent"
	"github.com/papercomputeco/geist/pkg/circuit"
	"github.com/papercomputeco/geist/pkg/config"
	"github.com/papercomputeco/geist/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/geist/pkg/embeddings/utils"
	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/llm/provider"
	"github.com/papercomputeco/geist/pkg/logger"
	"github.com/papercomputeco/geist/pkg/loop"
	"github.com/papercomputeco/geist/pkg/notes"
	"github.com/papercomputeco/geist/pkg/strategy"
)

// App holds the collaborators shared by geist commands. It is used from a
// single goroutine.
type App struct {
	Embedder   embeddings.Embedder
	Completion llm.Generator
	Chat       llm.Generator
	Notes      *notes.Source
	Rand       *rand.Rand
	Logger     *slog.Logger

	persona string
	closers []io.Closer
}

// Option configures New.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	rng        *rand.Rand
	notes      *notes.Source
	embedder   embeddings.Embedder
	completion llm.Generator
	chat       llm.Generator
}

// WithLogger sets the logger handed to every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSeed makes every random choice reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithNotes replaces the configured note directory.
func WithNotes(s *notes.Source) Option {
	return func(o *options) { o.notes = s }
}

// WithEmbedder replaces the configured embedding provider.
func WithEmbedder(e embeddings.Embedder) Option {
	return func(o *options) { o.embedder = e }
}

// WithGenerators replaces the configured completion and chat providers.
func WithGenerators(completion, chat llm.Generator) Option {
	return func(o *options) {
		o.completion = completion
		o.chat = chat
	}
}

// New builds an App from cfg. Providers not replaced by an option are
// created from cfg, so cfg should already be validated.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Nop()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.notes == nil {
		o.notes = notes.NewSource(cfg.Notes.Dir)
	}

	breaker := circuit.Config{
		MaxFailures:          uint32(max(cfg.Breaker.MaxFailures, 0)), //nolint:gosec // bounded below
		Timeout:              time.Duration(cfg.Breaker.TimeoutSeconds) * time.Second,
		HalfOpenMaxSuccesses: circuit.DefaultHalfOpenMaxSuccesses,
	}

	a := &App{
		Embedder:   o.embedder,
		Completion: o.completion,
		Chat:       o.chat,
		Notes:      o.notes,
		Rand:       o.rng,
		Logger:     o.logger,
		persona:    cfg.Agent.Persona,
	}

	if a.Embedder == nil {
		e, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
			ProviderType: cfg.Embedding.Provider,
			TargetURL:    cfg.Embedding.Target,
			APIKey:       cfg.EmbeddingAPIKey(),
			Model:        cfg.Embedding.Model,
			CacheSize:    cfg.Embedding.CacheSize,
			Breaker:      breaker,
			Logger:       o.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
		a.Embedder = e
	}

	if a.Completion == nil {
		g, err := a.newGenerator(cfg, llm.TierCompletion, cfg.Generation.CompletionModel, breaker)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Completion = g
	}

	if a.Chat == nil {
		g, err := a.newGenerator(cfg, llm.TierChat, cfg.Generation.ChatModel, breaker)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Chat = g
	}

	return a, nil
}

// newGenerator draws temperatures from a stream split off the app's rng so a
// seed fixes them too.
func (a *App) newGenerator(cfg *config.Config, tier llm.Tier, model string, breaker circuit.Config) (llm.Generator, error) {
	temps := llm.NewTemperatureSource(tier, rand.New(rand.NewPCG(a.Rand.Uint64(), a.Rand.Uint64())))

	g, err := provider.NewGenerator(&provider.NewGeneratorOpts{
		ProviderType: cfg.Generation.Provider,
		TargetURL:    cfg.Generation.Target,
		APIKey:       cfg.Generation.APIKey,
		Model:        model,
		Tier:         tier,
		MaxTokens:    cfg.Generation.MaxTokens,
		Temperatures: temps,
		Breaker:      breaker,
		Logger:       a.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s generator: %w", tier, err)
	}

	a.Logger.Debug("generator ready", "provider", g.Name(), "tier", tier.String(), "model", model)
	return g, nil
}

// Close releases the embedder and anything Bootstrap opened.
func (a *App) Close() error {
	var errs []error
	if a.Embedder != nil {
		errs = append(errs, a.Embedder.Close())
	}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Strategy returns a meta-prompt builder over the completion tier.
func (a *App) Strategy() *strategy.Builder {
	return strategy.New(a.Completion, a.Rand, a.Logger)
}

// Runner returns a loop runner sharing the app's rng.
func (a *App) Runner() *loop.GenerationRunner {
	return loop.NewGenerationRunner(a.Completion, a.Chat, a.Rand, a.Logger)
}

// Persona returns the configured base prompt, or agent.DefaultPersona.
func (a *App) Persona() string {
	if a.persona != "" {
		return a.persona
	}
	return agent.DefaultPersona
}
