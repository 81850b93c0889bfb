// Package anthropic implements llm.Generator with the Anthropic Messages API.
//
// Both tiers map to a single user message; the API has no bare-prompt
// completion endpoint.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/papercomputeco/geist/pkg/circuit"
	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/logger"
)

const (
	DefaultModel     = "claude-haiku-4-5"
	DefaultMaxTokens = 256
)

// Config holds configuration for the Anthropic generator.
type Config struct {
	// BaseURL overrides the API root. Empty uses the SDK default.
	BaseURL string
	APIKey  string
	Model   string
	Tier    llm.Tier

	MaxTokens    int
	Temperatures *llm.TemperatureSource

	Breaker *circuit.Breaker
	Logger  *slog.Logger
}

// Generator sends prompts through the Anthropic SDK client.
type Generator struct {
	client       sdk.Client
	model        string
	tier         llm.Tier
	maxTokens    int
	temperatures *llm.TemperatureSource
	breaker      *circuit.Breaker
	logger       *slog.Logger
}

// New creates an Anthropic generator. SDK retries are disabled so that
// failures reach the circuit breaker.
func New(cfg Config) *Generator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	g := &Generator{
		client:       sdk.NewClient(opts...),
		model:        cfg.Model,
		tier:         cfg.Tier,
		maxTokens:    cfg.MaxTokens,
		temperatures: cfg.Temperatures,
		breaker:      cfg.Breaker,
		logger:       cfg.Logger,
	}

	if g.model == "" {
		g.model = DefaultModel
	}
	if g.maxTokens <= 0 {
		g.maxTokens = DefaultMaxTokens
	}
	if g.temperatures == nil {
		g.temperatures = llm.NewTemperatureSource(g.tier, nil)
	}
	if g.logger == nil {
		g.logger = logger.Nop()
	}

	return g
}

// Name returns "anthropic".
func (g *Generator) Name() string {
	return "anthropic"
}

// Generate sends prompt as one user message and returns the concatenated
// text blocks of the reply.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := llm.NewRequest(g.tier, g.model, prompt, g.maxTokens, g.temperatures.Next())

	resp, err := circuit.Execute(ctx, g.breaker, func(ctx context.Context) (*llm.Response, error) {
		return g.do(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic %s: %w", llm.ErrGeneration, g.tier, err)
	}

	g.logger.Debug("generated",
		"provider", g.Name(),
		"tier", g.tier.String(),
		"model", resp.Model,
		"temperature", req.Temperature,
		"stop_reason", resp.StopReason,
	)

	return resp.Text, nil
}

func (g *Generator) do(ctx context.Context, req llm.Request) (*llm.Response, error) {
	// top_p is left at the API default of 1; newer models reject requests
	// that set it alongside temperature.
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Text())),
		},
		Temperature: sdk.Float(req.Temperature),
	}

	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("response has no text content")
	}

	return &llm.Response{
		Model:      string(msg.Model),
		Text:       text.String(),
		StopReason: string(msg.StopReason),
		Usage: &llm.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}

var _ llm.Generator = (*Generator)(nil)
