// Package openai implements llm.Generator against OpenAI-compatible
// completion and chat completion APIs.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/geist/pkg/circuit"
	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/logger"
)

const (
	// DefaultBaseURL is the default OpenAI API URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	DefaultCompletionModel = "gpt-3.5-turbo-instruct"
	DefaultChatModel       = "gpt-3.5-turbo"
	DefaultMaxTokens       = 256
)

// Config holds configuration for the OpenAI generator.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	BaseURL string
	APIKey  string
	Model   string
	Tier    llm.Tier

	MaxTokens    int
	Temperatures *llm.TemperatureSource

	Breaker    *circuit.Breaker
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Generator calls /completions or /chat/completions depending on its tier.
type Generator struct {
	baseURL      string
	apiKey       string
	model        string
	tier         llm.Tier
	maxTokens    int
	temperatures *llm.TemperatureSource
	breaker      *circuit.Breaker
	httpClient   *http.Client
	logger       *slog.Logger
}

// New creates an OpenAI generator.
func New(cfg Config) *Generator {
	g := &Generator{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		tier:         cfg.Tier,
		maxTokens:    cfg.MaxTokens,
		temperatures: cfg.Temperatures,
		breaker:      cfg.Breaker,
		httpClient:   cfg.HTTPClient,
		logger:       cfg.Logger,
	}

	if g.baseURL == "" {
		g.baseURL = DefaultBaseURL
	}
	if g.model == "" {
		g.model = DefaultCompletionModel
		if g.tier == llm.TierChat {
			g.model = DefaultChatModel
		}
	}
	if g.maxTokens <= 0 {
		g.maxTokens = DefaultMaxTokens
	}
	if g.temperatures == nil {
		g.temperatures = llm.NewTemperatureSource(g.tier, nil)
	}
	if g.httpClient == nil {
		g.httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	if g.logger == nil {
		g.logger = logger.Nop()
	}

	return g
}

// Name returns "openai".
func (g *Generator) Name() string {
	return "openai"
}

// Generate sends prompt and returns the first choice's text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := llm.NewRequest(g.tier, g.model, prompt, g.maxTokens, g.temperatures.Next())

	resp, err := circuit.Execute(ctx, g.breaker, func(ctx context.Context) (*llm.Response, error) {
		return g.do(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai %s: %w", llm.ErrGeneration, g.tier, err)
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
	path, body, err := g.encode(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return parseResponse(req.Tier, httpResp.StatusCode, payload)
}

func (g *Generator) encode(req llm.Request) (string, []byte, error) {
	if req.Tier == llm.TierChat {
		messages := make([]openaiMessage, 0, len(req.Messages))
		for _, m := range req.Messages {
			messages = append(messages, openaiMessage{Role: m.Role, Content: m.Content})
		}
		body, err := json.Marshal(chatRequest{
			Model:       req.Model,
			Messages:    messages,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
			TopP:        req.TopP,
			N:           req.N,
		})
		return "/chat/completions", body, err
	}

	body, err := json.Marshal(completionRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		N:           req.N,
		Stream:      false,
	})
	return "/completions", body, err
}

func parseResponse(tier llm.Tier, status int, payload []byte) (*llm.Response, error) {
	var resp openaiResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("status %d: %s", status, string(payload))
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// Application errors arrive as {"error": {...}}, sometimes with status 200.
	if resp.Error != nil {
		return nil, fmt.Errorf("service error: %s", resp.Error.Message)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", status, string(payload))
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("response has no choices")
	}

	choice := resp.Choices[0]
	out := &llm.Response{
		Model:      resp.Model,
		StopReason: choice.FinishReason,
	}

	if tier == llm.TierChat {
		if choice.Message == nil {
			return nil, fmt.Errorf("chat response has no message")
		}
		out.Text = choice.Message.Content
	} else {
		out.Text = choice.Text
	}

	if resp.Usage != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return out, nil
}

var _ llm.Generator = (*Generator)(nil)
