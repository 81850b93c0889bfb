// Package ollama implements llm.Generator against a local Ollama server.
package ollama

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
	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	DefaultModel     = "llama3.2"
	DefaultMaxTokens = 256
)

// Config holds configuration for the Ollama generator.
type Config struct {
	BaseURL string
	Model   string
	Tier    llm.Tier

	MaxTokens    int
	Temperatures *llm.TemperatureSource

	Breaker *circuit.Breaker
	Logger  *slog.Logger
}

// Generator calls /api/generate on the completion tier and /api/chat on the
// chat tier, both without streaming.
type Generator struct {
	baseURL      string
	model        string
	tier         llm.Tier
	maxTokens    int
	temperatures *llm.TemperatureSource
	breaker      *circuit.Breaker
	httpClient   *http.Client
	logger       *slog.Logger
}

// New creates an Ollama generator.
func New(cfg Config) *Generator {
	g := &Generator{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		model:        cfg.Model,
		tier:         cfg.Tier,
		maxTokens:    cfg.MaxTokens,
		temperatures: cfg.Temperatures,
		breaker:      cfg.Breaker,
		httpClient:   &http.Client{Timeout: 300 * time.Second},
		logger:       cfg.Logger,
	}

	if g.baseURL == "" {
		g.baseURL = DefaultBaseURL
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

// Name returns "ollama".
func (g *Generator) Name() string {
	return "ollama"
}

// Generate sends prompt and returns the generated text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := llm.NewRequest(g.tier, g.model, prompt, g.maxTokens, g.temperatures.Next())

	resp, err := circuit.Execute(ctx, g.breaker, func(ctx context.Context) (*llm.Response, error) {
		return g.do(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("%w: ollama %s: %w", llm.ErrGeneration, g.tier, err)
	}

	g.logger.Debug("generated",
		"provider", g.Name(),
		"tier", g.tier.String(),
		"model", resp.Model,
		"temperature", req.Temperature,
	)

	return resp.Text, nil
}

func (g *Generator) do(ctx context.Context, req llm.Request) (*llm.Response, error) {
	opts := &ollamaOptions{
		Temperature: req.Temperature,
		TopP:        req.TopP,
		NumPredict:  req.MaxTokens,
	}

	var (
		path string
		body []byte
		err  error
	)
	if req.Tier == llm.TierChat {
		messages := make([]ollamaMessage, 0, len(req.Messages))
		for _, m := range req.Messages {
			messages = append(messages, ollamaMessage{Role: m.Role, Content: m.Content})
		}
		path = "/api/chat"
		body, err = json.Marshal(chatRequest{Model: req.Model, Messages: messages, Options: opts})
	} else {
		path = "/api/generate"
		body, err = json.Marshal(generateRequest{Model: req.Model, Prompt: req.Prompt, Options: opts})
	}
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(payload))
	}

	var resp ollamaResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", resp.Error)
	}

	out := &llm.Response{
		Model:      resp.Model,
		StopReason: resp.DoneReason,
		Usage: &llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}
	if req.Tier == llm.TierChat {
		if resp.Message == nil {
			return nil, fmt.Errorf("chat response has no message")
		}
		out.Text = resp.Message.Content
	} else {
		out.Text = resp.Response
	}

	return out, nil
}

var _ llm.Generator = (*Generator)(nil)
