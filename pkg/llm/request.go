package llm

// Request is a provider-agnostic generation request. Providers translate it
// into their own wire format.
type Request struct {
	Tier  Tier   `json:"tier"`
	Model string `json:"model"`

	// Prompt is set on the completion tier.
	Prompt string `json:"prompt,omitempty"`

	// Messages is set on the chat tier and always holds one user message.
	Messages []Message `json:"messages,omitempty"`

	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	N           int     `json:"n"`
}

// NewRequest builds a request for prompt on tier with top_p and n fixed at 1.
func NewRequest(tier Tier, model, prompt string, maxTokens int, temperature float64) Request {
	r := Request{
		Tier:        tier,
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        1,
		N:           1,
	}
	if tier == TierChat {
		r.Messages = []Message{NewUserMessage(prompt)}
	} else {
		r.Prompt = prompt
	}
	return r
}

// Text returns the prompt text regardless of tier.
func (r Request) Text() string {
	if r.Tier == TierChat && len(r.Messages) > 0 {
		return r.Messages[0].Content
	}
	return r.Prompt
}
