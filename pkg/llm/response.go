package llm

// Response is a provider-agnostic generation result.
type Response struct {
	// Model that generated the response
	Model string `json:"model"`

	// Text is choices[0].text on the completion tier and
	// choices[0].message.content on the chat tier.
	Text string `json:"text"`

	// Stop reason (e.g., "stop", "length", "end_turn")
	StopReason string `json:"stop_reason,omitempty"`

	Usage *Usage `json:"usage,omitempty"`
}

// Usage contains token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}
