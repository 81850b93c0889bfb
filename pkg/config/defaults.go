package config

const (
	defaultProvider        = "openai"
	defaultTarget          = "https://api.openai.com/v1"
	defaultCompletionModel = "gpt-3.5-turbo-instruct"
	defaultChatModel       = "gpt-3.5-turbo"
	defaultMaxTokens       = 256

	defaultEmbeddingModel     = "text-embedding-ada-002"
	defaultEmbeddingCacheSize = 1024

	defaultNotesDir = "notes"

	defaultBreakerMaxFailures    = 5
	defaultBreakerTimeoutSeconds = 30
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Generation: GenerationConfig{
			Provider:        defaultProvider,
			Target:          defaultTarget,
			CompletionModel: defaultCompletionModel,
			ChatModel:       defaultChatModel,
			MaxTokens:       defaultMaxTokens,
		},
		Embedding: EmbeddingConfig{
			Provider:  defaultProvider,
			Target:    defaultTarget,
			Model:     defaultEmbeddingModel,
			CacheSize: defaultEmbeddingCacheSize,
		},
		Notes: NotesConfig{
			Dir: defaultNotesDir,
		},
		Breaker: BreakerConfig{
			MaxFailures:    defaultBreakerMaxFailures,
			TimeoutSeconds: defaultBreakerTimeoutSeconds,
		},
	}
}
