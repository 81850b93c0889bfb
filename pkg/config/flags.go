package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --notes-dir
// on "geist menu", "geist note", "geist chat" and "geist loop").
type Flag struct {
	// Name is the long flag name (e.g. "target").
	Name string

	// Shorthand is the one-letter short flag (e.g. "t"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "generation.target").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagProvider        = "provider"
	FlagTarget          = "target"
	FlagCompletionModel = "completion-model"
	FlagChatModel       = "chat-model"
	FlagMaxTokens       = "max-tokens"
	FlagEmbeddingProv   = "embedding-provider"
	FlagEmbeddingTgt    = "embedding-target"
	FlagEmbeddingModel  = "embedding-model"
	FlagEmbeddingCache  = "embedding-cache-size"
	FlagNotesDir        = "notes-dir"
)

// Flags is the registry shared by every geist command that talks to a
// provider. Commands pick the subset they need by registry key.
var Flags = FlagSet{
	FlagProvider:        {Name: "provider", Shorthand: "p", ViperKey: "generation.provider", Description: "Generation provider (openai, anthropic, ollama)"},
	FlagTarget:          {Name: "target", Shorthand: "t", ViperKey: "generation.target", Description: "Generation provider base URL"},
	FlagCompletionModel: {Name: "completion-model", ViperKey: "generation.completion_model", Description: "Model for completion-tier requests"},
	FlagChatModel:       {Name: "chat-model", ViperKey: "generation.chat_model", Description: "Model for chat-tier requests"},
	FlagMaxTokens:       {Name: "max-tokens", ViperKey: "generation.max_tokens", Description: "Maximum tokens per generation"},
	FlagEmbeddingProv:   {Name: "embedding-provider", ViperKey: "embedding.provider", Description: "Embedding provider (openai, ollama)"},
	FlagEmbeddingTgt:    {Name: "embedding-target", ViperKey: "embedding.target", Description: "Embedding provider base URL"},
	FlagEmbeddingModel:  {Name: "embedding-model", ViperKey: "embedding.model", Description: "Embedding model"},
	FlagEmbeddingCache:  {Name: "embedding-cache-size", ViperKey: "embedding.cache_size", Description: "Number of embeddings kept in the LRU cache"},
	FlagNotesDir:        {Name: "notes-dir", Shorthand: "n", ViperKey: "notes.dir", Description: "Directory of plain-text notes"},
}

// ProviderFlags lists the registry keys bound by commands that generate text.
var ProviderFlags = []string{
	FlagProvider,
	FlagTarget,
	FlagCompletionModel,
	FlagChatModel,
	FlagMaxTokens,
	FlagEmbeddingProv,
	FlagEmbeddingTgt,
	FlagEmbeddingModel,
	FlagEmbeddingCache,
	FlagNotesDir,
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *int) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultInt returns the default int value for a viper key from NewDefaultConfig.
func defaultInt(viperKey string) int {
	v := viper.New()
	setViperDefaults(v)
	return v.GetInt(viperKey)
}
