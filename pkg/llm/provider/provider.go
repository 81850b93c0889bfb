// Package provider builds llm.Generator implementations by provider name.
package provider

import (
	"github.com/papercomputeco/geist/pkg/llm"
)

// Provider is a named llm.Generator.
type Provider interface {
	llm.Generator

	// Name returns the canonical provider name (e.g., "anthropic", "openai", "ollama")
	Name() string
}
