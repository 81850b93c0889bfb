package provider

import (
	"net/url"
	"strings"
)

// Detect guesses the provider type from a target URL: Anthropic hosts map to
// anthropic, Ollama's default port maps to ollama, and anything else is
// treated as an OpenAI-compatible API.
func Detect(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return OpenAI
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case strings.HasSuffix(host, "anthropic.com"):
		return Anthropic
	case u.Port() == "11434" || strings.Contains(host, "ollama"):
		return Ollama
	default:
		return OpenAI
	}
}
