package provider

import (
	"fmt"
	"strings"
)

// Default backend hosts.
const (
	DefaultOpenAIHost = "https://api.openai.com/v1"
	DefaultOllamaHost = "http://localhost:11434"
)

// New constructs a provider by backend name. Empty host selects the
// backend's default endpoint.
func New(name, host, model, apiKey string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		if host == "" {
			host = DefaultOpenAIHost
		}
		return NewOpenAI(host, model, apiKey)
	case "ollama":
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllama(host, model)
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: openai, ollama)", name)
	}
}
