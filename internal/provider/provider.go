// Package provider defines the LLM backend interface used for queries the
// pattern tier cannot handle, plus the OpenAI and Ollama implementations.
package provider

import (
	"context"
	"strings"
)

// Message is a single message in a conversation, decoupled from any
// backend-specific type.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// ChatRequest is a normalized completion request.
type ChatRequest struct {
	// Messages is the conversation so far, system prompt first.
	Messages []Message
	// Model overrides the provider's configured model when set.
	Model string
	// Temperature controls sampling; zero means the provider default.
	Temperature float64
	// MaxTokens caps the response length; zero means no explicit cap.
	MaxTokens int
	// ExpectJSON requests structured JSON output where supported.
	ExpectJSON bool
}

// ChatResponse is a normalized completion response.
type ChatResponse struct {
	// Text is the assistant content.
	Text string
	// Model is the model that produced the response, when reported.
	Model string
}

// Provider sends conversations to an LLM backend.
type Provider interface {
	// Chat sends the request and returns the assistant response.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)

	// Name returns the backend name ("openai", "ollama").
	Name() string

	// Available checks whether the backend is reachable and the configured
	// model exists.
	Available(ctx context.Context) error
}

func resolveModel(requested, configured string) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	return configured
}

// StripJSONFence removes a Markdown code fence around a JSON payload.
// Models frequently wrap structured output in ```json blocks even when
// asked not to.
func StripJSONFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
