package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// Ollama implements Provider using a local Ollama instance. It is the
// offline alternative to the OpenAI backend: no API key, no network egress.
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama creates an Ollama provider connected to the given host and model.
func NewOllama(host, model string) (*Ollama, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama host URL: %w", err)
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &Ollama{
		client: api.NewClient(base, httpClient),
		model:  model,
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

// Available checks if Ollama is reachable and the configured model exists.
func (o *Ollama) Available(ctx context.Context) error {
	models, err := o.client.List(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach ollama at configured host: %w", err)
	}
	for _, m := range models.Models {
		if m.Name == o.model {
			return nil
		}
	}
	return fmt.Errorf("model %q not found in ollama (try: ollama pull %s)", o.model, o.model)
}

// Chat sends the conversation to Ollama. Messages are converted internally
// so callers stay decoupled from the Ollama client library.
func (o *Ollama) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	apiMessages := make([]api.Message, len(req.Messages))
	for i, m := range req.Messages {
		apiMessages[i] = api.Message{Role: m.Role, Content: m.Content}
	}

	stream := false
	ollamaReq := &api.ChatRequest{
		Model:    resolveModel(req.Model, o.model),
		Messages: apiMessages,
		Stream:   &stream,
	}
	if req.ExpectJSON {
		ollamaReq.Format = json.RawMessage(`"json"`)
	}
	if req.Temperature > 0 {
		ollamaReq.Options = map[string]any{"temperature": req.Temperature}
	}

	var final api.ChatResponse
	err := o.client.Chat(ctx, ollamaReq, func(resp api.ChatResponse) error {
		final = resp
		return nil
	})
	if err != nil {
		return ChatResponse{}, fmt.Errorf("calling ollama: %w", err)
	}

	return ChatResponse{
		Text:  final.Message.Content,
		Model: final.Model,
	}, nil
}
