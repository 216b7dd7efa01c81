package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenAI_Validation(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		model   string
		apiKey  string
		wantErr string
	}{
		{"empty host", "", "gpt-4o-mini", "sk-x", "host cannot be empty"},
		{"bad host", "::notaurl", "gpt-4o-mini", "sk-x", "parsing openai host"},
		{"empty model", "https://api.openai.com/v1", "", "sk-x", "model cannot be empty"},
		{"missing key", "https://api.openai.com/v1", "gpt-4o-mini", "", "api key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOpenAI(tt.host, tt.model, tt.apiKey)
			if err == nil {
				t.Fatalf("NewOpenAI() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewOpenAI() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestOpenAI_Chat(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"shell_command":"ls -la"}`}},
			},
		})
	}))
	defer srv.Close()

	p, err := NewOpenAI(srv.URL, "gpt-4o-mini", "sk-test")
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}

	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages:   []Message{{Role: "user", Content: "list files"}},
		ExpectJSON: true,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if resp.Text != `{"shell_command":"ls -la"}` {
		t.Errorf("Text = %q", resp.Text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if rf, ok := gotBody["response_format"].(map[string]any); !ok || rf["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", gotBody["response_format"])
	}
}

func TestOpenAI_ChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewOpenAI(srv.URL, "gpt-4o-mini", "sk-test")
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}

	_, err = p.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}})
	if err == nil {
		t.Fatalf("Chat() error = nil, want status error")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("Chat() error = %v", err)
	}
}

func TestOpenAI_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("path = %q, want /models", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "gpt-4o-mini"}, {"id": "gpt-4o"}},
		})
	}))
	defer srv.Close()

	p, err := NewOpenAI(srv.URL, "gpt-4o-mini", "sk-test")
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	if err := p.Available(context.Background()); err != nil {
		t.Errorf("Available() error = %v", err)
	}

	missing, err := NewOpenAI(srv.URL, "gpt-9", "sk-test")
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	if err := missing.Available(context.Background()); err == nil {
		t.Errorf("Available() error = nil, want model-not-found")
	}
}

func TestStripJSONFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"{\"a\":1}", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := StripJSONFence(tt.in); got != tt.want {
			t.Errorf("StripJSONFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFactory(t *testing.T) {
	if _, err := New("openai", "", "gpt-4o-mini", "sk-x"); err != nil {
		t.Errorf("New(openai) error = %v", err)
	}
	if _, err := New("ollama", "", "llama3.2", ""); err != nil {
		t.Errorf("New(ollama) error = %v", err)
	}
	if _, err := New("watson", "", "m", ""); err == nil {
		t.Errorf("New(watson) error = nil, want unknown provider")
	}
}
