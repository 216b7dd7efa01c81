package cli

import (
	"fmt"
	"runtime"

	"github.com/ychenfen/shellgpt/internal/command"
	"github.com/ychenfen/shellgpt/internal/config"
	"github.com/ychenfen/shellgpt/internal/generate"
	"github.com/ychenfen/shellgpt/internal/history"
	"github.com/ychenfen/shellgpt/internal/provider"
	"github.com/ychenfen/shellgpt/internal/shellenv"
	"github.com/ychenfen/shellgpt/internal/utils"
)

// buildProvider constructs the configured LLM backend.
func buildProvider(cfg *config.Config) (provider.Provider, error) {
	apiKey, err := cfg.Provider.APIKey()
	if err != nil {
		return nil, err
	}
	model := cfg.Provider.Model
	if model == "" {
		model = defaultModel(cfg.Provider.Name)
	}
	return provider.New(cfg.Provider.Name, cfg.Provider.Host, model, apiKey)
}

func defaultModel(providerName string) string {
	switch providerName {
	case "openai":
		return "gpt-4o-mini"
	default:
		return "llama3.2"
	}
}

// buildGenerator wires the generator from config. noContext replaces system
// probing with a minimal static context.
func buildGenerator(cfg *config.Config, noContext, noSafety bool) (*generate.Generator, error) {
	p, err := buildProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("configuring provider: %w", err)
	}

	var collector generate.ContextCollector
	if noContext || !cfg.Context.Enabled {
		collector = generate.StaticContext(command.SystemContext{OS: hostOS()})
	} else {
		collector = shellenv.New()
	}

	return generate.New(generate.Options{
		Provider:           p,
		Collector:          collector,
		Logger:             utils.GetDefaultLogger(),
		Temperature:        cfg.Provider.Temperature,
		MaxTokens:          cfg.Provider.MaxTokens,
		SkipClassification: noSafety || !cfg.Safety.Enabled,
	})
}

func hostOS() string {
	switch runtime.GOOS {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "windows":
		return "Windows"
	default:
		return runtime.GOOS
	}
}

// openHistory opens the configured history store, or nil when disabled.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	path := cfg.History.DatabasePath
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return history.Open(path)
}

// recordGeneration best-effort persists a generated command. History
// failures never fail the user-facing operation.
func recordGeneration(store *history.Store, cmd *command.Command) string {
	if store == nil {
		return ""
	}
	id, err := store.RecordGeneration(cmd)
	if err != nil {
		utils.Warn("recording history failed", "err", err)
		return ""
	}
	return id
}

func recordExecution(store *history.Store, id string, result *command.ExecutionResult) {
	if store == nil || id == "" || result == nil {
		return
	}
	if err := store.RecordExecution(id, result); err != nil {
		utils.Warn("recording execution failed", "err", err)
	}
}
