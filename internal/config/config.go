// Package config loads layered TOML configuration: built-in defaults, then
// the user config, then the project config, then SHELLGPT_* environment
// variables, then explicit flag overrides. Later layers win.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config is the full configuration tree.
type Config struct {
	Provider  ProviderConfig  `mapstructure:"provider" toml:"provider"`
	Safety    SafetyConfig    `mapstructure:"safety" toml:"safety"`
	Execution ExecutionConfig `mapstructure:"execution" toml:"execution"`
	Context   ContextConfig   `mapstructure:"context" toml:"context"`
	History   HistoryConfig   `mapstructure:"history" toml:"history"`
	Output    OutputConfig    `mapstructure:"output" toml:"output"`
	Logging   LoggingConfig   `mapstructure:"logging" toml:"logging"`
}

// ProviderConfig selects and tunes the LLM backend.
type ProviderConfig struct {
	// Name is the backend: "ollama" or "openai".
	Name string `mapstructure:"name" toml:"name"`
	// Model is the model name. Empty selects the backend default.
	Model string `mapstructure:"model" toml:"model"`
	// Host overrides the backend endpoint. Empty selects the default.
	Host string `mapstructure:"host" toml:"host"`
	// APIKeyFile points at a file holding the API key. The OPENAI_API_KEY
	// environment variable takes precedence.
	APIKeyFile  string  `mapstructure:"api_key_file" toml:"api_key_file"`
	Temperature float64 `mapstructure:"temperature" toml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" toml:"max_tokens"`
}

// SafetyConfig tunes the classification gate.
type SafetyConfig struct {
	// Enabled turns command classification on. Warnings and tier checks
	// are skipped entirely when false.
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
	// RequireConfirmation prompts before running cautious or dangerous
	// commands.
	RequireConfirmation bool `mapstructure:"require_confirmation" toml:"require_confirmation"`
}

// ExecutionConfig tunes how commands run.
type ExecutionConfig struct {
	TimeoutSecs int `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
	// Shell overrides the shell binary. Empty uses $SHELL.
	Shell string `mapstructure:"shell" toml:"shell"`
	// StreamOutput mirrors command output while capturing it.
	StreamOutput bool `mapstructure:"stream_output" toml:"stream_output"`
}

// ContextConfig controls system context collection.
type ContextConfig struct {
	Enabled        bool `mapstructure:"enabled" toml:"enabled"`
	IncludeHistory bool `mapstructure:"include_history" toml:"include_history"`
	IncludeEnv     bool `mapstructure:"include_env" toml:"include_env"`
}

// HistoryConfig controls the local command history database.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
	// DatabasePath overrides the database location. Empty uses
	// ~/.shellgpt/history.db.
	DatabasePath  string `mapstructure:"database_path" toml:"database_path"`
	RetentionDays int    `mapstructure:"retention_days" toml:"retention_days"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	// Format is "text", "json", or "yaml".
	Format string `mapstructure:"format" toml:"format"`
	Color  bool   `mapstructure:"color" toml:"color"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `mapstructure:"level" toml:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:        "ollama",
			Model:       "",
			Temperature: 0.2,
			MaxTokens:   500,
		},
		Safety: SafetyConfig{
			Enabled:             true,
			RequireConfirmation: true,
		},
		Execution: ExecutionConfig{
			TimeoutSecs:  60,
			StreamOutput: true,
		},
		Context: ContextConfig{
			Enabled:        true,
			IncludeHistory: true,
			IncludeEnv:     true,
		},
		History: HistoryConfig{
			Enabled:       true,
			RetentionDays: 90,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var validProviders = map[string]bool{"ollama": true, "openai": true}
var validFormats = map[string]bool{"text": true, "json": true, "yaml": true}
var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks cross-field constraints. All violations are reported at
// once.
func Validate(cfg *Config) error {
	var problems []string

	if !validProviders[cfg.Provider.Name] {
		problems = append(problems, fmt.Sprintf("provider.name: %q is not a supported provider", cfg.Provider.Name))
	}
	if cfg.Provider.Temperature < 0 || cfg.Provider.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("provider.temperature: %v is outside [0, 2]", cfg.Provider.Temperature))
	}
	if cfg.Provider.MaxTokens <= 0 {
		problems = append(problems, fmt.Sprintf("provider.max_tokens: %d must be positive", cfg.Provider.MaxTokens))
	}
	if cfg.Execution.TimeoutSecs <= 0 {
		problems = append(problems, fmt.Sprintf("execution.timeout_seconds: %d must be positive", cfg.Execution.TimeoutSecs))
	}
	if cfg.History.RetentionDays < 0 {
		problems = append(problems, fmt.Sprintf("history.retention_days: %d must not be negative", cfg.History.RetentionDays))
	}
	if !validFormats[cfg.Output.Format] {
		problems = append(problems, fmt.Sprintf("output.format: %q is not one of text, json, yaml", cfg.Output.Format))
	}
	if !validLogLevels[cfg.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level: %q is not one of debug, info, warn, error", cfg.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// LoadOptions controls which layers Load merges.
type LoadOptions struct {
	// ProjectDir is the directory whose .shellgpt/config.toml is merged.
	// Empty uses the working directory.
	ProjectDir string
	// ConfigPath replaces the project config path entirely.
	ConfigPath string
	// FlagOverrides are applied last, keyed by dotted config key.
	FlagOverrides map[string]any
}

// Load merges all configuration layers and validates the result.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	userPath, projectPath := ConfigPaths(opts.ProjectDir, opts.ConfigPath)
	if err := mergeConfigFile(v, userPath); err != nil {
		return nil, err
	}
	if err := mergeConfigFile(v, projectPath); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("SHELLGPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range opts.FlagOverrides {
		v.Set(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("provider.name", def.Provider.Name)
	v.SetDefault("provider.model", def.Provider.Model)
	v.SetDefault("provider.host", def.Provider.Host)
	v.SetDefault("provider.api_key_file", def.Provider.APIKeyFile)
	v.SetDefault("provider.temperature", def.Provider.Temperature)
	v.SetDefault("provider.max_tokens", def.Provider.MaxTokens)

	v.SetDefault("safety.enabled", def.Safety.Enabled)
	v.SetDefault("safety.require_confirmation", def.Safety.RequireConfirmation)

	v.SetDefault("execution.timeout_seconds", def.Execution.TimeoutSecs)
	v.SetDefault("execution.shell", def.Execution.Shell)
	v.SetDefault("execution.stream_output", def.Execution.StreamOutput)

	v.SetDefault("context.enabled", def.Context.Enabled)
	v.SetDefault("context.include_history", def.Context.IncludeHistory)
	v.SetDefault("context.include_env", def.Context.IncludeEnv)

	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.database_path", def.History.DatabasePath)
	v.SetDefault("history.retention_days", def.History.RetentionDays)

	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.color", def.Output.Color)

	v.SetDefault("logging.level", def.Logging.Level)
}

// mergeConfigFile merges a TOML file into v. Empty paths and missing files
// are no-ops; unreadable or malformed files are errors.
func mergeConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	v.SetConfigType("toml")
	if err := v.MergeConfig(strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ConfigPaths returns the user and project config file paths.
func ConfigPaths(projectDir, override string) (userPath, projectPath string) {
	if home, err := os.UserHomeDir(); err == nil {
		userPath = filepath.Join(home, ".shellgpt", "config.toml")
	}
	return userPath, projectConfigPath(projectDir, override)
}

func projectConfigPath(projectDir, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(projectDir, ".shellgpt", "config.toml")
}

// APIKey resolves the provider API key: the OPENAI_API_KEY environment
// variable wins, then the configured key file. Empty when neither is set.
func (p ProviderConfig) APIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		return key, nil
	}
	if p.APIKeyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(p.APIKeyFile)
	if err != nil {
		return "", fmt.Errorf("reading api key file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// valueKind describes the type a config key accepts.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
)

// keyKinds registers every settable config key.
var keyKinds = map[string]valueKind{
	"provider.name":         kindString,
	"provider.model":        kindString,
	"provider.host":         kindString,
	"provider.api_key_file": kindString,
	"provider.temperature":  kindFloat,
	"provider.max_tokens":   kindInt,

	"safety.enabled":              kindBool,
	"safety.require_confirmation": kindBool,

	"execution.timeout_seconds": kindInt,
	"execution.shell":           kindString,
	"execution.stream_output":   kindBool,

	"context.enabled":         kindBool,
	"context.include_history": kindBool,
	"context.include_env":     kindBool,

	"history.enabled":        kindBool,
	"history.database_path":  kindString,
	"history.retention_days": kindInt,

	"output.format": kindString,
	"output.color":  kindBool,

	"logging.level": kindString,
}

// ParseValue converts a raw string into the typed value for a config key.
func ParseValue(key, raw string) (any, error) {
	kind, ok := keyKinds[key]
	if !ok {
		return nil, fmt.Errorf("unsupported config key %q", key)
	}
	return parseValueByKind(raw, kind)
}

func parseValueByKind(raw string, kind valueKind) (any, error) {
	switch kind {
	case kindString:
		return raw, nil
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", raw)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %d", kind)
	}
}

// GetValue resolves a dotted key against a loaded config.
func GetValue(cfg *Config, key string) (any, bool) {
	switch key {
	case "provider":
		return cfg.Provider, true
	case "provider.name":
		return cfg.Provider.Name, true
	case "provider.model":
		return cfg.Provider.Model, true
	case "provider.host":
		return cfg.Provider.Host, true
	case "provider.api_key_file":
		return cfg.Provider.APIKeyFile, true
	case "provider.temperature":
		return cfg.Provider.Temperature, true
	case "provider.max_tokens":
		return cfg.Provider.MaxTokens, true

	case "safety":
		return cfg.Safety, true
	case "safety.enabled":
		return cfg.Safety.Enabled, true
	case "safety.require_confirmation":
		return cfg.Safety.RequireConfirmation, true

	case "execution":
		return cfg.Execution, true
	case "execution.timeout_seconds":
		return cfg.Execution.TimeoutSecs, true
	case "execution.shell":
		return cfg.Execution.Shell, true
	case "execution.stream_output":
		return cfg.Execution.StreamOutput, true

	case "context":
		return cfg.Context, true
	case "context.enabled":
		return cfg.Context.Enabled, true
	case "context.include_history":
		return cfg.Context.IncludeHistory, true
	case "context.include_env":
		return cfg.Context.IncludeEnv, true

	case "history":
		return cfg.History, true
	case "history.enabled":
		return cfg.History.Enabled, true
	case "history.database_path":
		return cfg.History.DatabasePath, true
	case "history.retention_days":
		return cfg.History.RetentionDays, true

	case "output":
		return cfg.Output, true
	case "output.format":
		return cfg.Output.Format, true
	case "output.color":
		return cfg.Output.Color, true

	case "logging":
		return cfg.Logging, true
	case "logging.level":
		return cfg.Logging.Level, true
	}
	return nil, false
}

// WriteValue sets one dotted key in a TOML config file, creating the file
// and intermediate tables as needed.
func WriteValue(path, key string, value any) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}

	root := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	segments := strings.Split(key, ".")
	table := root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := table[segment]
		if !ok {
			next := map[string]any{}
			table[segment] = next
			table = next
			continue
		}
		nested, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %q: %q is not a table", key, segment)
		}
		table = nested
	}
	table[segments[len(segments)-1]] = value

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(root); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
