package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDefaultConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(DefaultConfig) unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.Name = "watson"
	cfg.Provider.Temperature = 3.5
	cfg.Provider.MaxTokens = 0
	cfg.Execution.TimeoutSecs = 0
	cfg.History.RetentionDays = -1
	cfg.Output.Format = "xml"
	cfg.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"provider.name", "provider.temperature", "provider.max_tokens", "execution.timeout_seconds", "history.retention_days", "output.format", "logging.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestLoad_Precedence_DefaultsUserProjectEnvFlags(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	project := t.TempDir()

	// User config: 100
	userPath := filepath.Join(home, ".shellgpt", "config.toml")
	if err := WriteValue(userPath, "provider.max_tokens", 100); err != nil {
		t.Fatalf("WriteValue user: %v", err)
	}

	// Project config: 200
	projectPath := filepath.Join(project, ".shellgpt", "config.toml")
	if err := WriteValue(projectPath, "provider.max_tokens", 200); err != nil {
		t.Fatalf("WriteValue project: %v", err)
	}

	// Env: 300
	t.Setenv("SHELLGPT_PROVIDER_MAX_TOKENS", "300")

	// Flags: 400
	cfg, err := Load(LoadOptions{
		ProjectDir: project,
		FlagOverrides: map[string]any{
			"provider.max_tokens": 400,
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider.MaxTokens != 400 {
		t.Fatalf("max_tokens=%d want 400", cfg.Provider.MaxTokens)
	}

	// Without flags the env layer wins.
	cfg, err = Load(LoadOptions{ProjectDir: project})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider.MaxTokens != 300 {
		t.Fatalf("max_tokens=%d want 300", cfg.Provider.MaxTokens)
	}
}

func TestLoad_InvalidEnvValueErrors(t *testing.T) {
	t.Setenv("SHELLGPT_PROVIDER_MAX_TOKENS", "not-an-int")
	if _, err := Load(LoadOptions{ProjectDir: t.TempDir()}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_ValidatesMergedResult(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	project := t.TempDir()
	projectPath := filepath.Join(project, ".shellgpt", "config.toml")
	if err := WriteValue(projectPath, "output.format", "xml"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}

	if _, err := Load(LoadOptions{ProjectDir: project}); err == nil {
		t.Fatalf("expected validation error for output.format=xml")
	}
}

func TestMergeConfigFile(t *testing.T) {
	v := newTestViper()

	// Empty path is a no-op.
	if err := mergeConfigFile(v, ""); err != nil {
		t.Fatalf("mergeConfigFile(empty): %v", err)
	}

	// Missing file is a no-op.
	if err := mergeConfigFile(v, filepath.Join(t.TempDir(), "missing.toml")); err != nil {
		t.Fatalf("mergeConfigFile(missing): %v", err)
	}

	// Directory path is an error.
	if err := mergeConfigFile(v, t.TempDir()); err == nil {
		t.Fatalf("expected error for directory path")
	}

	// Invalid TOML is an error.
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("provider = [\n"), 0644); err != nil {
		t.Fatalf("write invalid toml: %v", err)
	}
	if err := mergeConfigFile(v, path); err == nil {
		t.Fatalf("expected error for invalid toml")
	}
}

func newTestViper() *viper.Viper {
	// Keep this in a helper so defaults are seeded the same way Load does.
	v := viper.New()
	setDefaults(v)
	return v
}

func TestConfigPathsAndProjectConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	u, p := ConfigPaths("/proj", "")
	if u != filepath.Join(home, ".shellgpt", "config.toml") {
		t.Fatalf("unexpected user path: %q", u)
	}
	if p != filepath.Join("/proj", ".shellgpt", "config.toml") {
		t.Fatalf("unexpected project path: %q", p)
	}

	if got := projectConfigPath("", ""); got != filepath.Join(".shellgpt", "config.toml") {
		t.Fatalf("projectConfigPath(empty)=%q", got)
	}
	if got := projectConfigPath("/proj", "/override.toml"); got != "/override.toml" {
		t.Fatalf("projectConfigPath(override)=%q", got)
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("provider.max_tokens", "700")
	if err != nil {
		t.Fatalf("ParseValue int: %v", err)
	}
	if v.(int) != 700 {
		t.Fatalf("unexpected value: %#v", v)
	}

	v, err = ParseValue("safety.enabled", "true")
	if err != nil {
		t.Fatalf("ParseValue bool: %v", err)
	}
	if v.(bool) != true {
		t.Fatalf("unexpected value: %#v", v)
	}

	v, err = ParseValue("provider.temperature", "0.7")
	if err != nil {
		t.Fatalf("ParseValue float: %v", err)
	}
	if v.(float64) != 0.7 {
		t.Fatalf("unexpected value: %#v", v)
	}

	v, err = ParseValue("provider.model", "llama3.2")
	if err != nil {
		t.Fatalf("ParseValue string: %v", err)
	}
	if v.(string) != "llama3.2" {
		t.Fatalf("unexpected value: %#v", v)
	}

	if _, err := ParseValue("provider.max_tokens", "lots"); err == nil {
		t.Fatalf("expected error for non-integer")
	}
	if _, err := parseValueByKind("x", valueKind(123)); err == nil {
		t.Fatalf("expected error for unsupported value kind")
	}
	if _, err := ParseValue("nope.nope", "x"); err == nil {
		t.Fatalf("expected unsupported key error")
	}
}

func TestGetValue(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		key  string
		want any
	}{
		{"provider.name", cfg.Provider.Name},
		{"provider.model", cfg.Provider.Model},
		{"provider.host", cfg.Provider.Host},
		{"provider.api_key_file", cfg.Provider.APIKeyFile},
		{"provider.temperature", cfg.Provider.Temperature},
		{"provider.max_tokens", cfg.Provider.MaxTokens},

		{"safety.enabled", cfg.Safety.Enabled},
		{"safety.require_confirmation", cfg.Safety.RequireConfirmation},

		{"execution.timeout_seconds", cfg.Execution.TimeoutSecs},
		{"execution.shell", cfg.Execution.Shell},
		{"execution.stream_output", cfg.Execution.StreamOutput},

		{"context.enabled", cfg.Context.Enabled},
		{"context.include_history", cfg.Context.IncludeHistory},
		{"context.include_env", cfg.Context.IncludeEnv},

		{"history.enabled", cfg.History.Enabled},
		{"history.database_path", cfg.History.DatabasePath},
		{"history.retention_days", cfg.History.RetentionDays},

		{"output.format", cfg.Output.Format},
		{"output.color", cfg.Output.Color},

		{"logging.level", cfg.Logging.Level},

		{"provider", cfg.Provider},
		{"safety", cfg.Safety},
		{"execution", cfg.Execution},
		{"context", cfg.Context},
		{"history", cfg.History},
		{"output", cfg.Output},
		{"logging", cfg.Logging},
	}

	for _, tc := range cases {
		got, ok := GetValue(cfg, tc.key)
		if !ok {
			t.Fatalf("GetValue(%q) not found", tc.key)
		}
		if got != tc.want {
			t.Fatalf("GetValue(%q)=%#v want %#v", tc.key, got, tc.want)
		}
	}

	if _, ok := GetValue(cfg, ""); ok {
		t.Fatalf("expected empty key to be not found")
	}

	badKeys := []string{
		"nope",
		"provider.nope",
		"safety.nope",
		"execution.nope",
		"history.nope",
		"output.nope",
		"logging.nope",
	}
	for _, key := range badKeys {
		if _, ok := GetValue(cfg, key); ok {
			t.Fatalf("expected %q to be not found", key)
		}
	}
}

func TestWriteValue(t *testing.T) {
	if err := WriteValue("", "provider.max_tokens", 2); err == nil {
		t.Fatalf("expected error for empty path")
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteValue(path, "provider.max_tokens", 3); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "[provider]") || !strings.Contains(string(data), "max_tokens = 3") {
		t.Fatalf("unexpected toml: %q", string(data))
	}

	// Error when an intermediate segment is not a table.
	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("provider = \"oops\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteValue(bad, "provider.max_tokens", 2); err == nil {
		t.Fatalf("expected error when provider is not a table")
	}
}

func TestWriteValue_DecodeExistingInvalidTOMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("provider = [\n"), 0644); err != nil {
		t.Fatalf("write invalid toml: %v", err)
	}
	if err := WriteValue(path, "provider.max_tokens", 2); err == nil {
		t.Fatalf("expected decode error")
	} else if !strings.Contains(err.Error(), "decode config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	keyFile := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(keyFile, []byte("sk-from-file\n"), 0600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	p := ProviderConfig{APIKeyFile: keyFile}
	key, err := p.APIKey()
	if err != nil {
		t.Fatalf("APIKey: %v", err)
	}
	if key != "sk-from-file" {
		t.Fatalf("key=%q want sk-from-file", key)
	}

	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	key, err = p.APIKey()
	if err != nil {
		t.Fatalf("APIKey: %v", err)
	}
	if key != "sk-from-env" {
		t.Fatalf("key=%q want env to win", key)
	}

	empty := ProviderConfig{}
	t.Setenv("OPENAI_API_KEY", "")
	key, err = empty.APIKey()
	if err != nil || key != "" {
		t.Fatalf("APIKey()=%q,%v want empty,nil", key, err)
	}
}
