// Package cli implements the Cobra command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ychenfen/shellgpt/internal/config"
	"github.com/ychenfen/shellgpt/internal/output"
	"github.com/ychenfen/shellgpt/internal/utils"
)

// Version information set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flag values
var (
	flagConfig   string
	flagOutput   string
	flagJSON     bool
	flagVerbose  bool
	flagProject  string
	flagProvider string
	flagModel    string
	flagNoColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "shellgpt",
	Short: "Natural language to shell commands, with safety checks",
	Long: `ShellGPT turns natural-language queries into shell commands.

Common queries are answered instantly from a builtin pattern table; the
rest go to a local (Ollama) or hosted (OpenAI) model. Every generated
command is classified before anything runs:

  safe       - No known risk, runs without ceremony
  cautious   - Review suggested, confirmation prompt
  dangerous  - High risk, confirmation defaults to no
  forbidden  - Never executed`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagNoColor {
			// lipgloss and termenv honor NO_COLOR.
			os.Setenv("NO_COLOR", "1")
		}
		if flagProject != "" {
			if err := os.Chdir(flagProject); err != nil {
				return fmt.Errorf("changing directory to %s: %w", flagProject, err)
			}
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := flagConfig
		if configPath == "" {
			home, _ := os.UserHomeDir()
			configPath = filepath.Join(home, ".shellgpt", "config.toml")
		}
		projectPath, _ := os.Getwd()

		payload := map[string]any{
			"version":      version,
			"commit":       commit,
			"build_date":   date,
			"go_version":   runtime.Version(),
			"config_path":  configPath,
			"project_path": projectPath,
		}

		switch GetOutput() {
		case "json", "yaml":
			return output.New(output.Format(GetOutput())).Write(payload)
		case "text":
			fmt.Printf("shellgpt %s\n", version)
			fmt.Printf("  commit:  %s\n", commit)
			fmt.Printf("  built:   %s\n", date)
			fmt.Printf("  go:      %s\n", runtime.Version())
			fmt.Printf("  config:  %s\n", configPath)
			fmt.Printf("  project: %s\n", projectPath)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s", GetOutput())
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetOutput returns the configured output format.
// Precedence: CLI flags > SHELLGPT_OUTPUT_FORMAT env > default.
func GetOutput() string {
	if flagJSON {
		return "json"
	}
	if flagOutput != "text" {
		return flagOutput
	}

	if envFormat := os.Getenv("SHELLGPT_OUTPUT_FORMAT"); envFormat != "" {
		switch envFormat {
		case "json", "yaml", "text":
			return envFormat
		}
	}

	return flagOutput
}

func projectPath() (string, error) {
	if flagProject != "" {
		return flagProject, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return dir, nil
}

// loadConfig loads layered configuration with CLI flags applied on top.
func loadConfig() (*config.Config, error) {
	project, err := projectPath()
	if err != nil {
		return nil, err
	}

	overrides := map[string]any{}
	if flagProvider != "" {
		overrides["provider.name"] = flagProvider
	}
	if flagModel != "" {
		overrides["provider.model"] = flagModel
	}
	if flagVerbose {
		overrides["logging.level"] = "debug"
	}

	return config.Load(config.LoadOptions{
		ProjectDir:    project,
		ConfigPath:    flagConfig,
		FlagOverrides: overrides,
	})
}

// initLogging wires the process logger from config and --verbose.
func initLogging(cfg *config.Config) {
	if !cfg.Output.Color {
		os.Setenv("NO_COLOR", "1")
	}
	level := cfg.Logging.Level
	if flagVerbose {
		level = "debug"
	}
	utils.SetDefaultLogger(utils.InitDefaultLogger(level))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "output format: text, json, yaml (env: SHELLGPT_OUTPUT_FORMAT)")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "shorthand for --output=json")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "C", "", "project directory")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM backend: ollama, openai")
	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", "", "model name")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}
