// Package generate turns natural-language queries into classified command
// records. The pattern tier is tried first; queries it cannot handle go to
// the configured LLM provider. Every produced record passes through the
// safety checker exactly once before it is returned.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ychenfen/shellgpt/internal/command"
	"github.com/ychenfen/shellgpt/internal/intent"
	"github.com/ychenfen/shellgpt/internal/provider"
	"github.com/ychenfen/shellgpt/internal/safety"
)

// patternConfidence is the confidence assigned to template-generated
// commands. Pattern matches are near-certain by construction.
const patternConfidence = 0.9

// ContextCollector supplies the system context for a generation cycle.
type ContextCollector interface {
	Collect(ctx context.Context) command.SystemContext
}

// staticContext is a ContextCollector returning a fixed context.
type staticContext struct {
	sc command.SystemContext
}

func (s staticContext) Collect(context.Context) command.SystemContext { return s.sc }

// StaticContext wraps a fixed system context as a collector, used when
// context collection is disabled or in tests.
func StaticContext(sc command.SystemContext) ContextCollector {
	return staticContext{sc: sc}
}

// Options configures a Generator.
type Options struct {
	// Provider is the LLM backend for queries the pattern tier cannot
	// handle. Nil disables the fallback: unmatched queries fail.
	Provider provider.Provider
	// Collector supplies the system context. Required.
	Collector ContextCollector
	// Checker classifies generated commands. Nil uses the builtin library.
	Checker *safety.Checker
	// Logger receives debug output. Nil discards.
	Logger *log.Logger
	// Temperature and MaxTokens are forwarded to the provider.
	Temperature float64
	MaxTokens   int
	// SkipClassification leaves generated commands at their provisional
	// tier. The execution gate still refuses forbidden records.
	SkipClassification bool
}

// Generator is the command generation engine.
type Generator struct {
	provider     provider.Provider
	collector    ContextCollector
	checker      *safety.Checker
	logger       *log.Logger
	temperature  float64
	maxTokens    int
	skipClassify bool
}

// New creates a generator.
func New(opts Options) (*Generator, error) {
	if opts.Collector == nil {
		return nil, fmt.Errorf("context collector is required")
	}
	checker := opts.Checker
	if checker == nil {
		checker = safety.NewChecker(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(nil)
	}
	return &Generator{
		provider:     opts.Provider,
		collector:    opts.Collector,
		checker:      checker,
		logger:       logger,
		temperature:  opts.Temperature,
		maxTokens:    opts.MaxTokens,
		skipClassify: opts.SkipClassification,
	}, nil
}

// Checker returns the safety checker the generator classifies with.
func (g *Generator) Checker() *safety.Checker {
	return g.checker
}

// Generate produces a classified command record for the query.
func (g *Generator) Generate(ctx context.Context, query string) (*command.Command, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}

	sysctx := g.collector.Collect(ctx)

	var cmd *command.Command
	if in := intent.Match(query); in != nil {
		cmd = g.fromTemplate(query, in, sysctx)
		if cmd != nil {
			g.logger.Debug("pattern tier matched", "action", in.Action, "command", cmd.ShellCommand)
		}
	}

	if cmd == nil {
		if g.provider == nil {
			return nil, fmt.Errorf("no pattern matched %q and no provider is configured", query)
		}
		cmd = g.fromProvider(ctx, query, sysctx)
	}

	if !g.skipClassify {
		g.checker.Classify(cmd)
	}
	return cmd, nil
}

// fromTemplate tries pattern-based generation. Returns nil when the action
// has no template for the current OS (provider takes over).
func (g *Generator) fromTemplate(query string, in *intent.Intent, sysctx command.SystemContext) *command.Command {
	template := intent.Template(in.Action, sysctx.OS)
	if template == "" {
		return nil
	}

	cmd := command.New(query, intent.Fill(template, in, sysctx), intent.Explanation(in), intent.CommandType(in.Action))
	cmd.Confidence = patternConfidence
	cmd.Context = sysctx
	return cmd
}

// providerCommand is the JSON schema the provider is asked to produce.
type providerCommand struct {
	ShellCommand string   `json:"shell_command"`
	Explanation  string   `json:"explanation"`
	CommandType  string   `json:"command_type"`
	SafetyLevel  string   `json:"safety_level"`
	Confidence   float64  `json:"confidence"`
	Alternatives []string `json:"alternatives"`
	Warnings     []string `json:"warnings"`
}

// fromProvider asks the LLM for a command. Provider failure never fails the
// generation cycle: the caller gets a safe echo command explaining the
// error, with a warning attached.
func (g *Generator) fromProvider(ctx context.Context, query string, sysctx command.SystemContext) *command.Command {
	resp, err := g.provider.Chat(ctx, provider.ChatRequest{
		Messages: []provider.Message{
			{Role: "system", Content: generateSystemPrompt(sysctx)},
			{Role: "user", Content: fmt.Sprintf("Query: %q\n\nGenerate the appropriate shell command.", query)},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		ExpectJSON:  true,
	})
	if err != nil {
		g.logger.Warn("provider generation failed", "err", err)
		return errorCommand(query, sysctx, err)
	}

	var parsed providerCommand
	if err := json.Unmarshal([]byte(provider.StripJSONFence(resp.Text)), &parsed); err != nil {
		g.logger.Warn("provider returned unparseable JSON", "err", err)
		return errorCommand(query, sysctx, err)
	}
	if strings.TrimSpace(parsed.ShellCommand) == "" {
		return errorCommand(query, sysctx, fmt.Errorf("provider returned empty shell_command"))
	}

	cmd := command.New(query, parsed.ShellCommand, parsed.Explanation, command.Type(parsed.CommandType))
	if cmd.Explanation == "" {
		cmd.Explanation = "Generated by " + g.provider.Name()
	}
	if parsed.CommandType == "" {
		cmd.Type = command.TypeCustom
	}
	// The provider's own assessment is a floor, not the verdict; the
	// checker still runs afterwards and can only raise it.
	if level := command.SafetyLevel(parsed.SafetyLevel); level.Valid() {
		cmd.SafetyLevel = level
	}
	cmd.Confidence = parsed.Confidence
	cmd.Alternatives = parsed.Alternatives
	cmd.Warnings = parsed.Warnings
	cmd.Context = sysctx
	return cmd
}

func errorCommand(query string, sysctx command.SystemContext, cause error) *command.Command {
	cmd := command.New(query,
		fmt.Sprintf("echo 'Error processing query: %s'", strings.ReplaceAll(cause.Error(), "'", "")),
		"Error occurred during command generation",
		command.TypeCustom)
	cmd.Warnings = append(cmd.Warnings, "Command generation failed")
	cmd.Context = sysctx
	return cmd
}

func generateSystemPrompt(sysctx command.SystemContext) string {
	var sb strings.Builder
	sb.WriteString("You are an expert system administrator who generates shell commands.\n\n")
	fmt.Fprintf(&sb, "Operating system: %s\n", orUnknown(sysctx.OS))
	fmt.Fprintf(&sb, "Current directory: %s\n", orUnknown(sysctx.Directory))
	fmt.Fprintf(&sb, "Shell type: %s\n", orUnknown(sysctx.Shell))
	if sysctx.InGitRepository() {
		fmt.Fprintf(&sb, "Git repository: %s (branch %s, %s)\n", sysctx.GitRepository, sysctx.GitBranch, sysctx.GitStatus)
	}
	sb.WriteString(`
Return a JSON object with:
- shell_command: the exact command to run
- explanation: clear explanation of what the command does
- command_type: one of file_operation, git_command, system_info, process_management, network_operation, package_management, custom
- safety_level: one of safe, cautious, dangerous, forbidden
- confidence: confidence score 0.0-1.0
- alternatives: list of alternative commands
- warnings: list of potential warnings

Be precise and consider safety. Mark dangerous commands appropriately.
Return only valid JSON.`)
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// Explain asks the provider what an existing command does.
func (g *Generator) Explain(ctx context.Context, shellCommand string) (string, error) {
	if g.provider == nil {
		return "", fmt.Errorf("no provider is configured")
	}

	sysctx := g.collector.Collect(ctx)
	resp, err := g.provider.Chat(ctx, provider.ChatRequest{
		Messages: []provider.Message{
			{Role: "system", Content: "You are an expert system administrator. Explain what the given shell command does in clear, simple terms: what it does, what each part/flag means, potential risks or side effects, and the expected result. Keep it concise but informative."},
			{Role: "user", Content: fmt.Sprintf("Explain this command: %s\n\nOperating System: %s\nCurrent Directory: %s", shellCommand, orUnknown(sysctx.OS), orUnknown(sysctx.Directory))},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("explaining command: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Alternatives generates up to count distinct commands for the query,
// primary first. Variations that fail or duplicate the primary are skipped.
func (g *Generator) Alternatives(ctx context.Context, query string, count int) ([]*command.Command, error) {
	primary, err := g.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	results := []*command.Command{primary}

	variations := []string{
		"Alternative way to: " + query,
		"Another method to: " + query,
		"Different approach for: " + query,
	}
	for _, variation := range variations {
		if len(results) >= count {
			break
		}
		alt, err := g.Generate(ctx, variation)
		if err != nil {
			continue
		}
		if duplicate(results, alt.ShellCommand) {
			continue
		}
		results = append(results, alt)
	}

	return results, nil
}

func duplicate(cmds []*command.Command, shellCommand string) bool {
	for _, c := range cmds {
		if c.ShellCommand == shellCommand {
			return true
		}
	}
	return false
}
