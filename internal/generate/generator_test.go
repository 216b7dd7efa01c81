package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ychenfen/shellgpt/internal/command"
	"github.com/ychenfen/shellgpt/internal/provider"
)

type stubProvider struct {
	text    string
	err     error
	calls   int
	lastReq provider.ChatRequest
}

func (s *stubProvider) Chat(_ context.Context, req provider.ChatRequest) (provider.ChatResponse, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return provider.ChatResponse{}, s.err
	}
	return provider.ChatResponse{Text: s.text, Model: "stub"}, nil
}

func (s *stubProvider) Name() string                    { return "stub" }
func (s *stubProvider) Available(context.Context) error { return nil }

func linuxContext() command.SystemContext {
	return command.SystemContext{Directory: "/home/dev/project", OS: "Linux", Shell: "bash", User: "dev"}
}

func newTestGenerator(t *testing.T, p provider.Provider) *Generator {
	t.Helper()
	g, err := New(Options{Provider: p, Collector: StaticContext(linuxContext())})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func TestGenerate_PatternTier(t *testing.T) {
	stub := &stubProvider{}
	g := newTestGenerator(t, stub)

	cmd, err := g.Generate(context.Background(), "list files")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if cmd.ShellCommand != "ls -la ." {
		t.Errorf("ShellCommand = %q, want %q", cmd.ShellCommand, "ls -la .")
	}
	if cmd.Type != command.TypeFileOperation {
		t.Errorf("Type = %q, want %q", cmd.Type, command.TypeFileOperation)
	}
	if cmd.Confidence != patternConfidence {
		t.Errorf("Confidence = %v, want %v", cmd.Confidence, patternConfidence)
	}
	if cmd.SafetyLevel != command.LevelSafe {
		t.Errorf("SafetyLevel = %q, want safe", cmd.SafetyLevel)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times for a pattern-tier query", stub.calls)
	}
}

func TestGenerate_ProviderFallback(t *testing.T) {
	stub := &stubProvider{text: `{"shell_command":"date","explanation":"Print the current date","command_type":"system_info","safety_level":"safe","confidence":0.8}`}
	g := newTestGenerator(t, stub)

	cmd, err := g.Generate(context.Background(), "rotate the api keys")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if stub.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", stub.calls)
	}
	if !stub.lastReq.ExpectJSON {
		t.Errorf("ExpectJSON = false, want true")
	}
	if cmd.ShellCommand != "date" {
		t.Errorf("ShellCommand = %q, want date", cmd.ShellCommand)
	}
	if cmd.Type != command.TypeSystemInfo {
		t.Errorf("Type = %q, want system_info", cmd.Type)
	}
	if cmd.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", cmd.Confidence)
	}
}

func TestGenerate_ProviderFencedJSON(t *testing.T) {
	stub := &stubProvider{text: "```json\n{\"shell_command\":\"date\",\"explanation\":\"x\"}\n```"}
	g := newTestGenerator(t, stub)

	cmd, err := g.Generate(context.Background(), "rotate the api keys")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if cmd.ShellCommand != "date" {
		t.Errorf("ShellCommand = %q, want date", cmd.ShellCommand)
	}
}

func TestGenerate_ProviderErrorYieldsEchoCommand(t *testing.T) {
	stub := &stubProvider{err: errors.New("connection refused")}
	g := newTestGenerator(t, stub)

	cmd, err := g.Generate(context.Background(), "rotate the api keys")
	if err != nil {
		t.Fatalf("Generate() error = %v, want fallback command", err)
	}

	if !strings.HasPrefix(cmd.ShellCommand, "echo 'Error processing query:") {
		t.Errorf("ShellCommand = %q, want echo fallback", cmd.ShellCommand)
	}
	if cmd.Type != command.TypeCustom {
		t.Errorf("Type = %q, want custom", cmd.Type)
	}
	if cmd.SafetyLevel != command.LevelSafe {
		t.Errorf("SafetyLevel = %q, want safe", cmd.SafetyLevel)
	}
	found := false
	for _, w := range cmd.Warnings {
		if w == "Command generation failed" {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want generation-failed warning", cmd.Warnings)
	}
}

func TestGenerate_ProviderBadJSONYieldsEchoCommand(t *testing.T) {
	stub := &stubProvider{text: "sure, here is your command: ls"}
	g := newTestGenerator(t, stub)

	cmd, err := g.Generate(context.Background(), "rotate the api keys")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.HasPrefix(cmd.ShellCommand, "echo 'Error processing query:") {
		t.Errorf("ShellCommand = %q, want echo fallback", cmd.ShellCommand)
	}
}

func TestGenerate_CheckerOverridesProviderAssessment(t *testing.T) {
	stub := &stubProvider{text: `{"shell_command":"rm -rf /tmp/cache","explanation":"x","safety_level":"safe"}`}
	g := newTestGenerator(t, stub)

	cmd, err := g.Generate(context.Background(), "rotate the api keys")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if cmd.SafetyLevel != command.LevelDangerous {
		t.Errorf("SafetyLevel = %q, want dangerous despite provider claim", cmd.SafetyLevel)
	}
}

func TestGenerate_ProviderAssessmentIsFloor(t *testing.T) {
	stub := &stubProvider{text: `{"shell_command":"date","explanation":"x","safety_level":"dangerous"}`}
	g := newTestGenerator(t, stub)

	cmd, err := g.Generate(context.Background(), "rotate the api keys")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if cmd.SafetyLevel != command.LevelDangerous {
		t.Errorf("SafetyLevel = %q, want dangerous (checker never lowers)", cmd.SafetyLevel)
	}
}

func TestGenerate_PackageActionFallsToProvider(t *testing.T) {
	// Package templates are keyed by package manager, so the pattern tier
	// cannot complete them itself.
	stub := &stubProvider{text: `{"shell_command":"pip install requests","explanation":"x","command_type":"package_management"}`}
	g := newTestGenerator(t, stub)

	cmd, err := g.Generate(context.Background(), "install the requests package")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("provider calls = %d, want 1", stub.calls)
	}
	if cmd.ShellCommand != "pip install requests" {
		t.Errorf("ShellCommand = %q", cmd.ShellCommand)
	}
}

func TestGenerate_EmptyQuery(t *testing.T) {
	g := newTestGenerator(t, &stubProvider{})
	if _, err := g.Generate(context.Background(), "   "); err == nil {
		t.Fatalf("Generate() error = nil, want empty-query error")
	}
}

func TestGenerate_NoMatchNoProvider(t *testing.T) {
	g := newTestGenerator(t, nil)
	if _, err := g.Generate(context.Background(), "rotate the api keys"); err == nil {
		t.Fatalf("Generate() error = nil, want no-provider error")
	}
}

func TestExplain(t *testing.T) {
	stub := &stubProvider{text: "Lists directory contents in long format.\n"}
	g := newTestGenerator(t, stub)

	got, err := g.Explain(context.Background(), "ls -la")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if got != "Lists directory contents in long format." {
		t.Errorf("Explain() = %q", got)
	}
	if stub.lastReq.ExpectJSON {
		t.Errorf("ExpectJSON = true, want false for explanations")
	}
}

func TestAlternatives_DeduplicatesIdenticalCommands(t *testing.T) {
	// Every variation of a pattern-tier query resolves to the same template,
	// so only the primary survives.
	g := newTestGenerator(t, nil)

	got, err := g.Alternatives(context.Background(), "list files", 3)
	if err != nil {
		t.Fatalf("Alternatives() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 after dedup", len(got))
	}
	if got[0].ShellCommand != "ls -la ." {
		t.Errorf("primary = %q", got[0].ShellCommand)
	}
}
