// Package shellenv collects the system context commands are generated
// against: working directory, OS and shell, git state, relevant environment
// variables, available tools, and recent shell history.
package shellenv

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/ychenfen/shellgpt/internal/command"
)

// relevantEnvVars are the environment variables worth passing to the
// generator as context.
var relevantEnvVars = []string{
	"PATH", "HOME", "USER", "PWD", "SHELL",
	"EDITOR", "LANG", "TERM", "VIRTUAL_ENV",
	"NODE_ENV", "PYTHONPATH", "JAVA_HOME",
}

// commonTools are probed on PATH to tell the generator what is installed.
var commonTools = []string{
	"ls", "mkdir", "rm", "cp", "mv", "find", "grep",
	"git",
	"npm", "yarn", "pip", "pip3", "brew", "apt", "yum", "dnf",
	"vim", "nano", "emacs", "code",
	"node", "python", "python3", "java", "gcc", "make",
	"ps", "top", "htop", "kill", "curl", "wget", "ssh", "scp",
	"docker", "docker-compose", "kubectl",
}

const historyTail = 10

// Collector gathers system context. The zero value is not usable; use New.
type Collector struct {
	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

// New creates a context collector.
func New() *Collector {
	return &Collector{lookPath: exec.LookPath}
}

// Collect gathers the current system context. Individual probes that fail
// leave their fields zero rather than failing the whole collection; a
// command can still be generated with partial context.
func (c *Collector) Collect(ctx context.Context) command.SystemContext {
	dir, _ := os.Getwd()

	sc := command.SystemContext{
		Directory:      dir,
		OS:             osName(),
		Shell:          DetectShell(os.Getenv("SHELL")),
		User:           os.Getenv("USER"),
		EnvVars:        collectEnvVars(),
		AvailableTools: c.detectTools(),
		RecentCommands: recentCommands(),
	}

	if repo, branch, status, ok := gitContext(ctx, dir); ok {
		sc.GitRepository = repo
		sc.GitBranch = branch
		sc.GitStatus = status
	}

	return sc
}

// osName reports the OS in the spelling the template tables use.
func osName() string {
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

// DetectShell maps a $SHELL value to a shell type name.
func DetectShell(shellPath string) string {
	lowered := strings.ToLower(shellPath)
	switch {
	case strings.Contains(lowered, "bash"):
		return "bash"
	case strings.Contains(lowered, "zsh"):
		return "zsh"
	case strings.Contains(lowered, "fish"):
		return "fish"
	case strings.Contains(lowered, "powershell"), strings.Contains(lowered, "pwsh"):
		return "powershell"
	case strings.Contains(lowered, "cmd"):
		return "cmd"
	default:
		return "unknown"
	}
}

func collectEnvVars() map[string]string {
	vars := make(map[string]string)
	for _, name := range relevantEnvVars {
		if v := os.Getenv(name); v != "" {
			vars[name] = v
		}
	}
	return vars
}

func (c *Collector) detectTools() []string {
	var available []string
	for _, tool := range commonTools {
		if _, err := c.lookPath(tool); err == nil {
			available = append(available, tool)
		}
	}
	return available
}

// gitContext probes git state for dir. Returns ok=false outside a repo or
// when git is unavailable.
func gitContext(ctx context.Context, dir string) (repo, branch, status string, ok bool) {
	top, err := gitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil || top == "" {
		return "", "", "", false
	}
	repo = filepath.Base(top)

	branch, err = gitOutput(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}

	porcelain, err := gitOutput(ctx, dir, "status", "--porcelain")
	if err != nil {
		status = "unknown"
	} else {
		status = SummarizeStatus(porcelain)
	}

	return repo, branch, status, true
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// SummarizeStatus condenses `git status --porcelain` output into a short
// human-readable summary like "2 modified, 1 untracked", or "clean".
func SummarizeStatus(porcelain string) string {
	if strings.TrimSpace(porcelain) == "" {
		return "clean"
	}

	var modified, added, deleted, untracked int
	scanner := bufio.NewScanner(strings.NewReader(porcelain))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "??"):
			untracked++
		case strings.HasPrefix(line, "A"):
			added++
		case len(line) >= 2 && line[1] == 'M', strings.HasPrefix(line, "M"):
			modified++
		case len(line) >= 2 && line[1] == 'D', strings.HasPrefix(line, "D"):
			deleted++
		}
	}

	var parts []string
	if modified > 0 {
		parts = append(parts, plural(modified, "modified"))
	}
	if added > 0 {
		parts = append(parts, plural(added, "added"))
	}
	if deleted > 0 {
		parts = append(parts, plural(deleted, "deleted"))
	}
	if untracked > 0 {
		parts = append(parts, plural(untracked, "untracked"))
	}
	if len(parts) == 0 {
		return "clean"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, label string) string {
	return strconv.Itoa(n) + " " + label
}

// recentCommands returns the tail of the shell history file for the
// detected shell, newest last. Best effort.
func recentCommands() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var historyFile string
	switch DetectShell(os.Getenv("SHELL")) {
	case "bash":
		historyFile = filepath.Join(home, ".bash_history")
	case "zsh":
		historyFile = filepath.Join(home, ".zsh_history")
	case "fish":
		historyFile = filepath.Join(home, ".local", "share", "fish", "fish_history")
	default:
		return nil
	}

	data, err := os.ReadFile(historyFile)
	if err != nil {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) > historyTail {
		lines = lines[len(lines)-historyTail:]
	}
	return lines
}
