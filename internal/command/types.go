// Package command defines the data model shared by the generation,
// safety, and execution layers: the command record itself, its safety
// tier, and the system context it was generated against.
package command

import "time"

// SafetyLevel is the risk tier assigned to a command.
type SafetyLevel string

const (
	// LevelSafe means no known risk was detected.
	LevelSafe SafetyLevel = "safe"
	// LevelCautious means the command is potentially risky and should be reviewed.
	LevelCautious SafetyLevel = "cautious"
	// LevelDangerous means the command is high risk and requires explicit confirmation.
	LevelDangerous SafetyLevel = "dangerous"
	// LevelForbidden means the command must never be executed.
	LevelForbidden SafetyLevel = "forbidden"
)

// severity defines the total order over safety levels.
// Unknown values rank below safe so a corrupted tier can never mask a real one.
func (l SafetyLevel) severity() int {
	switch l {
	case LevelSafe:
		return 1
	case LevelCautious:
		return 2
	case LevelDangerous:
		return 3
	case LevelForbidden:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether l is at least as severe as other.
func (l SafetyLevel) AtLeast(other SafetyLevel) bool {
	return l.severity() >= other.severity()
}

// MaxLevel returns the more severe of two safety levels.
func MaxLevel(a, b SafetyLevel) SafetyLevel {
	if b.severity() > a.severity() {
		return b
	}
	return a
}

// Valid reports whether l is one of the four declared tiers.
func (l SafetyLevel) Valid() bool {
	return l.severity() > 0
}

func (l SafetyLevel) String() string {
	return string(l)
}

// Type categorizes a generated command.
type Type string

const (
	TypeFileOperation     Type = "file_operation"
	TypeGitCommand        Type = "git_command"
	TypeSystemInfo        Type = "system_info"
	TypeProcessManagement Type = "process_management"
	TypeNetworkOperation  Type = "network_operation"
	TypePackageManagement Type = "package_management"
	TypeCustom            Type = "custom"
)

// SystemContext holds the environmental facts collected before generation.
// Every field is optional; zero values mean the fact was not available.
type SystemContext struct {
	// Directory is the working directory the query was issued from.
	Directory string `json:"directory,omitempty"`
	// OS is the operating system name ("Linux", "Darwin", "Windows").
	OS string `json:"os,omitempty"`
	// Shell is the detected shell type ("bash", "zsh", "fish", ...).
	Shell string `json:"shell,omitempty"`
	// GitRepository is the repository name, empty outside a repo.
	GitRepository string `json:"git_repository,omitempty"`
	// GitBranch is the checked-out branch, empty outside a repo.
	GitBranch string `json:"git_branch,omitempty"`
	// GitStatus is a short working-tree summary ("clean", "2 modified, 1 untracked").
	GitStatus string `json:"git_status,omitempty"`
	// User is the invoking user name.
	User string `json:"user,omitempty"`
	// EnvVars holds the relevant environment variables that were set.
	EnvVars map[string]string `json:"env_vars,omitempty"`
	// AvailableTools lists command-line tools found on PATH.
	AvailableTools []string `json:"available_tools,omitempty"`
	// RecentCommands holds the tail of the shell history, newest last.
	RecentCommands []string `json:"recent_commands,omitempty"`
}

// InGitRepository reports whether the context was collected inside a git repo.
func (c SystemContext) InGitRepository() bool {
	return c.GitRepository != ""
}

// HasTool reports whether the named tool was found on PATH.
func (c SystemContext) HasTool(name string) bool {
	for _, t := range c.AvailableTools {
		if t == name {
			return true
		}
	}
	return false
}

// Command is one candidate shell command plus its classification state.
//
// A record is produced once per query, classified exactly once per
// generation cycle, then consumed by display and execution logic.
// It is not persisted in this form and not mutated after display.
type Command struct {
	// OriginalQuery is the natural-language query that produced the command.
	OriginalQuery string `json:"original_query"`
	// ShellCommand is the literal command string. Required, non-empty.
	ShellCommand string `json:"shell_command"`
	// Explanation is a human-readable description of what the command does.
	Explanation string `json:"explanation"`
	// Type is the command category.
	Type Type `json:"command_type"`
	// SafetyLevel is the assessed risk tier. Defaults to safe before
	// classification and is monotonically non-decreasing within one pass.
	SafetyLevel SafetyLevel `json:"safety_level"`
	// Confidence is the generator's confidence in the command, 0.0-1.0.
	Confidence float64 `json:"confidence"`
	// Alternatives lists alternative command strings, if any.
	Alternatives []string `json:"alternatives,omitempty"`
	// Warnings accumulates classifier warnings. Append-only; duplicates
	// from repeated classification are preserved, not deduplicated.
	Warnings []string `json:"warnings,omitempty"`
	// Context is the system context the command was generated against.
	// Read-only to the classifier.
	Context SystemContext `json:"context_used"`
	// Timestamp is when the record was created.
	Timestamp time.Time `json:"timestamp"`
}

// New creates a command record with the provisional safe tier.
func New(query, shellCommand, explanation string, typ Type) *Command {
	return &Command{
		OriginalQuery: query,
		ShellCommand:  shellCommand,
		Explanation:   explanation,
		Type:          typ,
		SafetyLevel:   LevelSafe,
		Timestamp:     time.Now().UTC(),
	}
}

// ExecutionResult holds the outcome of running a command.
type ExecutionResult struct {
	// Command is the record that was (or was not) executed.
	Command *Command `json:"command"`
	// Executed indicates whether the command actually ran.
	Executed bool `json:"executed"`
	// ExitCode is the command's exit code, meaningful only when Executed.
	ExitCode int `json:"exit_code"`
	// Output is the combined stdout/stderr, possibly truncated.
	Output string `json:"output,omitempty"`
	// TimedOut indicates the command was killed by the execution timeout.
	TimedOut bool `json:"timed_out"`
	// Duration is the wall-clock execution time.
	Duration time.Duration `json:"duration"`
	// Timestamp is when execution finished.
	Timestamp time.Time `json:"timestamp"`
}
