package safety

import (
	"regexp"
	"strings"

	"github.com/ychenfen/shellgpt/internal/command"
)

// NoSaferAlternative is returned by SaferAlternative when no known rewrite
// applies.
const NoSaferAlternative = "# No safer alternative available - manual review required"

// Recommendation maps a safety tier to the advisory text shown to the user.
// Advisory strings are display-only; they never change execution decisions.
func Recommendation(level command.SafetyLevel) string {
	switch level {
	case command.LevelSafe:
		return "Command appears safe to execute"
	case command.LevelCautious:
		return "Command requires caution - please review before executing"
	case command.LevelDangerous:
		return "DANGEROUS command detected - are you absolutely sure?"
	default: // forbidden
		return "Command is forbidden and will not be executed"
	}
}

// ShouldRequireConfirmation reports whether the command needs user
// confirmation before execution: true for cautious and dangerous, false for
// safe and forbidden (forbidden is refused outright, not confirmed).
func ShouldRequireConfirmation(cmd *command.Command) bool {
	return cmd.SafetyLevel == command.LevelCautious || cmd.SafetyLevel == command.LevelDangerous
}

// IsForbidden reports whether the command must never be executed.
func IsForbidden(cmd *command.Command) bool {
	return cmd.SafetyLevel == command.LevelForbidden
}

var pipeToInterpreter = regexp.MustCompile(`\|\s*(bash|sh|python)`)

// Sanitize strips obviously dangerous elements from a command string:
// pipe-to-interpreter suffixes are removed (possibly leaving double spaces),
// and when the command mixes rm with a critical path, -rf is downgraded to
// -r and standalone -f occurrences are dropped.
//
// This is best-effort advisory text generation, not a security boundary.
// A sanitized command is never safe to auto-execute.
func (c *Checker) Sanitize(cmd string) string {
	sanitized := pipeToInterpreter.ReplaceAllString(cmd, "")

	if strings.Contains(sanitized, "rm") {
		for _, path := range c.lib.CriticalPaths() {
			if strings.Contains(sanitized, path) {
				sanitized = strings.ReplaceAll(sanitized, "-rf", "-r")
				sanitized = strings.ReplaceAll(sanitized, "-f", "")
				break
			}
		}
	}

	return strings.TrimSpace(sanitized)
}

// SaferAlternative suggests a safer rewrite of a dangerous idiom in the
// command, or NoSaferAlternative when none is known. The rewrite operates
// on the lowercased command text.
func SaferAlternative(cmd *command.Command) string {
	shellCmd := strings.ToLower(cmd.ShellCommand)

	if strings.Contains(shellCmd, "rm -rf") {
		// Interactive mode instead of unconditional force.
		return strings.ReplaceAll(shellCmd, "rm -rf", "rm -ri")
	}

	if strings.Contains(shellCmd, "chmod 777") {
		return strings.ReplaceAll(shellCmd, "chmod 777", "chmod 755")
	}

	if strings.Contains(shellCmd, "|bash") || strings.Contains(shellCmd, "|sh") {
		// Download to a file and review before running.
		base := strings.SplitN(shellCmd, "|", 2)[0]
		return base + " > /tmp/script.sh && cat /tmp/script.sh  # Review before: bash /tmp/script.sh"
	}

	return NoSaferAlternative
}
