package safety

import (
	"fmt"
	"strings"

	"github.com/ychenfen/shellgpt/internal/command"
)

// Checker classifies command records against the pattern library.
//
// Classify is the only safety barrier between a generated command and
// execution: callers must treat an absence of warnings as "no known risk
// detected", never as proof of safety.
type Checker struct {
	lib *Library
}

// NewChecker creates a checker over the given library. A nil library uses
// the builtin one.
func NewChecker(lib *Library) *Checker {
	if lib == nil {
		lib = NewLibrary()
	}
	return &Checker{lib: lib}
}

// Library returns the pattern library the checker evaluates.
func (c *Checker) Library() *Library {
	return c.lib
}

// Classify analyzes cmd and updates its safety level and warnings in place.
//
// Four checks run in order on the lowercased command string: the pattern
// scan, the critical-path scan, the risky-flag scan, and the
// context-sensitive scan. Only the pattern scan can raise the tier; the
// other three contribute warnings only. The tier never decreases and
// warnings are append-only, so re-classifying an already classified record
// appends duplicate warnings rather than failing.
func (c *Checker) Classify(cmd *command.Command) *command.Command {
	lowered := strings.ToLower(cmd.ShellCommand)

	level, warnings := c.scanPatterns(lowered)
	warnings = append(warnings, c.scanCriticalPaths(lowered)...)
	warnings = append(warnings, c.scanRiskyFlags(lowered)...)
	warnings = append(warnings, c.scanContext(cmd)...)

	cmd.SafetyLevel = command.MaxLevel(cmd.SafetyLevel, level)
	cmd.Warnings = append(cmd.Warnings, warnings...)

	return cmd
}

// scanPatterns collects all category matches and computes the resulting
// tier. Elevation is asymmetric on purpose:
//
//   - destructive forces dangerous (nothing can exceed it),
//   - privilege_escalation / system_modification raise to cautious unless
//     already dangerous,
//   - network_dangerous / credential_exposure raise to cautious only from
//     safe.
//
// A command matching both a system_modification and a network_dangerous
// pattern therefore ends at cautious, while one matching only destructive
// ends at dangerous regardless of other matches.
func (c *Checker) scanPatterns(lowered string) (command.SafetyLevel, []string) {
	var warnings []string
	maxDanger := command.LevelSafe

	for _, cat := range c.lib.Categories() {
		for _, p := range cat.Patterns {
			if !p.Compiled.MatchString(lowered) {
				continue
			}
			warnings = append(warnings, fmt.Sprintf("Detected %s pattern: %s", cat.Name, p.Raw))
			switch cat.Name {
			case CategoryDestructive:
				maxDanger = command.LevelDangerous
			case CategoryPrivilegeEscalation, CategorySystemModification:
				if maxDanger != command.LevelDangerous {
					maxDanger = command.LevelCautious
				}
			case CategoryNetworkDangerous, CategoryCredentialExposure:
				if maxDanger == command.LevelSafe {
					maxDanger = command.LevelCautious
				}
			}
		}
	}

	return maxDanger, warnings
}

// scanCriticalPaths adds a warning per protected path found in the command.
// This never alters the tier: warning presence does not imply elevation, and
// callers must not assume it does.
func (c *Checker) scanCriticalPaths(lowered string) []string {
	var warnings []string
	for _, path := range c.lib.CriticalPaths() {
		if strings.Contains(lowered, path) {
			warnings = append(warnings, fmt.Sprintf("Command targets critical system path: %s", path))
		}
	}
	return warnings
}

// scanRiskyFlags warns on risky base-command/flag combinations. Both the
// base name and the flag are plain substring matches; no argument parsing.
// Warnings only, never the tier.
func (c *Checker) scanRiskyFlags(lowered string) []string {
	var warnings []string
	for _, rule := range c.lib.RiskyFlags() {
		if !strings.Contains(lowered, rule.Command) {
			continue
		}
		for _, flag := range rule.Flags {
			if strings.Contains(lowered, flag) {
				warnings = append(warnings, fmt.Sprintf("Risky flag detected: %s %s", rule.Command, flag))
			}
		}
	}
	return warnings
}

// destructiveGitCommands are flagged when the context says we are inside a
// git repository.
var destructiveGitCommands = []string{
	"git reset --hard",
	"git clean -fd",
	"git push --force",
}

// scanContext applies the context-sensitive rules. Missing context fields
// are treated as absent. Warnings only, never the tier.
func (c *Checker) scanContext(cmd *command.Command) []string {
	var warnings []string
	lowered := strings.ToLower(cmd.ShellCommand)

	if cmd.Context.User == "root" {
		warnings = append(warnings, "Running as root user - extra caution advised")
	}

	dir := strings.ToLower(cmd.Context.Directory)
	for _, important := range []string{"home", "documents", "desktop"} {
		if strings.Contains(dir, important) {
			if strings.Contains(lowered, "rm") {
				warnings = append(warnings, "Deletion command in user directory")
			}
			break
		}
	}

	if cmd.Context.InGitRepository() {
		for _, gitCmd := range destructiveGitCommands {
			if strings.Contains(lowered, gitCmd) {
				warnings = append(warnings, fmt.Sprintf("Potentially destructive git command: %s", gitCmd))
			}
		}
	}

	return warnings
}
