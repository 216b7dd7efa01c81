// Package safety implements static, pattern-based risk classification for
// shell commands. Classification is deterministic and fast by design: it
// must not depend on the model (or template) that produced the command.
package safety

import (
	"fmt"
	"regexp"
)

// Category names, in evaluation order. The order is load-bearing: when two
// categories would elevate to the same tier, the earlier one wins the
// warning ordering, and destructive is always checked first.
const (
	CategoryDestructive         = "destructive"
	CategoryPrivilegeEscalation = "privilege_escalation"
	CategoryNetworkDangerous    = "network_dangerous"
	CategorySystemModification  = "system_modification"
	CategoryCredentialExposure  = "credential_exposure"
)

// Pattern is one dangerous-command regex within a category.
type Pattern struct {
	// Raw is the pattern string as written in the table.
	Raw string
	// Compiled is the compiled regex.
	Compiled *regexp.Regexp
}

// Category is a named, ordered group of dangerous-command patterns.
type Category struct {
	// Name is the category identifier used in warning text.
	Name string
	// Patterns are evaluated in order; all matches are collected.
	Patterns []Pattern
}

// Library holds the static tables the classifier evaluates: regex pattern
// categories, critical filesystem paths, and risky flag combinations.
// It is compiled once at construction and read-only thereafter, so a single
// Library is safe to share across concurrent classifications.
type Library struct {
	categories    []Category
	criticalPaths []string
	riskyFlags    []FlagRule
}

// FlagRule maps a base command name to flag substrings that are risky in
// combination with it. Matching requires both the base name and the flag to
// appear anywhere in the lowercased command text; there is no argument
// parsing.
type FlagRule struct {
	Command string
	Flags   []string
}

// NewLibrary builds the default pattern library.
func NewLibrary() *Library {
	return &Library{
		categories: []Category{
			{Name: CategoryDestructive, Patterns: compile(
				`\brm\s+-rf\s+/`,
				`\brm\s+-rf\s+\*`,
				`\bdd\s+if=.*of=/dev/`,
				`\bmkfs\.`,
				`\bformat\s+`,
				`>\s*/dev/sd[a-z]`,
				`\bshred\s+`,
				`\bwipe\s+`,
			)},
			{Name: CategoryPrivilegeEscalation, Patterns: compile(
				`\bsudo\s+rm\s+-rf`,
				`\bsudo\s+dd\s+`,
				`\bsudo\s+chmod\s+777`,
				`\bsu\s+-\s+`,
				`\bsudo\s+su\s+`,
			)},
			{Name: CategoryNetworkDangerous, Patterns: compile(
				`\bnc\s+.*-e\s+`,
				`\bnetcat\s+.*-e\s+`,
				`\bbash\s+-i\s+>&\s+/dev/tcp/`,
				`\bwget\s+.*\|\s*bash`,
				`\bcurl\s+.*\|\s*bash`,
				`\bcurl\s+.*\|\s*sh`,
			)},
			{Name: CategorySystemModification, Patterns: compile(
				`\bchmod\s+777\s+/`,
				`\bchown\s+.*:/`,
				`>\s*/etc/`,
				`\bmount\s+`,
				`\bumount\s+`,
				`\bfdisk\s+`,
				`\bparted\s+`,
			)},
			{Name: CategoryCredentialExposure, Patterns: compile(
				`\becho\s+.*password`,
				`\becho\s+.*token`,
				`\becho\s+.*secret`,
				`\bcat\s+.*\.pem`,
				`\bcat\s+.*\.key`,
				`\bcat\s+.*password`,
			)},
		},
		// Matched by plain substring containment against the lowercased
		// command, not path-boundary aware: a command containing /etc/foo
		// matches the /etc entry.
		criticalPaths: []string{
			"/", "/bin", "/sbin", "/usr", "/etc", "/boot", "/sys", "/proc",
			"/dev", "/var/log", "/usr/bin", "/usr/sbin", "/lib", "/lib64",
			`C:\Windows`, `C:\Program Files`, `C:\System32`,
		},
		riskyFlags: []FlagRule{
			{Command: "rm", Flags: []string{"-rf", "-r", "-f", "--recursive", "--force"}},
			{Command: "chmod", Flags: []string{"777", "666", "755"}},
			{Command: "dd", Flags: []string{"of=/dev/", "if=/dev/"}},
			{Command: "curl", Flags: []string{"|bash", "|sh", "|python"}},
			{Command: "wget", Flags: []string{"|bash", "|sh", "|python"}},
			{Command: "find", Flags: []string{"-delete", "-exec rm"}},
		},
	}
}

func compile(patterns ...string) []Pattern {
	result := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		compiled, err := regexp.Compile(p)
		if err != nil {
			// Builtin patterns must always be valid.
			panic(fmt.Sprintf("invalid builtin pattern %q: %v", p, err))
		}
		result = append(result, Pattern{Raw: p, Compiled: compiled})
	}
	return result
}

// Categories returns the pattern categories in evaluation order.
func (l *Library) Categories() []Category {
	return l.categories
}

// CriticalPaths returns the protected filesystem path strings.
func (l *Library) CriticalPaths() []string {
	return l.criticalPaths
}

// RiskyFlags returns the risky flag rules.
func (l *Library) RiskyFlags() []FlagRule {
	return l.riskyFlags
}
