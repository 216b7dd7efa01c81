// Package tui renders command records for the terminal and implements the
// interactive confirmation prompt. Uses the Charmbracelet ecosystem:
// Bubble Tea and Lip Gloss.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ychenfen/shellgpt/internal/command"
	"github.com/ychenfen/shellgpt/internal/safety"
	"github.com/ychenfen/shellgpt/internal/tui/styles"
	"github.com/ychenfen/shellgpt/internal/tui/theme"
	"github.com/ychenfen/shellgpt/internal/utils"
)

const maxCommandWidth = 100

// RenderCommand renders a classified command as a styled panel: the command
// itself, its explanation, the tier badge with the advisory line, and any
// warnings and alternatives.
func RenderCommand(cmd *command.Command) string {
	s := styles.New()

	var lines []string

	display := utils.SanitizeInput(cmd.ShellCommand)
	if len(display) > maxCommandWidth {
		display = display[:maxCommandWidth-3] + "..."
	}
	lines = append(lines, s.CommandBox.Render(display))

	if cmd.Explanation != "" {
		lines = append(lines, s.Normal.Render(utils.SanitizeInput(cmd.Explanation)))
	}

	tier := string(cmd.SafetyLevel)
	advisory := safety.Recommendation(cmd.SafetyLevel)
	lines = append(lines, theme.TierEmoji(tier)+" "+s.TierBadge(tier)+" "+s.Dimmed.Render(advisory))

	if cmd.Confidence > 0 {
		lines = append(lines, s.Dimmed.Render(fmt.Sprintf("confidence: %.0f%%", cmd.Confidence*100)))
	}

	for _, w := range cmd.Warnings {
		lines = append(lines, s.Warning.Render("⚠ "+utils.SanitizeInput(w)))
	}

	if len(cmd.Alternatives) > 0 {
		lines = append(lines, s.Subtitle.Render("alternatives:"))
		for _, alt := range cmd.Alternatives {
			lines = append(lines, s.Dimmed.Render("  "+utils.SanitizeInput(alt)))
		}
	}

	return s.Panel.Render(strings.Join(lines, "\n"))
}

// RenderResult renders an execution outcome line.
func RenderResult(result *command.ExecutionResult) string {
	s := styles.New()

	switch {
	case result.TimedOut:
		return s.Error.Render(fmt.Sprintf("✗ timed out after %s", result.Duration.Round(time.Millisecond)))
	case !result.Executed:
		return s.Dimmed.Render("not executed")
	case result.ExitCode != 0:
		return s.Error.Render(fmt.Sprintf("✗ exit %d (%s)", result.ExitCode, result.Duration.Round(time.Millisecond)))
	default:
		return s.Success.Render(fmt.Sprintf("✓ done (%s)", result.Duration.Round(time.Millisecond)))
	}
}
