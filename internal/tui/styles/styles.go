// Package styles provides reusable lipgloss styles for the terminal UI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ychenfen/shellgpt/internal/tui/theme"
)

// Styles contains all the styled lipgloss renderers.
type Styles struct {
	// Title styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	// Text styles
	Normal  lipgloss.Style
	Dimmed  lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style

	// Safety tier badge styles
	TierSafe      lipgloss.Style
	TierCautious  lipgloss.Style
	TierDangerous lipgloss.Style
	TierForbidden lipgloss.Style

	// Container styles
	CommandBox lipgloss.Style
	Panel      lipgloss.Style
}

// New creates a new Styles instance from the current theme.
func New() *Styles {
	return FromTheme(theme.Current)
}

// FromTheme creates styles from a specific theme.
func FromTheme(t *theme.Theme) *Styles {
	s := &Styles{}

	s.Title = lipgloss.NewStyle().
		Foreground(t.Mauve).
		Bold(true)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(t.Subtext).
		Italic(true)

	s.Normal = lipgloss.NewStyle().
		Foreground(t.Text)

	s.Dimmed = lipgloss.NewStyle().
		Foreground(t.Subtext)

	s.Warning = lipgloss.NewStyle().
		Foreground(t.Yellow)

	s.Error = lipgloss.NewStyle().
		Foreground(t.Red).
		Bold(true)

	s.Success = lipgloss.NewStyle().
		Foreground(t.Green)

	badge := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	s.TierSafe = badge.Foreground(t.Mantle).Background(t.Green)
	s.TierCautious = badge.Foreground(t.Mantle).Background(t.Yellow)
	s.TierDangerous = badge.Foreground(t.Mantle).Background(t.Peach)
	s.TierForbidden = badge.Foreground(t.Mantle).Background(t.Red)

	s.CommandBox = lipgloss.NewStyle().
		Foreground(t.Green).
		Background(t.Mantle).
		Padding(0, 1)

	s.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Overlay).
		Padding(0, 1)

	return s
}

// TierBadge renders the badge for a safety tier.
func (s *Styles) TierBadge(tier string) string {
	label := strings.ToUpper(tier)
	switch tier {
	case "safe":
		return s.TierSafe.Render(label)
	case "cautious":
		return s.TierCautious.Render(label)
	case "dangerous":
		return s.TierDangerous.Render(label)
	case "forbidden":
		return s.TierForbidden.Render(label)
	default:
		return s.Normal.Render(label)
	}
}
