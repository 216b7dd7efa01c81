// Package theme provides theming for the terminal UI.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for the terminal UI.
type Theme struct {
	// Primary colors
	Mauve  lipgloss.Color // Titles, accents
	Blue   lipgloss.Color // Section headers
	Green  lipgloss.Color // Safe tier, commands, success
	Yellow lipgloss.Color // Cautious tier, warnings
	Peach  lipgloss.Color // Dangerous tier
	Red    lipgloss.Color // Forbidden tier, errors
	Teal   lipgloss.Color // Info, secondary

	// Text colors
	Text    lipgloss.Color // Normal text
	Subtext lipgloss.Color // Dimmed text

	// Surface colors
	Surface lipgloss.Color // Panels, boxes
	Mantle  lipgloss.Color // Darker background

	// Overlay colors
	Overlay lipgloss.Color // Borders

	// Meta
	Name   string
	IsDark bool
}

// FlavorName represents a Catppuccin flavor.
type FlavorName string

const (
	FlavorMocha     FlavorName = "mocha"
	FlavorMacchiato FlavorName = "macchiato"
	FlavorFrappe    FlavorName = "frappe"
	FlavorLatte     FlavorName = "latte"
)

// Current holds the active theme.
var Current = Mocha()

// SetTheme sets the current theme by flavor name.
func SetTheme(flavor FlavorName) {
	switch flavor {
	case FlavorMacchiato:
		Current = Macchiato()
	case FlavorFrappe:
		Current = Frappe()
	case FlavorLatte:
		Current = Latte()
	default:
		Current = Mocha()
	}
}

// TierColor returns the color for a safety tier.
func (t *Theme) TierColor(tier string) lipgloss.Color {
	switch tier {
	case "safe":
		return t.Green
	case "cautious":
		return t.Yellow
	case "dangerous":
		return t.Peach
	case "forbidden":
		return t.Red
	default:
		return t.Text
	}
}

// TierEmoji returns the emoji for a safety tier.
func TierEmoji(tier string) string {
	switch tier {
	case "safe":
		return "🟢"
	case "cautious":
		return "🟡"
	case "dangerous":
		return "🟠"
	case "forbidden":
		return "🔴"
	default:
		return "⚪"
	}
}
