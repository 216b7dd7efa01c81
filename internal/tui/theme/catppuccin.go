// Package theme provides Catppuccin color schemes.
package theme

import "github.com/charmbracelet/lipgloss"

// Mocha returns the Catppuccin Mocha theme (dark).
func Mocha() *Theme {
	return &Theme{
		Name:   "Catppuccin Mocha",
		IsDark: true,

		Mauve:  lipgloss.Color("#cba6f7"),
		Blue:   lipgloss.Color("#89b4fa"),
		Green:  lipgloss.Color("#a6e3a1"),
		Yellow: lipgloss.Color("#f9e2af"),
		Peach:  lipgloss.Color("#fab387"),
		Red:    lipgloss.Color("#f38ba8"),
		Teal:   lipgloss.Color("#94e2d5"),

		Text:    lipgloss.Color("#cdd6f4"),
		Subtext: lipgloss.Color("#a6adc8"),

		Surface: lipgloss.Color("#313244"),
		Mantle:  lipgloss.Color("#181825"),

		Overlay: lipgloss.Color("#6c7086"),
	}
}

// Macchiato returns the Catppuccin Macchiato theme (dark).
func Macchiato() *Theme {
	return &Theme{
		Name:   "Catppuccin Macchiato",
		IsDark: true,

		Mauve:  lipgloss.Color("#c6a0f6"),
		Blue:   lipgloss.Color("#8aadf4"),
		Green:  lipgloss.Color("#a6da95"),
		Yellow: lipgloss.Color("#eed49f"),
		Peach:  lipgloss.Color("#f5a97f"),
		Red:    lipgloss.Color("#ed8796"),
		Teal:   lipgloss.Color("#8bd5ca"),

		Text:    lipgloss.Color("#cad3f5"),
		Subtext: lipgloss.Color("#a5adcb"),

		Surface: lipgloss.Color("#363a4f"),
		Mantle:  lipgloss.Color("#1e2030"),

		Overlay: lipgloss.Color("#6e738d"),
	}
}

// Frappe returns the Catppuccin Frappe theme (dark).
func Frappe() *Theme {
	return &Theme{
		Name:   "Catppuccin Frappe",
		IsDark: true,

		Mauve:  lipgloss.Color("#ca9ee6"),
		Blue:   lipgloss.Color("#8caaee"),
		Green:  lipgloss.Color("#a6d189"),
		Yellow: lipgloss.Color("#e5c890"),
		Peach:  lipgloss.Color("#ef9f76"),
		Red:    lipgloss.Color("#e78284"),
		Teal:   lipgloss.Color("#81c8be"),

		Text:    lipgloss.Color("#c6d0f5"),
		Subtext: lipgloss.Color("#a5adce"),

		Surface: lipgloss.Color("#414559"),
		Mantle:  lipgloss.Color("#292c3c"),

		Overlay: lipgloss.Color("#737994"),
	}
}

// Latte returns the Catppuccin Latte theme (light).
func Latte() *Theme {
	return &Theme{
		Name:   "Catppuccin Latte",
		IsDark: false,

		Mauve:  lipgloss.Color("#8839ef"),
		Blue:   lipgloss.Color("#1e66f5"),
		Green:  lipgloss.Color("#40a02b"),
		Yellow: lipgloss.Color("#df8e1d"),
		Peach:  lipgloss.Color("#fe640b"),
		Red:    lipgloss.Color("#d20f39"),
		Teal:   lipgloss.Color("#179299"),

		Text:    lipgloss.Color("#4c4f69"),
		Subtext: lipgloss.Color("#6c6f85"),

		Surface: lipgloss.Color("#ccd0da"),
		Mantle:  lipgloss.Color("#e6e9ef"),

		Overlay: lipgloss.Color("#9ca0b0"),
	}
}
