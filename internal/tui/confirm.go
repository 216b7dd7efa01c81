package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ychenfen/shellgpt/internal/tui/styles"
)

// ConfirmModel is a yes/no prompt rendered as a Bubble Tea model.
type ConfirmModel struct {
	Prompt     string
	DefaultYes bool

	accepted bool
	answered bool
}

// NewConfirm creates a confirmation prompt model.
func NewConfirm(prompt string, defaultYes bool) ConfirmModel {
	return ConfirmModel{Prompt: prompt, DefaultYes: defaultYes}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.accepted = true
		m.answered = true
		return m, tea.Quit
	case "n", "N", "q", "esc", "ctrl+c":
		m.accepted = false
		m.answered = true
		return m, tea.Quit
	case "enter":
		m.accepted = m.DefaultYes
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}
	s := styles.New()
	hint := "[Y/n]"
	if !m.DefaultYes {
		hint = "[y/N]"
	}
	return fmt.Sprintf("%s %s ", s.Normal.Render(m.Prompt), s.Dimmed.Render(hint))
}

// Accepted reports the user's answer.
func (m ConfirmModel) Accepted() bool {
	return m.accepted
}

// Confirm runs the prompt and returns the answer. Any terminal error counts
// as a decline.
func Confirm(prompt string, defaultYes bool) bool {
	p := tea.NewProgram(NewConfirm(prompt, defaultYes))
	final, err := p.Run()
	if err != nil {
		return false
	}
	m, ok := final.(ConfirmModel)
	return ok && m.Accepted()
}
