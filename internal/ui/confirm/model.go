package confirm

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmedMsg is sent when the user accepts mailbox deletion.
type ConfirmedMsg struct{}

// CancelledMsg is sent when the user declines or aborts.
type CancelledMsg struct{}

// Model asks the user to confirm deleting the mailbox.
type Model struct {
	form      *huh.Form
	confirmed *bool
	width     int
	height    int
}

// New creates an idle confirmation dialog.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// Start builds a fresh form for address and returns its init command.
func (m *Model) Start(address string) tea.Cmd {
	m.confirmed = new(bool)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete mailbox %s?", address)).
				Description(
					"The account and all of its messages are removed " +
						"from the provider. This cannot be undone.",
				).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(m.confirmed),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)

	return m.form.Init()
}

// Update forwards messages to the form and reports the outcome.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		accepted := m.confirmed != nil && *m.confirmed
		m.form = nil
		if accepted {
			return m, func() tea.Msg { return ConfirmedMsg{} }
		}
		return m, func() tea.Msg { return CancelledMsg{} }

	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(m.form.View())
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w > 70 {
		w = 70
	}
	if w < 30 {
		w = 30
	}
	return w
}
