package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tempmail/internal/theme"
)

// Palette commands.
const (
	Refresh = "refresh"
	New     = "new"
	Delete  = "delete"
	Copy    = "copy"
	Account = "account"
	Quit    = "quit"
)

// Commands lists the commands the palette accepts.
var Commands = []string{Refresh, New, Delete, Copy, Account, Quit}

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// CancelMsg is emitted when the user closes the palette.
type CancelMsg struct{}

// Resolve maps user input to a command. A unique prefix is enough.
func Resolve(input string) (string, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", false
	}

	match := ""
	for _, c := range Commands {
		if c == input {
			return c, true
		}
		if strings.HasPrefix(c, input) {
			if match != "" {
				return "", false
			}
			match = c
		}
	}
	return match, match != ""
}

// Model is the command palette view.
type Model struct {
	input   textinput.Model
	unknown string
	width   int
	height  int
}

// NewModel creates a new command palette model.
func NewModel(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Commands)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			raw := m.input.Value()
			m.input.Reset()
			cmd, ok := Resolve(raw)
			if !ok {
				m.unknown = strings.TrimSpace(raw)
				return m, nil
			}
			m.unknown = ""
			return m, func() tea.Msg {
				return CommandMsg(cmd)
			}

		case "esc":
			m.input.Reset()
			m.unknown = ""
			return m, func() tea.Msg {
				return CancelMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()

	hint := theme.HelpStyle.Render(strings.Join(Commands, " · "))
	if m.unknown != "" {
		hint = theme.ErrorStyle.Render("unknown command: " + m.unknown)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, input, "", hint)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
