package inbox

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tempmail/internal/keys"
	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/internal/theme"
)

// EmptyText is shown while the mailbox has no messages.
const EmptyText = "Your inbox is empty. Waiting for incoming emails."

// SelectedMessageMsg is sent when the user opens a message.
type SelectedMessageMsg struct {
	ID string
}

// DeleteMessageMsg is sent when the user deletes the highlighted message.
type DeleteMessageMsg struct {
	ID string
}

// SourceMsg is sent when the user asks for the raw source of a message.
type SourceMsg struct {
	ID string
}

// Model is the message list view.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates an empty inbox view.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	// The root model owns quitting; esc must not end the program.
	l.KeyMap.Quit.SetEnabled(false)

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetMessages replaces the listed messages, keeping provider order. read
// holds the ids opened this session.
func (m *Model) SetMessages(msgs []model.MessageSummary, read map[string]bool) tea.Cmd {
	items := make([]list.Item, len(msgs))
	for i, s := range msgs {
		items[i] = MessageItem{Summary: s, Read: read[s.ID]}
	}
	return m.list.SetItems(items)
}

// Selected returns the highlighted message, if any.
func (m Model) Selected() (model.MessageSummary, bool) {
	item, ok := m.list.SelectedItem().(MessageItem)
	if !ok {
		return model.MessageSummary{}, false
	}
	return item.Summary, true
}

// Len returns the number of listed messages.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.View):
			return m, m.emit(func(id string) tea.Msg { return SelectedMessageMsg{ID: id} })

		case key.Matches(msg, m.keys.DeleteMessage):
			return m, m.emit(func(id string) tea.Msg { return DeleteMessageMsg{ID: id} })

		case key.Matches(msg, m.keys.Source):
			return m, m.emit(func(id string) tea.Msg { return SourceMsg{ID: id} })
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) emit(build func(id string) tea.Msg) tea.Cmd {
	selected, ok := m.Selected()
	if !ok {
		return nil
	}
	id := selected.ID
	return func() tea.Msg {
		return build(id)
	}
}

// View renders the inbox.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(EmptyText)
	}

	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
