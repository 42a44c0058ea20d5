package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tempmail/internal/keys"
	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/internal/render"
	"github.com/nhle/tempmail/internal/theme"
	"github.com/nhle/tempmail/internal/ui"
)

// BackMsg signals the parent to close the message.
type BackMsg struct{}

// Mode selects what the view is showing.
type Mode int

const (
	ModeMessage Mode = iota
	ModeSource
)

// Model is the message view: rendered message or raw source in a
// scrollable viewport.
type Model struct {
	message  *model.MessageDetail
	source   *model.MessageSource
	mode     Mode
	rawHTML  bool
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new message view. rawHTML shows sanitized markup instead
// of converting HTML bodies to text.
func New(keys *keys.KeyMap, width, height int, rawHTML bool) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		rawHTML:  rawHTML,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the message view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the message view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Dismiss) {
		return m, func() tea.Msg {
			return BackMsg{}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the message view.
func (m Model) View() string {
	if m.current() == "" {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No message selected")
	}

	return m.viewport.View()
}

// current returns the id of what is on screen.
func (m Model) current() string {
	switch {
	case m.mode == ModeSource && m.source != nil:
		return m.source.ID
	case m.mode == ModeMessage && m.message != nil:
		return m.message.ID
	}
	return ""
}

// ShowMessage displays a fetched message.
func (m *Model) ShowMessage(d *model.MessageDetail) {
	m.message = d
	m.mode = ModeMessage
	m.viewport.SetContent(m.renderMessage())
	m.viewport.GotoTop()
}

// ShowSource displays the raw source of a message.
func (m *Model) ShowSource(src *model.MessageSource) {
	m.source = src
	m.mode = ModeSource
	m.viewport.SetContent(m.renderSource())
	m.viewport.GotoTop()
}

// Mode returns what the view is showing.
func (m Model) Mode() Mode {
	return m.mode
}

// MessageID returns the id of the shown message or source.
func (m Model) MessageID() string {
	return m.current()
}

// Clear drops whatever is shown.
func (m *Model) Clear() {
	m.message = nil
	m.source = nil
	m.mode = ModeMessage
	m.viewport.SetContent("")
}

func (m Model) renderMessage() string {
	if m.message == nil {
		return ""
	}
	d := m.message

	var sections []string

	subject := render.CleanLine(d.Subject)
	if subject == "" {
		subject = "(no subject)"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(subject), "")

	sections = append(sections, field("From:", d.From.String()))
	if len(d.To) > 0 {
		sections = append(sections, field("To:", joinAddresses(d.To)))
	}
	if len(d.Cc) > 0 {
		sections = append(sections, field("Cc:", joinAddresses(d.Cc)))
	}
	if !d.CreatedAt.IsZero() {
		sections = append(sections, field("Date:", d.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	if len(d.Attachments) > 0 {
		names := make([]string, 0, len(d.Attachments))
		for _, a := range d.Attachments {
			names = append(names, fmt.Sprintf("%s (%s)", render.CleanLine(a.Filename), ui.HumanSize(a.Size)))
		}
		sections = append(sections, field("Files:", strings.Join(names, ", ")))
	}

	sections = append(sections, "", m.separator(), "")

	body := render.Body(*d, m.rawHTML)
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("(empty message)")
	}
	sections = append(sections, lipgloss.NewStyle().Width(m.width-2).Render(body))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSource() string {
	if m.source == nil {
		return ""
	}
	src := m.source

	var sections []string
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render("Message source"), "")

	for _, h := range src.Headers {
		sections = append(sections, field(h.Key+":", h.Value))
	}
	if len(src.Attachments) > 0 {
		sections = append(sections, field("Attachments:", strings.Join(src.Attachments, ", ")))
	}

	sections = append(sections, "", m.separator(), "")
	sections = append(sections, lipgloss.NewStyle().Width(m.width-2).Render(src.TextBody))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) separator() string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(0, min(m.width-4, 80))))
}

// SetSize updates the view dimensions and re-renders.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2

	switch m.mode {
	case ModeSource:
		m.viewport.SetContent(m.renderSource())
	default:
		m.viewport.SetContent(m.renderMessage())
	}
}

// field renders a header line. Values come from the provider and are
// cleaned here.
func field(label, value string) string {
	return fmt.Sprintf("%s %s",
		theme.LabelStyle.Render(fmt.Sprintf("%-6s", label)),
		render.CleanLine(value),
	)
}

func joinAddresses(addrs []model.Address) string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return strings.Join(out, ", ")
}
