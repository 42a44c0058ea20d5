package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/tempmail/internal/keys"
	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/internal/render"
	"github.com/nhle/tempmail/internal/session"
	"github.com/nhle/tempmail/internal/store"
	appsync "github.com/nhle/tempmail/internal/sync"
	"github.com/nhle/tempmail/internal/theme"
	"github.com/nhle/tempmail/internal/ui"
	"github.com/nhle/tempmail/internal/ui/command"
	"github.com/nhle/tempmail/internal/ui/confirm"
	"github.com/nhle/tempmail/internal/ui/detail"
	helpview "github.com/nhle/tempmail/internal/ui/help"
	"github.com/nhle/tempmail/internal/ui/inbox"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewInbox ViewState = iota
	ViewMessage
	ViewHelp
	ViewCommand
	ViewConfirm
)

// Model is the root Bubble Tea model. It routes input to the active view
// and turns key presses into session controller operations.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	session *session.Controller
	poller  *appsync.Poller
	store   store.Store
	log     *zap.Logger
	keys    *keys.KeyMap

	inbox       inbox.Model
	message     detail.Model
	helpView    helpview.Model
	commandView command.Model
	confirm     confirm.Model
	spinner     spinner.Model

	// state is the last session snapshot.
	state       session.State
	read        map[string]bool
	unreadCount int
	flash       string
	ready       bool
}

// New creates the root model.
func New(
	ctrl *session.Controller,
	p *appsync.Poller,
	s store.Store,
	display model.DisplayConfig,
	log *zap.Logger,
) Model {
	if log == nil {
		log = zap.NewNop()
	}

	k := keys.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		currentView: ViewInbox,
		session:     ctrl,
		poller:      p,
		store:       s,
		log:         log,
		keys:        k,
		inbox:       inbox.New(k, 80, 24),
		message:     detail.New(k, 80, 24, display.RawHTML),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.NewModel(80, 24),
		confirm:     confirm.New(80, 24),
		spinner:     sp,
		read:        make(map[string]bool),
	}
}

// Init provisions the mailbox once and starts the poller.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.ensureMailbox(),
		m.poller.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.Width, m.layout.ContentHeight()
		m.inbox.SetSize(w, h)
		m.message.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.confirm.SetSize(w, h)
		// Forward to active view so the huh form can calculate its layout.
		return m.updateActiveView(msg)

	case spinner.TickMsg:
		// Pick up in-flight changes from commands still running.
		s := m.session.Snapshot()
		m.state.Loading = s.Loading
		m.state.InFlight = s.InFlight

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case mailboxReadyMsg:
		cmd := m.refresh()
		if msg.err == nil {
			m.unreadCount = msg.observed.Unread
		}
		return m, tea.Batch(cmd, m.fetchReadSet())

	case appsync.ResultMsg:
		cmds := []tea.Cmd{m.refresh(), m.poller.WaitForNextResult()}
		if msg.Error == nil {
			m.unreadCount = msg.Unread
			if n := msg.NewCount(); n > 0 {
				m.flash = fmt.Sprintf("%d new message(s)", n)
			}
		}
		return m, tea.Batch(cmds...)

	case sessionDoneMsg:
		cmd := m.refresh()
		return m, cmd

	case messageViewedMsg:
		cmd := m.refresh()
		if msg.err != nil {
			return m, cmd
		}
		if m.state.Viewed != nil && m.state.Viewed.ID == msg.id {
			m.message.ShowMessage(m.state.Viewed)
			m.currentView = ViewMessage
		}
		return m, tea.Batch(cmd, m.fetchReadSet(), m.fetchUnreadCount())

	case messageDeletedMsg:
		cmd := m.refresh()
		if msg.err != nil {
			return m, cmd
		}
		if m.message.MessageID() == msg.id {
			m.message.Clear()
			m.currentView = ViewInbox
		}
		m.flash = "Message deleted"
		return m, tea.Batch(cmd, m.fetchUnreadCount())

	case mailboxDeletedMsg:
		cmd := m.refresh()
		if msg.err != nil {
			return m, cmd
		}
		m.message.Clear()
		m.currentView = ViewInbox
		m.unreadCount = 0
		m.read = make(map[string]bool)
		m.flash = "Mailbox deleted. Press n for a new one."
		return m, cmd

	case sourceLoadedMsg:
		cmd := m.refresh()
		if msg.err == nil && msg.src != nil {
			m.message.ShowSource(msg.src)
			m.currentView = ViewMessage
		}
		return m, cmd

	case copiedMsg:
		if msg.err == nil && msg.address != "" {
			m.flash = "Copied " + msg.address
		}
		return m, nil

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case readSetMsg:
		m.read = msg.read
		cmd := m.inbox.SetMessages(m.state.Messages, m.read)
		return m, cmd

	case inbox.SelectedMessageMsg:
		m.flash = ""
		return m, m.viewMessage(msg.ID)

	case inbox.DeleteMessageMsg:
		m.flash = ""
		return m, m.deleteMessage(msg.ID)

	case inbox.SourceMsg:
		m.flash = ""
		return m, m.loadSource(msg.ID)

	case detail.BackMsg:
		m.session.DismissMessage()
		m.message.Clear()
		m.currentView = ViewInbox
		cmd := m.refresh()
		return m, cmd

	case confirm.ConfirmedMsg:
		m.currentView = m.previousView
		return m, m.deleteMailbox()

	case confirm.CancelledMsg:
		m.currentView = m.previousView
		return m, nil

	case helpview.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}

		// Overlays own the keyboard while open.
		if m.currentView == ViewHelp || m.currentView == ViewCommand || m.currentView == ViewConfirm {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.currentView == ViewInbox {
				return m, m.quit()
			}

		case key.Matches(msg, m.keys.Help):
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			m.previousView = m.currentView
			m.currentView = ViewCommand
			cmd := m.commandView.Focus()
			return m, cmd

		case key.Matches(msg, m.keys.Refresh):
			m.flash = ""
			return m, m.poller.Refresh()

		case key.Matches(msg, m.keys.Copy):
			return m, m.copyAddress()

		case key.Matches(msg, m.keys.NewMailbox):
			cmd := m.newMailbox()
			return m, cmd

		case key.Matches(msg, m.keys.DeleteMailbox):
			cmd := m.startDeleteMailbox()
			return m, cmd

		case key.Matches(msg, m.keys.DeleteMessage):
			if m.currentView == ViewMessage {
				if id := m.message.MessageID(); id != "" {
					return m, m.deleteMessage(id)
				}
				return m, nil
			}

		case key.Matches(msg, m.keys.Source):
			if m.currentView == ViewMessage {
				if id := m.message.MessageID(); id != "" && m.message.Mode() == detail.ModeMessage {
					return m, m.loadSource(id)
				}
				return m, nil
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewInbox:
		m.inbox, cmd = m.inbox.Update(msg)
	case ViewMessage:
		m.message, cmd = m.message.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	}

	return m, cmd
}

// refresh takes a new session snapshot and pushes the list to the inbox.
func (m *Model) refresh() tea.Cmd {
	m.state = m.session.Snapshot()
	return m.inbox.SetMessages(m.state.Messages, m.read)
}

func (m *Model) newMailbox() tea.Cmd {
	if m.state.Active() {
		m.flash = "A mailbox is already active. Delete it first (D)."
		return nil
	}
	m.flash = ""
	return m.ensureMailbox()
}

func (m *Model) startDeleteMailbox() tea.Cmd {
	if !m.state.Active() {
		return nil
	}
	m.flash = ""
	m.previousView = m.currentView
	m.currentView = ViewConfirm
	return m.confirm.Start(m.state.Mailbox.Address)
}

func (m *Model) quit() tea.Cmd {
	m.poller.Stop()
	return tea.Quit
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case command.Refresh:
		return m.poller.Refresh()
	case command.New:
		return m.newMailbox()
	case command.Delete:
		return m.startDeleteMailbox()
	case command.Copy:
		return m.copyAddress()
	case command.Account:
		return m.loadAccount()
	case command.Quit:
		return m.quit()
	default:
		return nil
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.headerRight())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusText(), m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewInbox:
		return m.inbox.View()
	case ViewMessage:
		return m.message.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewConfirm:
		return m.confirm.View()
	default:
		return ""
	}
}

func (m Model) headerTitle() string {
	switch {
	case m.state.Mailbox.Address != "":
		return render.CleanLine(m.state.Mailbox.Address)
	case m.state.Busy(session.OpProvision):
		return "creating mailbox..."
	default:
		return "no mailbox"
	}
}

// headerRight shows quota usage and the new-message badge.
func (m Model) headerRight() string {
	var parts []string

	if acc := m.state.Account; acc != nil && acc.Quota > 0 {
		usage := fmt.Sprintf("%s / %s", ui.HumanSize(acc.Used), ui.HumanSize(acc.Quota))
		parts = append(parts, theme.QuotaStyle(acc.Used, acc.Quota).Render(usage))
	}
	if m.unreadCount > 0 {
		parts = append(parts, theme.BadgeStyle.Render(fmt.Sprintf("[%d new]", m.unreadCount)))
	}

	return strings.Join(parts, " ")
}

// statusText is the left side of the status bar: spinner while loading,
// then the session error, then transient feedback.
func (m Model) statusText() string {
	if m.state.Loading {
		ops := make([]string, len(m.state.InFlight))
		for i, op := range m.state.InFlight {
			ops[i] = string(op)
		}
		return m.spinner.View() + " " + strings.Join(ops, ", ")
	}
	if m.state.Error != "" {
		return theme.ErrorStyle.Render(m.state.Error)
	}
	if m.flash != "" {
		return m.flash
	}
	if last := m.poller.Status().LastSync; !last.IsZero() {
		return "updated " + last.Format("15:04:05")
	}
	return ""
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "any key close"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewConfirm:
		return "←/→ choose | enter confirm | esc cancel"
	case ViewMessage:
		return "esc back | x delete | s source | j/k scroll"
	default:
		if !m.state.Active() {
			return "n new mailbox | ? help | q quit"
		}
		return "enter open | r refresh | y copy | D delete | ? help | q quit"
	}
}
