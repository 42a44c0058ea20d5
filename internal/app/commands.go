package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/internal/session"
	appsync "github.com/nhle/tempmail/internal/sync"
)

// sessionDoneMsg is sent after a controller operation finishes. The
// session status already carries any user-facing error.
type sessionDoneMsg struct {
	op  session.Op
	err error
}

// mailboxReadyMsg is sent after startup or re-provisioning completes.
type mailboxReadyMsg struct {
	err      error
	observed appsync.ResultMsg
}

// messageViewedMsg is sent after a message was fetched for viewing.
type messageViewedMsg struct {
	id  string
	err error
}

// mailboxDeletedMsg is sent after a delete-mailbox attempt.
type mailboxDeletedMsg struct {
	err error
}

// messageDeletedMsg is sent after a delete-message attempt.
type messageDeletedMsg struct {
	id  string
	err error
}

// sourceLoadedMsg carries a parsed message source.
type sourceLoadedMsg struct {
	src *model.MessageSource
	err error
}

// copiedMsg is sent after copying the address.
type copiedMsg struct {
	address string
	err     error
}

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// readSetMsg carries the ids opened this session.
type readSetMsg struct {
	read map[string]bool
}

// ensureMailbox provisions when needed, fetches, and records the initial
// list in the ledger.
func (m Model) ensureMailbox() tea.Cmd {
	ctrl, poller := m.session, m.poller
	return func() tea.Msg {
		ctx := context.Background()
		if err := ctrl.EnsureMailbox(ctx); err != nil {
			return mailboxReadyMsg{err: err}
		}
		return mailboxReadyMsg{observed: poller.Observe(ctx)}
	}
}

func (m Model) viewMessage(id string) tea.Cmd {
	ctrl, s, log := m.session, m.store, m.log
	return func() tea.Msg {
		ctx := context.Background()
		if err := ctrl.ViewMessage(ctx, id); err != nil {
			return messageViewedMsg{id: id, err: err}
		}
		if err := s.MarkRead(ctx, id); err != nil {
			log.Warn("marking message read", zap.String("message_id", id), zap.Error(err))
		}
		return messageViewedMsg{id: id}
	}
}

func (m Model) deleteMessage(id string) tea.Cmd {
	ctrl, s, log := m.session, m.store, m.log
	return func() tea.Msg {
		ctx := context.Background()
		if err := ctrl.DeleteMessage(ctx, id); err != nil {
			return messageDeletedMsg{id: id, err: err}
		}
		if err := s.Forget(ctx, id); err != nil {
			log.Warn("forgetting message", zap.String("message_id", id), zap.Error(err))
		}
		return messageDeletedMsg{id: id}
	}
}

func (m Model) deleteMailbox() tea.Cmd {
	ctrl, s, log := m.session, m.store, m.log
	return func() tea.Msg {
		ctx := context.Background()
		if err := ctrl.DeleteMailbox(ctx); err != nil {
			return mailboxDeletedMsg{err: err}
		}
		if err := s.Reset(ctx); err != nil {
			log.Warn("resetting ledger", zap.Error(err))
		}
		return mailboxDeletedMsg{}
	}
}

func (m Model) loadSource(id string) tea.Cmd {
	ctrl := m.session
	return func() tea.Msg {
		src, err := ctrl.MessageSource(context.Background(), id)
		return sourceLoadedMsg{src: src, err: err}
	}
}

func (m Model) loadAccount() tea.Cmd {
	ctrl := m.session
	return func() tea.Msg {
		err := ctrl.AccountInfo(context.Background())
		return sessionDoneMsg{op: session.OpAccount, err: err}
	}
}

func (m Model) copyAddress() tea.Cmd {
	ctrl := m.session
	address := m.state.Mailbox.Address
	return func() tea.Msg {
		return copiedMsg{address: address, err: ctrl.CopyAddress()}
	}
}

// fetchUnreadCount returns a tea.Cmd that queries the ledger for the
// number of unread notifications.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		notifications, err := s.GetUnreadNotifications(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: len(notifications)}
	}
}

func (m Model) fetchReadSet() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		read, err := s.ReadSet(context.Background())
		if err != nil {
			return readSetMsg{read: map[string]bool{}}
		}
		return readSetMsg{read: read}
	}
}
