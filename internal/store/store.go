package store

import (
	"context"

	"github.com/nhle/tempmail/internal/model"
)

// Store defines the session ledger: which messages have been observed
// during this run, which were opened, and the notifications raised for
// new arrivals.
type Store interface {
	// ObserveMessages records the given messages and returns the ones not
	// seen before, in input order. A notification is created for each.
	ObserveMessages(ctx context.Context, msgs []model.MessageSummary) ([]model.MessageSummary, error)

	// MarkRead flags a message (and its notification) as read.
	MarkRead(ctx context.Context, messageID string) error

	// ReadSet returns the ids of messages opened this session.
	ReadSet(ctx context.Context) (map[string]bool, error)

	// Forget drops a message from the ledger after it was deleted.
	Forget(ctx context.Context, messageID string) error

	// Reset clears the ledger when the mailbox goes away.
	Reset(ctx context.Context) error

	// GetUnreadNotifications returns unread notifications, newest first.
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
}
