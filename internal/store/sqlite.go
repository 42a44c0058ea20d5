package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/tempmail/internal/model"
)

// SQLiteStore implements the Store interface using SQLite. The default
// DSN is ":memory:", so the ledger lives only as long as the process.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dsn and runs any
// pending schema migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Every new connection to ":memory:" is a fresh database, so the pool
	// must stay at one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ObserveMessages inserts messages not yet in the ledger and creates a
// notification for each of them.
func (s *SQLiteStore) ObserveMessages(
	ctx context.Context,
	msgs []model.MessageSummary,
) ([]model.MessageSummary, error) {
	if len(msgs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const insertObserved = `
		INSERT OR IGNORE INTO observed_messages (
			message_id, sender, subject, read, observed_at
		) VALUES (?, ?, ?, 0, ?)`

	const insertNotification = `
		INSERT INTO notifications (
			id, message_id, message, read, created_at
		) VALUES (?, ?, ?, 0, ?)`

	now := time.Now().UTC()
	var fresh []model.MessageSummary
	for _, m := range msgs {
		res, err := tx.ExecContext(ctx, insertObserved,
			m.ID, m.From.Address, m.Subject, now,
		)
		if err != nil {
			return nil, fmt.Errorf("observing message %s: %w", m.ID, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("observing message %s: %w", m.ID, err)
		}
		if n == 0 {
			continue
		}

		text := fmt.Sprintf("New message from %s: %s", m.From.Address, m.Subject)
		if _, err := tx.ExecContext(ctx, insertNotification,
			uuid.New().String(), m.ID, text, now,
		); err != nil {
			return nil, fmt.Errorf("creating notification for %s: %w", m.ID, err)
		}
		fresh = append(fresh, m)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing observed messages: %w", err)
	}

	return fresh, nil
}

// MarkRead flags a message and its notifications as read.
func (s *SQLiteStore) MarkRead(ctx context.Context, messageID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE observed_messages SET read = 1 WHERE message_id = ?", messageID,
	); err != nil {
		return fmt.Errorf("marking message %s read: %w", messageID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE message_id = ?", messageID,
	); err != nil {
		return fmt.Errorf("marking notifications for %s read: %w", messageID, err)
	}

	return tx.Commit()
}

// ReadSet returns the ids of messages marked read.
func (s *SQLiteStore) ReadSet(ctx context.Context) (map[string]bool, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids,
		"SELECT message_id FROM observed_messages WHERE read = 1",
	); err != nil {
		return nil, fmt.Errorf("querying read messages: %w", err)
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// Forget removes a message and its notifications from the ledger.
func (s *SQLiteStore) Forget(ctx context.Context, messageID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM observed_messages WHERE message_id = ?", messageID,
	); err != nil {
		return fmt.Errorf("forgetting message %s: %w", messageID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM notifications WHERE message_id = ?", messageID,
	); err != nil {
		return fmt.Errorf("forgetting notifications for %s: %w", messageID, err)
	}

	return tx.Commit()
}

// Reset empties the ledger.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM observed_messages; DELETE FROM notifications;",
	); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	return nil
}

// GetUnreadNotifications returns unread notifications, newest first.
func (s *SQLiteStore) GetUnreadNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	var out []model.Notification
	if err := s.db.SelectContext(ctx, &out, `
		SELECT id, message_id, message, read, created_at
		FROM notifications
		WHERE read = 0
		ORDER BY created_at DESC, rowid DESC`,
	); err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	return out, nil
}
