package model

import "time"

// Notification records the arrival of a message observed during this
// session.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// MessageID links this notification to the observed message.
	MessageID string `json:"message_id" db:"message_id"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Read indicates whether the user has opened the message.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when the message was first observed.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
