package messaging

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for messaging behaviors
var (
	ErrMissingParties = errors.New("messaging: sender and recipient are required")
	ErrSelfMessage    = errors.New("messaging: cannot message yourself")
	ErrEmptyMessage   = errors.New("messaging: message must contain either body or attachment")
)

// Message is an immutable entry in a two-party conversation. The store owns
// the authoritative copy; the realtime layer only observes and forwards it.
type Message struct {
	ID            string    `db:"id"`
	SenderID      string    `db:"sender_id"`
	RecipientID   string    `db:"recipient_id"`
	Body          *string   `db:"body"`
	AttachmentURL *string   `db:"attachment_url"`
	CreatedAt     time.Time `db:"created_at"`
}

// NewMessage validates and normalizes a candidate message.
func NewMessage(m Message) (*Message, error) {
	if m.SenderID == "" || m.RecipientID == "" {
		return nil, ErrMissingParties
	}
	if m.SenderID == m.RecipientID {
		return nil, ErrSelfMessage
	}

	if m.Body != nil {
		trimmed := strings.TrimSpace(*m.Body)
		if trimmed == "" {
			m.Body = nil
		} else {
			m.Body = &trimmed
		}
	}

	if m.Body == nil && m.AttachmentURL == nil {
		return nil, ErrEmptyMessage
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return &m, nil
}
