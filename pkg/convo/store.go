// Package convo persists conversations and their messages. Concrete drivers
// live in subpackages.
package convo

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the conversation does not exist.
	ErrNotFound = errors.New("conversation not found")

	// ErrDuplicate indicates a conversation with that id already exists.
	ErrDuplicate = errors.New("conversation already exists")
)

// Conversation is a stored chat session.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one stored turn. Translation is optional and empty unless a
// translation pass has run.
type Message struct {
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Translation string    `json:"urdu_translation,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Store persists conversations. Appending bumps the conversation's
// updated_at so listing orders by recent activity.
type Store interface {
	// Create starts a conversation with the given id and title.
	Create(ctx context.Context, id, title string) error

	// Append adds a turn to an existing conversation.
	Append(ctx context.Context, id, role, content, translation string) error

	// History returns the conversation's turns, oldest first.
	History(ctx context.Context, id string) ([]Message, error)

	// ListAll returns every conversation, most recently updated first.
	ListAll(ctx context.Context) ([]Conversation, error)

	// Delete removes a conversation and its messages.
	Delete(ctx context.Context, id string) error

	// Close releases held connections.
	Close() error
}
