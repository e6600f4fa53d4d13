// Package eventstream publishes pipeline events for downstream consumers
// (analytics, translation workers). Publishing is fire-and-forget from the
// answer path's perspective; a failed publish never fails the request.
package eventstream

import (
	"context"
	"time"
)

// TurnCompletedEvent is emitted after an answer is produced.
type TurnCompletedEvent struct {
	ConversationID string    `json:"conversation_id,omitempty"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	SourceCount    int       `json:"source_count"`
	SelectedText   bool      `json:"selected_text"`
	Insufficient   bool      `json:"insufficient"`
	Streaming      bool      `json:"streaming"`
	DurationMS     int64     `json:"duration_ms"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Publisher emits events.
type Publisher interface {
	// PublishTurnCompleted emits one turn-completed event.
	PublishTurnCompleted(ctx context.Context, event TurnCompletedEvent) error

	// Close flushes and releases the underlying transport.
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishTurnCompleted(context.Context, TurnCompletedEvent) error { return nil }

func (Nop) Close() error { return nil }
