// Package generation defines the text-generation interface the answer path
// uses. Concrete providers live in subpackages; all hosted providers speak
// the OpenAI chat wire format, differing only in base URL and model names.
package generation

import (
	"context"
	"errors"
)

var (
	// ErrNoMessages indicates a request without any messages.
	ErrNoMessages = errors.New("no messages in request")

	// ErrEmptyCompletion indicates the provider returned no choices.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Role labels a chat message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a chat completion request. System is carried separately so
// providers that want the system prompt first can place it themselves.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Generator produces assistant text from a chat transcript.
type Generator interface {
	// Generate returns the complete assistant reply.
	Generate(ctx context.Context, req Request) (string, error)

	// Stream emits the reply incrementally through emit. Returning an error
	// from emit aborts the stream.
	Stream(ctx context.Context, req Request, emit func(delta string) error) error

	// Close releases held connections.
	Close() error
}
