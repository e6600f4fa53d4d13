// Package inmemory implements the convo.Store interface in process memory,
// for tests and for running the server without a database.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo"
)

type conversation struct {
	meta     convo.Conversation
	messages []convo.Message
}

// InMemory stores conversations in a map guarded by a mutex.
type InMemory struct {
	mu            sync.RWMutex
	conversations map[string]*conversation

	// now is swapped in tests to control timestamps.
	now func() time.Time
}

// New creates an empty store.
func New() *InMemory {
	return &InMemory{
		conversations: make(map[string]*conversation),
		now:           time.Now,
	}
}

func (s *InMemory) Create(_ context.Context, id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; ok {
		return fmt.Errorf("%w: %s", convo.ErrDuplicate, id)
	}

	now := s.now()
	s.conversations[id] = &conversation{
		meta: convo.Conversation{ID: id, Title: title, CreatedAt: now, UpdatedAt: now},
	}
	return nil
}

func (s *InMemory) Append(_ context.Context, id, role, content, translation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return fmt.Errorf("%w: %s", convo.ErrNotFound, id)
	}

	now := s.now()
	c.messages = append(c.messages, convo.Message{
		Role:        role,
		Content:     content,
		Translation: translation,
		Timestamp:   now,
	})
	c.meta.UpdatedAt = now
	return nil
}

func (s *InMemory) History(_ context.Context, id string) ([]convo.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", convo.ErrNotFound, id)
	}

	out := make([]convo.Message, len(c.messages))
	copy(out, c.messages)
	return out, nil
}

func (s *InMemory) ListAll(context.Context) ([]convo.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]convo.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, c.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return fmt.Errorf("%w: %s", convo.ErrNotFound, id)
	}
	delete(s.conversations, id)
	return nil
}

func (s *InMemory) Close() error {
	return nil
}
