// Package rag orchestrates the online pipeline: retrieve, assemble, generate,
// persist, publish. One Service instance serves all requests.
package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/eventstream"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/prompt"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/retrieval"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
)

// ErrEmptyQuery indicates a blank question.
var ErrEmptyQuery = errors.New("empty query")

// Query is one incoming question.
type Query struct {
	// Text is the question. Required.
	Text string

	// SelectedText, when non-empty, overrides retrieval: the answer comes
	// only from this passage.
	SelectedText string

	// History is the prior transcript, oldest first.
	History []generation.Message

	// ConversationID, when set, persists the user and assistant turns.
	ConversationID string
}

// Result is a completed answer.
type Result struct {
	Response string          `json:"response"`
	Sources  []prompt.Source `json:"sources"`
	Context  string          `json:"context"`

	// Insufficient marks the deterministic no-context branch; the response
	// is the canned insufficient-information answer and no generation call
	// was made.
	Insufficient bool `json:"insufficient,omitempty"`
}

// Service wires the pipeline stages together.
type Service struct {
	retriever *retrieval.Retriever
	assembler *prompt.Assembler
	generator generation.Generator
	store     convo.Store
	events    eventstream.Publisher
	vectors   vector.Driver
	topK      int
	log       *slog.Logger
}

// Config wires a Service. Store may be nil when no database is configured;
// Events may be nil when no broker is configured.
type Config struct {
	Retriever *retrieval.Retriever
	Assembler *prompt.Assembler
	Generator generation.Generator
	Store     convo.Store
	Events    eventstream.Publisher
	Vectors   vector.Driver
	TopK      int
	Logger    *slog.Logger
}

// New creates a Service.
func New(cfg Config) *Service {
	events := cfg.Events
	if events == nil {
		events = eventstream.Nop{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}

	return &Service{
		retriever: cfg.Retriever,
		assembler: cfg.Assembler,
		generator: cfg.Generator,
		store:     cfg.Store,
		events:    events,
		vectors:   cfg.Vectors,
		topK:      topK,
		log:       log,
	}
}

// Answer runs the full pipeline and returns the complete response.
func (s *Service) Answer(ctx context.Context, q Query) (Result, error) {
	started := time.Now()

	assembled, err := s.prepare(ctx, q)
	if err != nil {
		return Result{}, err
	}

	if assembled.Empty {
		return s.finishInsufficient(ctx, q, assembled, false, started)
	}

	system, messages := prompt.BuildMessages(assembled, q.History, q.Text)
	response, err := s.generator.Generate(ctx, generation.Request{
		System:   system,
		Messages: messages,
	})
	if err != nil {
		return Result{}, fmt.Errorf("generating answer: %w", err)
	}

	return s.finish(ctx, q, assembled, response, false, started)
}

// AnswerStream runs the pipeline and emits the response incrementally. The
// returned Result carries the fully accumulated response. The deterministic
// insufficient-information branch is emitted as a single fragment.
func (s *Service) AnswerStream(ctx context.Context, q Query, emit func(delta string) error) (Result, error) {
	started := time.Now()

	assembled, err := s.prepare(ctx, q)
	if err != nil {
		return Result{}, err
	}

	if assembled.Empty {
		if err := emit(prompt.InsufficientInformationAnswer); err != nil {
			return Result{}, err
		}
		return s.finishInsufficient(ctx, q, assembled, true, started)
	}

	system, messages := prompt.BuildMessages(assembled, q.History, q.Text)

	var full strings.Builder
	err = s.generator.Stream(ctx, generation.Request{
		System:   system,
		Messages: messages,
	}, func(delta string) error {
		full.WriteString(delta)
		return emit(delta)
	})
	if err != nil {
		return Result{}, fmt.Errorf("streaming answer: %w", err)
	}

	return s.finish(ctx, q, assembled, full.String(), true, started)
}

// prepare validates the query and assembles the context, retrieving only when
// no selected text overrides it.
func (s *Service) prepare(ctx context.Context, q Query) (prompt.Assembled, error) {
	if strings.TrimSpace(q.Text) == "" {
		return prompt.Assembled{}, ErrEmptyQuery
	}

	if strings.TrimSpace(q.SelectedText) != "" {
		return s.assembler.Assemble(nil, q.SelectedText), nil
	}

	docs, err := s.retriever.Retrieve(ctx, q.Text, s.topK)
	if err != nil {
		return prompt.Assembled{}, fmt.Errorf("retrieving context: %w", err)
	}

	return s.assembler.Assemble(docs, ""), nil
}

func (s *Service) finish(ctx context.Context, q Query, assembled prompt.Assembled, response string, streaming bool, started time.Time) (Result, error) {
	result := Result{
		Response: response,
		Sources:  assembled.Sources,
		Context:  assembled.Context,
	}

	s.persist(ctx, q, response)
	s.publish(ctx, q, result, assembled.SelectedOnly, streaming, started)

	return result, nil
}

func (s *Service) finishInsufficient(ctx context.Context, q Query, assembled prompt.Assembled, streaming bool, started time.Time) (Result, error) {
	result := Result{
		Response:     prompt.InsufficientInformationAnswer,
		Insufficient: true,
	}

	s.persist(ctx, q, result.Response)
	s.publish(ctx, q, result, assembled.SelectedOnly, streaming, started)

	return result, nil
}

// persist writes the user and assistant turns when a conversation is
// attached. Storage failures are logged, not returned; the student already
// has their answer.
func (s *Service) persist(ctx context.Context, q Query, response string) {
	if s.store == nil || q.ConversationID == "" {
		return
	}

	if err := s.store.Append(ctx, q.ConversationID, "user", q.Text, ""); err != nil {
		s.log.Error("persisting user turn", "conversation", q.ConversationID, "error", err)
		return
	}
	if err := s.store.Append(ctx, q.ConversationID, "assistant", response, ""); err != nil {
		s.log.Error("persisting assistant turn", "conversation", q.ConversationID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, q Query, result Result, selected, streaming bool, started time.Time) {
	event := eventstream.TurnCompletedEvent{
		ConversationID: q.ConversationID,
		Question:       q.Text,
		Answer:         result.Response,
		SourceCount:    len(result.Sources),
		SelectedText:   selected,
		Insufficient:   result.Insufficient,
		Streaming:      streaming,
		DurationMS:     time.Since(started).Milliseconds(),
		CompletedAt:    time.Now().UTC(),
	}
	if err := s.events.PublishTurnCompleted(ctx, event); err != nil {
		s.log.Warn("publishing turn event", "error", err)
	}
}

// Health reports whether the vector store is reachable and the indexed
// collection exists.
func (s *Service) Health(ctx context.Context) error {
	return s.vectors.Healthy(ctx)
}

// CollectionStats reports the indexed collection's point count and status.
func (s *Service) CollectionStats(ctx context.Context) (vector.Stats, error) {
	return s.vectors.Stats(ctx)
}
