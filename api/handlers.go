package api

import (
	"bufio"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/prompt"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/rag"
)

// ChatMessage mirrors one transcript turn on the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat endpoint's body.
type ChatRequest struct {
	Message        string        `json:"message"`
	SelectedText   string        `json:"selected_text,omitempty"`
	History        []ChatMessage `json:"history,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
}

// ChatResponse is the chat endpoint's reply.
type ChatResponse struct {
	Response  string          `json:"response"`
	Sources   []prompt.Source `json:"sources"`
	Context   fiber.Map       `json:"context"`
	Timestamp time.Time       `json:"timestamp"`
}

func (a *API) buildQuery(req ChatRequest) rag.Query {
	history := make([]generation.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, generation.Message{
			Role:    generation.Role(m.Role),
			Content: m.Content,
		})
	}

	return rag.Query{
		Text:           req.Message,
		SelectedText:   req.SelectedText,
		History:        history,
		ConversationID: req.ConversationID,
	}
}

func chatResponse(result rag.Result) ChatResponse {
	sources := result.Sources
	if sources == nil {
		sources = []prompt.Source{}
	}

	return ChatResponse{
		Response: result.Response,
		Sources:  sources,
		Context: fiber.Map{
			"text":         result.Context,
			"insufficient": result.Insufficient,
		},
		Timestamp: time.Now().UTC(),
	}
}

func (a *API) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (a *API) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := a.deps.RAG.Answer(c.Context(), a.buildQuery(req))
	if err != nil {
		if errors.Is(err, rag.ErrEmptyQuery) {
			return fiber.NewError(fiber.StatusBadRequest, "message must not be empty")
		}
		return err
	}

	return c.JSON(chatResponse(result))
}

func (a *API) handleChatStream(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	query := a.buildQuery(req)
	ragSvc := a.deps.RAG
	log := a.log

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// The stream writer runs after this handler returns, so the request
	// context is gone by then. Stream against a fresh background context and
	// let the emit error surface when the client goes away.
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		_, err := ragSvc.AnswerStream(context.Background(), query, func(delta string) error {
			if _, werr := w.WriteString(delta); werr != nil {
				return werr
			}
			return w.Flush()
		})
		if err != nil {
			log.Error("chat stream failed", "error", err)
		}
	}))

	return nil
}

func (a *API) handleChatHealth(c *fiber.Ctx) error {
	if err := a.deps.RAG.Health(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":      "unhealthy",
			"rag_service": false,
		})
	}
	return c.JSON(fiber.Map{"status": "healthy", "rag_service": true})
}

func (a *API) conversations() (convo.Store, error) {
	if a.deps.Conversations == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "conversation store not configured")
	}
	return a.deps.Conversations, nil
}

func (a *API) handleStartConversation(c *fiber.Ctx) error {
	store, err := a.conversations()
	if err != nil {
		return err
	}

	id := uuid.NewString()
	if err := store.Create(c.Context(), id, "New Conversation"); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"conversation_id": id})
}

func (a *API) handleConversationHistory(c *fiber.Ctx) error {
	store, err := a.conversations()
	if err != nil {
		return err
	}

	id := c.Params("id")
	history, err := store.History(c.Context(), id)
	if err != nil {
		if errors.Is(err, convo.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "conversation not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"conversation_id": id, "history": history})
}

func (a *API) handleDeleteConversation(c *fiber.Ctx) error {
	store, err := a.conversations()
	if err != nil {
		return err
	}

	if err := store.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, convo.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "conversation not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"deleted": true})
}

func (a *API) handleListConversations(c *fiber.Ctx) error {
	store, err := a.conversations()
	if err != nil {
		return err
	}

	list, err := store.ListAll(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"conversations": list})
}

// SearchRequest is the content search endpoint's body.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (a *API) handleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	docs, err := a.deps.Search.Retrieve(c.Context(), req.Query, req.TopK)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"results": docs, "count": len(docs)})
}

func (a *API) handleReindex(c *fiber.Ctx) error {
	report, err := a.deps.Ingest.Reindex(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (a *API) handleStats(c *fiber.Ctx) error {
	stats, err := a.deps.RAG.CollectionStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"points_count": stats.Count, "status": stats.Status})
}
