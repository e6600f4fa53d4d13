// Package api serves the HTTP surface: chat, conversations, content
// management, and the MCP endpoint.
package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/ingest"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/rag"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/retrieval"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
)

// Config carries server settings. An empty Token disables authentication,
// which is only sensible in local development.
type Config struct {
	ListenAddr string
	Token      string
}

// Answerer is the slice of the RAG service the chat handlers need.
type Answerer interface {
	Answer(ctx context.Context, q rag.Query) (rag.Result, error)
	AnswerStream(ctx context.Context, q rag.Query, emit func(delta string) error) (rag.Result, error)
	Health(ctx context.Context) error
	CollectionStats(ctx context.Context) (vector.Stats, error)
}

// Searcher runs raw retrieval for the content search endpoint.
type Searcher interface {
	Retrieve(ctx context.Context, query string, topK int) ([]retrieval.RetrievedDocument, error)
}

// Ingester rebuilds the index for the reindex endpoint.
type Ingester interface {
	Reindex(ctx context.Context) (ingest.Report, error)
}

// Deps bundles everything the handlers call. Conversations may be nil when
// no database is configured; the conversation routes then return 503.
type Deps struct {
	RAG           Answerer
	Search        Searcher
	Ingest        Ingester
	Conversations convo.Store
	Logger        *slog.Logger
}

// API is the HTTP server.
type API struct {
	app  *fiber.App
	cfg  Config
	deps Deps
	log  *slog.Logger
}

// New builds the fiber app and registers all routes.
func New(cfg Config, deps Deps) *API {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "ragbot",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			log.Error("request failed", "path", c.Path(), "status", code, "error", err)
			return c.Status(code).JSON(fiber.Map{"detail": err.Error()})
		},
	})

	a := &API{app: app, cfg: cfg, deps: deps, log: log}

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(a.authenticate)

	a.registerRoutes()

	return a
}

// authenticate enforces the x-api-token header on everything except the
// health probes.
func (a *API) authenticate(c *fiber.Ctx) error {
	if a.cfg.Token == "" {
		return c.Next()
	}

	path := c.Path()
	if path == "/api/v1/health" || path == "/api/v1/chat/chat/health" {
		return c.Next()
	}

	if c.Get("x-api-token") != a.cfg.Token {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or missing API token")
	}
	return c.Next()
}

func (a *API) registerRoutes() {
	v1 := a.app.Group("/api/v1")

	v1.Get("/health", a.handleHealth)

	chat := v1.Group("/chat")
	chat.Post("/chat", a.handleChat)
	chat.Post("/chat/stream", a.handleChatStream)
	chat.Get("/chat/health", a.handleChatHealth)
	chat.Post("/conversation/start", a.handleStartConversation)
	chat.Get("/conversation/:id/history", a.handleConversationHistory)
	chat.Delete("/conversation/:id", a.handleDeleteConversation)
	chat.Get("/conversations", a.handleListConversations)

	content := v1.Group("/content")
	content.Post("/search", a.handleSearch)
	content.Post("/reindex", a.handleReindex)
	content.Get("/stats", a.handleStats)
}

// Mount attaches an extra handler under a path prefix, used for the MCP
// endpoint.
func (a *API) Mount(prefix string, handler fiber.Handler) {
	a.app.All(prefix, handler)
	a.app.All(prefix+"/*", handler)
}

// Listen blocks serving HTTP until Shutdown is called.
func (a *API) Listen() error {
	a.log.Info("api listening", "addr", a.cfg.ListenAddr)
	return a.app.Listen(a.cfg.ListenAddr)
}

// Shutdown drains in-flight requests and stops the server.
func (a *API) Shutdown(ctx context.Context) error {
	return a.app.ShutdownWithContext(ctx)
}

// App exposes the underlying fiber app for tests.
func (a *API) App() *fiber.App {
	return a.app
}
