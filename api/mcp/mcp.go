// Package mcp provides an MCP (Model Context Protocol) server exposing the
// textbook pipeline to agent clients.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/rag"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/retrieval"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/utils"
)

// Answerer is the slice of the RAG service the ask tool needs.
type Answerer interface {
	Answer(ctx context.Context, q rag.Query) (rag.Result, error)
}

type Config struct {
	// Retriever backs the search_textbook tool.
	Retriever *retrieval.Retriever

	// RAG backs the ask_textbook tool.
	RAG Answerer

	// Noop for an empty MCP server with no tools configured.
	Noop bool

	// Logger is the configured slog logger.
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates an MCP server with the textbook tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{config: c}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ragbot",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if c.RAG == nil {
		return nil, errors.New("rag service is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        askToolName,
		Description: askDescription,
	}, s.handleAsk)

	s.mcpServer = mcpServer

	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
