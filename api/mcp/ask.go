package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/rag"
)

var (
	askToolName    = "ask_textbook"
	askDescription = "Ask a question about the Physical AI and Humanoid Robotics textbook. Runs the full retrieval and generation pipeline and returns a grounded answer with citations."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Question     string `json:"question" jsonschema:"the question to answer from the textbook"`
	SelectedText string `json:"selected_text,omitempty" jsonschema:"optional passage to answer from exclusively, bypassing retrieval"`
}

// AskSource is one citation attached to an answer.
type AskSource struct {
	Chapter   string  `json:"chapter"`
	Section   string  `json:"section"`
	SourceURL string  `json:"source_url"`
	Score     float64 `json:"score"`
}

// AskOutput represents the output of the ask tool.
type AskOutput struct {
	Question     string      `json:"question"`
	Answer       string      `json:"answer"`
	Sources      []AskSource `json:"sources"`
	Insufficient bool        `json:"insufficient"`
}

// handleAsk processes an ask request.
func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	logger := s.config.Logger

	logger.Debug("mcp ask request", "question", input.Question)

	result, err := s.config.RAG.Answer(ctx, rag.Query{
		Text:         input.Question,
		SelectedText: input.SelectedText,
	})
	if err != nil {
		logger.Error("mcp ask failed", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to answer question: %v", err)},
			},
		}, AskOutput{}, nil
	}

	sources := make([]AskSource, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, AskSource{
			Chapter:   src.Chapter,
			Section:   src.Section,
			SourceURL: src.SourceURL,
			Score:     src.Score,
		})
	}

	output := AskOutput{
		Question:     input.Question,
		Answer:       result.Response,
		Sources:      sources,
		Insufficient: result.Insufficient,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("mcp ask output marshal failed", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize answer: %v", err)},
			},
		}, AskOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
