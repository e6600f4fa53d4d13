// Package openai implements the generation.Generator interface over any
// OpenAI-compatible chat completion endpoint. Gemini and Grok both expose
// one, so a base URL plus an API key covers all three hosted providers.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation"
)

// Compatible base URLs for the supported hosted providers.
const (
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	GrokBaseURL   = "https://api.x.ai/v1"
)

// Client wraps an OpenAI-compatible chat endpoint.
type Client struct {
	client      *goopenai.Client
	model       string
	maxTokens   int
	temperature float64
}

// Config carries client settings. APIKey and Model are required; an empty
// Target uses the stock OpenAI endpoint.
type Config struct {
	Target      string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: missing API key")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai: missing model")
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.Target != "" {
		clientCfg.BaseURL = cfg.Target
	}

	return &Client{
		client:      goopenai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (c *Client) buildRequest(req generation.Request) (goopenai.ChatCompletionRequest, error) {
	if len(req.Messages) == 0 {
		return goopenai.ChatCompletionRequest{}, generation.ErrNoMessages
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	return goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(temperature),
	}, nil
}

// Generate returns the full completion.
func (c *Client) Generate(ctx context.Context, req generation.Request) (string, error) {
	chatReq, err := c.buildRequest(req)
	if err != nil {
		return "", err
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", generation.ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

// Stream emits completion deltas as the provider produces them.
func (c *Client) Stream(ctx context.Context, req generation.Request, emit func(delta string) error) error {
	chatReq, err := c.buildRequest(req)
	if err != nil {
		return err
	}
	chatReq.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return fmt.Errorf("openai: opening stream: %w", err)
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("openai: receiving stream: %w", err)
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if err := emit(delta); err != nil {
			return err
		}
	}
}

// Close is a no-op; the client is stateless between calls.
func (c *Client) Close() error {
	return nil
}
