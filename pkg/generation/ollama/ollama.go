// Package ollama implements the generation.Generator interface against a
// local Ollama instance, for development without hosted generation keys.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation"
)

const (
	defaultTarget = "http://localhost:11434"

	// DefaultModel is a small chat model suitable for local runs.
	DefaultModel = "llama3.2"
)

// Ollama generates text via a running Ollama server.
type Ollama struct {
	client      *api.Client
	model       string
	maxTokens   int
	temperature float64
}

// Config carries Ollama generator settings. Zero values fall back to defaults.
type Config struct {
	Target      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// New creates an Ollama generator.
func New(cfg Config) (*Ollama, error) {
	target := cfg.Target
	if target == "" {
		target = defaultTarget
	}

	base, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid target %q: %w", target, err)
	}

	o := &Ollama{
		client:      api.NewClient(base, http.DefaultClient),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
	if o.model == "" {
		o.model = DefaultModel
	}

	return o, nil
}

func (o *Ollama) buildRequest(req generation.Request, stream bool) (*api.ChatRequest, error) {
	if len(req.Messages) == 0 {
		return nil, generation.ErrNoMessages
	}

	messages := make([]api.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, api.Message{Role: string(m.Role), Content: m.Content})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = o.maxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = o.temperature
	}

	options := map[string]any{}
	if maxTokens > 0 {
		options["num_predict"] = maxTokens
	}
	if temperature > 0 {
		options["temperature"] = temperature
	}

	return &api.ChatRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}, nil
}

// Generate returns the full completion.
func (o *Ollama) Generate(ctx context.Context, req generation.Request) (string, error) {
	chatReq, err := o.buildRequest(req, false)
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	err = o.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama: chat: %w", err)
	}

	return reply.String(), nil
}

// Stream emits completion deltas as the model produces them.
func (o *Ollama) Stream(ctx context.Context, req generation.Request, emit func(delta string) error) error {
	chatReq, err := o.buildRequest(req, true)
	if err != nil {
		return err
	}

	err = o.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		if resp.Message.Content == "" {
			return nil
		}
		return emit(resp.Message.Content)
	})
	if err != nil {
		return fmt.Errorf("ollama: chat stream: %w", err)
	}

	return nil
}

// Close is a no-op; the Ollama client is stateless between calls.
func (o *Ollama) Close() error {
	return nil
}
