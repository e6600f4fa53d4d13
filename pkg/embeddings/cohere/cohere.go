// Package cohere implements the embeddings.Embedder interface against the
// Cohere embed API.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
)

const (
	defaultTarget = "https://api.cohere.ai"
	embedPath     = "/v1/embed"

	// DefaultModel is the asymmetric English embedding model.
	DefaultModel = "embed-english-v3.0"

	// DefaultDimensions is the vector width of DefaultModel.
	DefaultDimensions = 1024
)

// Cohere calls the hosted embed endpoint. Create with New.
type Cohere struct {
	target     string
	apiKey     string
	model      string
	dimensions uint
	client     *http.Client
}

// Config carries Cohere client settings. APIKey is required; everything else
// has a default.
type Config struct {
	Target     string
	APIKey     string
	Model      string
	Dimensions uint
}

// New creates a Cohere embedder.
func New(cfg Config) (*Cohere, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: missing API key")
	}

	c := &Cohere{
		target:     cfg.Target,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		client:     &http.Client{Timeout: 60 * time.Second},
	}
	if c.target == "" {
		c.target = defaultTarget
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.dimensions == 0 {
		c.dimensions = DefaultDimensions
	}

	return c, nil
}

type embedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Message    string      `json:"message,omitempty"`
}

// Embed submits the batch in a single request and returns one vector per
// input, in order.
func (c *Cohere) Embed(ctx context.Context, texts []string, mode embeddings.Mode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, embeddings.ErrNoInput
	}

	body, err := json.Marshal(embedRequest{
		Texts:     texts,
		Model:     c.model,
		InputType: string(mode),
	})
	if err != nil {
		return nil, fmt.Errorf("cohere: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target+embedPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cohere: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cohere: embed request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cohere: reading response: %w", err)
	}

	var parsed embedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", embeddings.ErrBadResponse, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := parsed.Message
		if msg == "" {
			msg = string(raw)
		}
		return nil, fmt.Errorf("cohere: embed failed with status %d: %s", resp.StatusCode, msg)
	}

	if len(parsed.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			embeddings.ErrBadResponse, len(parsed.Embeddings), len(texts))
	}

	return parsed.Embeddings, nil
}

// Dimensions reports the configured vector width.
func (c *Cohere) Dimensions() uint {
	return c.dimensions
}

// Close is a no-op; the HTTP client holds no persistent state worth tearing down.
func (c *Cohere) Close() error {
	return nil
}
