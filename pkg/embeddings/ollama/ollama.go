// Package ollama implements the embeddings.Embedder interface against a
// local Ollama instance, for development without a hosted embedding key.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
)

const (
	defaultTarget = "http://localhost:11434"

	// DefaultModel works well for retrieval and runs on modest hardware.
	DefaultModel = "nomic-embed-text"

	// DefaultDimensions is the vector width of DefaultModel.
	DefaultDimensions = 768
)

// Ollama embeds text via a running Ollama server.
type Ollama struct {
	client     *api.Client
	model      string
	dimensions uint
}

// Config carries Ollama embedder settings. Zero values fall back to defaults.
type Config struct {
	Target     string
	Model      string
	Dimensions uint
}

// New creates an Ollama embedder.
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
		client:     api.NewClient(base, http.DefaultClient),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
	if o.model == "" {
		o.model = DefaultModel
	}
	if o.dimensions == 0 {
		o.dimensions = DefaultDimensions
	}

	return o, nil
}

// Embed returns one vector per input text. Ollama embedding models are
// symmetric, so the mode is accepted for interface compatibility but does not
// change the request.
func (o *Ollama) Embed(ctx context.Context, texts []string, _ embeddings.Mode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, embeddings.ErrNoInput
	}

	resp, err := o.client.Embed(ctx, &api.EmbedRequest{
		Model: o.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama: embed request: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			embeddings.ErrBadResponse, len(resp.Embeddings), len(texts))
	}

	return resp.Embeddings, nil
}

// Dimensions reports the configured vector width.
func (o *Ollama) Dimensions() uint {
	return o.dimensions
}

// Close is a no-op; the Ollama client is stateless between calls.
func (o *Ollama) Close() error {
	return nil
}
