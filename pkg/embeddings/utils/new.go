// Package utils constructs the configured embeddings driver.
package utils

import (
	"fmt"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/config"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings/cohere"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings/ollama"
)

// New builds the embedder named by cfg.Embedding.Provider.
func New(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "cohere":
		return cohere.New(cohere.Config{
			Target:     cfg.Embedding.Target,
			APIKey:     cfg.Embedding.APIKey,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	case "ollama":
		return ollama.New(ollama.Config{
			Target:     cfg.Embedding.Target,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Embedding.Provider)
	}
}
