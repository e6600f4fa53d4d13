// Package utils constructs the configured vector store driver.
package utils

import (
	"fmt"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/config"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector/inmemory"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector/qdrant"
)

// New builds the vector store named by cfg.VectorStore.Provider.
func New(cfg *config.Config) (vector.Driver, error) {
	switch cfg.VectorStore.Provider {
	case "qdrant":
		return qdrant.New(qdrant.Config{
			Target:     cfg.VectorStore.Target,
			APIKey:     cfg.VectorStore.APIKey,
			Collection: cfg.VectorStore.Collection,
		})
	case "inmemory":
		return inmemory.New(), nil
	default:
		return nil, fmt.Errorf("unknown vector store provider: %q", cfg.VectorStore.Provider)
	}
}
