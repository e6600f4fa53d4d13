package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent ragbot configuration stored as config.toml
// in the .ragbot/ directory. Secrets (API keys, database URL) are expected to
// come from the environment rather than the file, but the file may carry them
// for local development.
type Config struct {
	Version     int               `toml:"version"`
	API         APIConfig         `toml:"api"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	VectorStore VectorConfig      `toml:"vector_store"`
	Generation  GenerationConfig  `toml:"generation"`
	Database    DatabaseConfig    `toml:"database"`
	Ingest      IngestConfig      `toml:"ingest"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	EventStream EventStreamConfig `toml:"event_stream"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
	// Token is the shared secret required in the x-api-token header.
	Token string `toml:"token,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// VectorConfig holds vector store settings.
type VectorConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// GenerationConfig holds text-generation provider settings.
type GenerationConfig struct {
	Provider    string  `toml:"provider,omitempty"`
	APIKey      string  `toml:"api_key,omitempty"`
	Target      string  `toml:"target,omitempty"`
	Model       string  `toml:"model,omitempty"`
	MaxTokens   int     `toml:"max_tokens,omitempty"`
	Temperature float64 `toml:"temperature,omitempty"`
}

// DatabaseConfig holds conversation store settings.
type DatabaseConfig struct {
	URL     string `toml:"url,omitempty"`
	PoolMin int    `toml:"pool_min,omitempty"`
	PoolMax int    `toml:"pool_max,omitempty"`
}

// IngestConfig holds document ingestion settings.
type IngestConfig struct {
	DocsRoot       string `toml:"docs_root,omitempty"`
	ChunkSize      int    `toml:"chunk_size,omitempty"`
	ChunkOverlap   int    `toml:"chunk_overlap,omitempty"`
	MinChunkLength int    `toml:"min_chunk_length,omitempty"`
	BatchSize      int    `toml:"batch_size,omitempty"`
}

// EventStreamConfig holds Kafka settings. Empty brokers disables publishing.
type EventStreamConfig struct {
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// RetrievalConfig holds query-time retrieval settings.
type RetrievalConfig struct {
	TopK            int     `toml:"top_k,omitempty"`
	MinScore        float64 `toml:"min_score,omitempty"`
	MaxContextChars int     `toml:"max_context_chars,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func intKey(get func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.Itoa(*get(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid integer value %q: %w", v, err)
			}
			*get(c) = n
			return nil
		},
	}
}

func stringKey(get func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *get(c) },
		set: func(c *Config, v string) error { *get(c) = v; return nil },
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure. Secrets are
// deliberately absent: they are environment-only.
var configKeys = map[string]configKeyInfo{
	"api.listen":              stringKey(func(c *Config) *string { return &c.API.Listen }),
	"embedding.provider":      stringKey(func(c *Config) *string { return &c.Embedding.Provider }),
	"embedding.target":        stringKey(func(c *Config) *string { return &c.Embedding.Target }),
	"embedding.model":         stringKey(func(c *Config) *string { return &c.Embedding.Model }),
	"vector_store.provider":   stringKey(func(c *Config) *string { return &c.VectorStore.Provider }),
	"vector_store.target":     stringKey(func(c *Config) *string { return &c.VectorStore.Target }),
	"vector_store.collection": stringKey(func(c *Config) *string { return &c.VectorStore.Collection }),
	"generation.provider":     stringKey(func(c *Config) *string { return &c.Generation.Provider }),
	"generation.target":       stringKey(func(c *Config) *string { return &c.Generation.Target }),
	"generation.model":        stringKey(func(c *Config) *string { return &c.Generation.Model }),
	"ingest.docs_root":        stringKey(func(c *Config) *string { return &c.Ingest.DocsRoot }),
	"ingest.chunk_size":       intKey(func(c *Config) *int { return &c.Ingest.ChunkSize }),
	"ingest.chunk_overlap":    intKey(func(c *Config) *int { return &c.Ingest.ChunkOverlap }),
	"ingest.batch_size":       intKey(func(c *Config) *int { return &c.Ingest.BatchSize }),
	"retrieval.top_k":         intKey(func(c *Config) *int { return &c.Retrieval.TopK }),
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
}
