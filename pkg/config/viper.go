package config

import (
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the prefix for all ragbot environment variables, e.g.
// RAGBOT_API_TOKEN or RAGBOT_EMBEDDING_API_KEY.
const envPrefix = "RAGBOT"

// InitViper wires a viper instance to the loaded config and the environment.
// Precedence, highest first: environment variables, config.toml values,
// built-in defaults. Dotted config keys map to underscored env names, so
// vector_store.target is RAGBOT_VECTOR_STORE_TARGET.
func InitViper(cfg *Config) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setViperDefaults(v, cfg)

	return v
}

// setViperDefaults seeds the viper instance from the loaded config so that
// v.GetString etc. fall back to config.toml values when the environment does
// not override them.
func setViperDefaults(v *viper.Viper, cfg *Config) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}

	v.SetDefault("api.listen", cfg.API.Listen)
	v.SetDefault("api.token", cfg.API.Token)

	v.SetDefault("embedding.provider", cfg.Embedding.Provider)
	v.SetDefault("embedding.api_key", cfg.Embedding.APIKey)
	v.SetDefault("embedding.target", cfg.Embedding.Target)
	v.SetDefault("embedding.model", cfg.Embedding.Model)
	v.SetDefault("embedding.dimensions", cfg.Embedding.Dimensions)

	v.SetDefault("vector_store.provider", cfg.VectorStore.Provider)
	v.SetDefault("vector_store.target", cfg.VectorStore.Target)
	v.SetDefault("vector_store.api_key", cfg.VectorStore.APIKey)
	v.SetDefault("vector_store.collection", cfg.VectorStore.Collection)

	v.SetDefault("generation.provider", cfg.Generation.Provider)
	v.SetDefault("generation.api_key", cfg.Generation.APIKey)
	v.SetDefault("generation.target", cfg.Generation.Target)
	v.SetDefault("generation.model", cfg.Generation.Model)
	v.SetDefault("generation.max_tokens", cfg.Generation.MaxTokens)
	v.SetDefault("generation.temperature", cfg.Generation.Temperature)

	v.SetDefault("database.url", cfg.Database.URL)
	v.SetDefault("database.pool_min", cfg.Database.PoolMin)
	v.SetDefault("database.pool_max", cfg.Database.PoolMax)

	v.SetDefault("ingest.docs_root", cfg.Ingest.DocsRoot)
	v.SetDefault("ingest.chunk_size", cfg.Ingest.ChunkSize)
	v.SetDefault("ingest.chunk_overlap", cfg.Ingest.ChunkOverlap)
	v.SetDefault("ingest.min_chunk_length", cfg.Ingest.MinChunkLength)
	v.SetDefault("ingest.batch_size", cfg.Ingest.BatchSize)

	v.SetDefault("event_stream.brokers", cfg.EventStream.Brokers)
	v.SetDefault("event_stream.topic", cfg.EventStream.Topic)

	v.SetDefault("retrieval.top_k", cfg.Retrieval.TopK)
	v.SetDefault("retrieval.min_score", cfg.Retrieval.MinScore)
	v.SetDefault("retrieval.max_context_chars", cfg.Retrieval.MaxContextChars)
}

// FromViper materializes a Config from the resolved viper state, folding any
// environment overrides back into a concrete struct for dependency wiring.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: v.GetString("api.listen"),
			Token:  v.GetString("api.token"),
		},
		Embedding: EmbeddingConfig{
			Provider:   v.GetString("embedding.provider"),
			APIKey:     v.GetString("embedding.api_key"),
			Target:     v.GetString("embedding.target"),
			Model:      v.GetString("embedding.model"),
			Dimensions: v.GetUint("embedding.dimensions"),
		},
		VectorStore: VectorConfig{
			Provider:   v.GetString("vector_store.provider"),
			Target:     v.GetString("vector_store.target"),
			APIKey:     v.GetString("vector_store.api_key"),
			Collection: v.GetString("vector_store.collection"),
		},
		Generation: GenerationConfig{
			Provider:    v.GetString("generation.provider"),
			APIKey:      v.GetString("generation.api_key"),
			Target:      v.GetString("generation.target"),
			Model:       v.GetString("generation.model"),
			MaxTokens:   v.GetInt("generation.max_tokens"),
			Temperature: v.GetFloat64("generation.temperature"),
		},
		Database: DatabaseConfig{
			URL:     v.GetString("database.url"),
			PoolMin: v.GetInt("database.pool_min"),
			PoolMax: v.GetInt("database.pool_max"),
		},
		Ingest: IngestConfig{
			DocsRoot:       v.GetString("ingest.docs_root"),
			ChunkSize:      v.GetInt("ingest.chunk_size"),
			ChunkOverlap:   v.GetInt("ingest.chunk_overlap"),
			MinChunkLength: v.GetInt("ingest.min_chunk_length"),
			BatchSize:      v.GetInt("ingest.batch_size"),
		},
		Retrieval: RetrievalConfig{
			TopK:            v.GetInt("retrieval.top_k"),
			MinScore:        v.GetFloat64("retrieval.min_score"),
			MaxContextChars: v.GetInt("retrieval.max_context_chars"),
		},
		EventStream: EventStreamConfig{
			Brokers: v.GetString("event_stream.brokers"),
			Topic:   v.GetString("event_stream.topic"),
		},
	}
}
