package config

const (
	defaultAPIListen = ":8000"

	defaultEmbeddingProvider   = "cohere"
	defaultEmbeddingModel      = "embed-english-v3.0"
	defaultEmbeddingDimensions = 1024

	defaultVectorProvider   = "qdrant"
	defaultVectorTarget     = "http://localhost:6334"
	defaultVectorCollection = "textbook_content"

	defaultGenerationProvider = "gemini"
	defaultGenerationModel    = "gemini-2.0-flash"
	defaultMaxTokens          = 1000
	defaultTemperature        = 0.7

	defaultPoolMin = 2
	defaultPoolMax = 10

	defaultDocsRoot       = "my-website/docs/my-book"
	defaultChunkSize      = 1000
	defaultChunkOverlap   = 100
	defaultMinChunkLength = 50
	defaultBatchSize      = 50

	defaultTopK            = 5
	defaultMinScore        = 0.3
	defaultMaxContextChars = 12000
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		VectorStore: VectorConfig{
			Provider:   defaultVectorProvider,
			Target:     defaultVectorTarget,
			Collection: defaultVectorCollection,
		},
		Generation: GenerationConfig{
			Provider:    defaultGenerationProvider,
			Model:       defaultGenerationModel,
			MaxTokens:   defaultMaxTokens,
			Temperature: defaultTemperature,
		},
		Database: DatabaseConfig{
			PoolMin: defaultPoolMin,
			PoolMax: defaultPoolMax,
		},
		Ingest: IngestConfig{
			DocsRoot:       defaultDocsRoot,
			ChunkSize:      defaultChunkSize,
			ChunkOverlap:   defaultChunkOverlap,
			MinChunkLength: defaultMinChunkLength,
			BatchSize:      defaultBatchSize,
		},
		Retrieval: RetrievalConfig{
			TopK:            defaultTopK,
			MinScore:        defaultMinScore,
			MaxContextChars: defaultMaxContextChars,
		},
	}
}
