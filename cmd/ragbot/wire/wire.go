// Package wire resolves configuration and constructs the pipeline pieces the
// ragbot commands share.
package wire

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/chunker"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/config"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/corpus"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
	embedutils "github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings/utils"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/ingest"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/logger"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
	vectorutils "github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector/utils"
)

// SourceURLBase prefixes generated citation links, matching the site's
// published docs layout.
const SourceURLBase = "/docs/my-book"

// Load resolves the effective configuration and builds the logger. A .env
// file in the working directory is folded into the environment first, then
// config.toml, then RAGBOT_ environment overrides.
func Load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	// Missing .env files are fine; explicit env vars still apply.
	_ = godotenv.Load()

	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, nil, fmt.Errorf("could not get debug flag: %v", err)
	}
	configDir, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("could not get config flag: %v", err)
	}

	configer, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, nil, err
	}
	fileCfg, err := configer.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	cfg := config.FromViper(config.InitViper(fileCfg))

	log := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(true),
	)

	return cfg, log, nil
}

// Embedder builds the configured embedding driver.
func Embedder(cfg *config.Config) (embeddings.Embedder, error) {
	return embedutils.New(cfg)
}

// VectorStore builds the configured vector store driver.
func VectorStore(cfg *config.Config) (vector.Driver, error) {
	return vectorutils.New(cfg)
}

// Indexer builds the full offline pipeline.
func Indexer(cfg *config.Config, log *slog.Logger) (*ingest.Indexer, embeddings.Embedder, vector.Driver, error) {
	embedder, err := Embedder(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := VectorStore(cfg)
	if err != nil {
		embedder.Close()
		return nil, nil, nil, err
	}

	indexer := ingest.New(ingest.Config{
		Loader: corpus.NewLoader(cfg.Ingest.DocsRoot, SourceURLBase),
		Chunker: chunker.New(chunker.Config{
			MaxSize:   cfg.Ingest.ChunkSize,
			Overlap:   cfg.Ingest.ChunkOverlap,
			MinLength: cfg.Ingest.MinChunkLength,
		}),
		Embedder:  embedder,
		Store:     store,
		BatchSize: cfg.Ingest.BatchSize,
		Logger:    log,
	})

	return indexer, embedder, store, nil
}
