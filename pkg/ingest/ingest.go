// Package ingest drives the offline pipeline: load markdown sources, chunk
// them, embed the chunks, and upsert them into the vector store in batches.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/chunker"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/corpus"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
)

// DefaultBatchSize bounds how many chunks are embedded and upserted per
// round trip, to stay under embedding provider rate limits.
const DefaultBatchSize = 50

// ErrNoDocuments is returned when the corpus root exists but contains no
// markdown documents, which usually means a misconfigured docs root.
var ErrNoDocuments = errors.New("no documents found in corpus")

// Report summarizes an ingestion run. A run with batch failures still
// reports what it managed to index; Errors carries what went wrong.
type Report struct {
	DocumentsProcessed int      `json:"documents_processed"`
	ChunksCreated      int      `json:"chunks_created"`
	ChunksIndexed      int      `json:"chunks_indexed"`
	Errors             []string `json:"errors,omitempty"`
}

// Indexer runs ingestion against a loader, chunker, embedder, and store.
type Indexer struct {
	loader    *corpus.Loader
	chunker   *chunker.Chunker
	embedder  embeddings.Embedder
	store     vector.Driver
	batchSize int
	log       *slog.Logger
}

// Config wires an Indexer. BatchSize falls back to DefaultBatchSize.
type Config struct {
	Loader    *corpus.Loader
	Chunker   *chunker.Chunker
	Embedder  embeddings.Embedder
	Store     vector.Driver
	BatchSize int
	Logger    *slog.Logger
}

// New creates an Indexer.
func New(cfg Config) *Indexer {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Indexer{
		loader:    cfg.Loader,
		chunker:   cfg.Chunker,
		embedder:  cfg.Embedder,
		store:     cfg.Store,
		batchSize: batchSize,
		log:       log,
	}
}

// chunkRecord pairs a chunk's text with its upsert-ready metadata.
type chunkRecord struct {
	id      string
	text    string
	payload map[string]any
}

// IngestAll loads every document, chunks it, and indexes the chunks in
// sequential batches. The collection is created first if missing. Unreadable
// documents and failed batches are recorded in the report and the run
// continues with what remains.
func (ix *Indexer) IngestAll(ctx context.Context) (Report, error) {
	report := Report{}

	if err := ix.store.EnsureCollection(ctx, ix.embedder.Dimensions()); err != nil {
		return report, fmt.Errorf("ensuring collection: %w", err)
	}

	docs, loadErrs, err := ix.loader.Load()
	if err != nil {
		return report, fmt.Errorf("loading corpus: %w", err)
	}
	for _, loadErr := range loadErrs {
		ix.log.Error("skipping unreadable document", "error", loadErr)
		report.Errors = append(report.Errors, loadErr.Error())
	}
	if len(docs) == 0 {
		return report, fmt.Errorf("%w: %s", ErrNoDocuments, ix.loader.Root())
	}
	ix.log.Info("loaded corpus", "documents", len(docs), "skipped", len(loadErrs))

	var records []chunkRecord
	for _, doc := range docs {
		chunks := ix.chunker.Split(doc.Content)
		for i, text := range chunks {
			meta := corpus.ChunkMetadata(doc, i, text)
			records = append(records, chunkRecord{
				id:      uuid.NewString(),
				text:    text,
				payload: meta.Payload(),
			})
		}

		report.DocumentsProcessed++
		report.ChunksCreated += len(chunks)
		ix.log.Debug("chunked document", "path", doc.Path, "chunks", len(chunks))
	}

	if len(records) == 0 {
		ix.log.Warn("no chunks produced", "documents", len(docs))
		return report, nil
	}

	for start := 0; start < len(records); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		if err := ix.indexBatch(ctx, batch); err != nil {
			ix.log.Error("batch failed", "start", start, "size", len(batch), "error", err)
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		report.ChunksIndexed += len(batch)
	}

	ix.log.Info("ingestion finished",
		"documents", report.DocumentsProcessed,
		"chunks_created", report.ChunksCreated,
		"chunks_indexed", report.ChunksIndexed,
		"errors", len(report.Errors))

	return report, nil
}

func (ix *Indexer) indexBatch(ctx context.Context, batch []chunkRecord) error {
	texts := make([]string, len(batch))
	for i, r := range batch {
		texts[i] = r.text
	}

	vectors, err := ix.embedder.Embed(ctx, texts, embeddings.ModeDocument)
	if err != nil {
		return fmt.Errorf("embedding batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: got %d vectors for %d chunks",
			embeddings.ErrBadResponse, len(vectors), len(batch))
	}

	points := make([]vector.Point, len(batch))
	for i, r := range batch {
		points[i] = vector.Point{
			ID:      r.id,
			Vector:  vectors[i],
			Payload: r.payload,
		}
	}

	if err := ix.store.Upsert(ctx, points); err != nil {
		return fmt.Errorf("upserting batch: %w", err)
	}

	return nil
}

// Reindex drops the collection and rebuilds it from the corpus. Chunk ids are
// freshly generated, so a reindex never leaves stale points behind.
func (ix *Indexer) Reindex(ctx context.Context) (Report, error) {
	ix.log.Info("dropping collection for reindex")
	if err := ix.store.DeleteCollection(ctx); err != nil {
		return Report{}, fmt.Errorf("deleting collection: %w", err)
	}

	return ix.IngestAll(ctx)
}
