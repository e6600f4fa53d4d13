package ingest_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/chunker"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/corpus"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/ingest"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/utils/test"
)

func TestIngest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ingest Suite")
}

var _ = Describe("Indexer", func() {
	var (
		ctx      context.Context
		tmpDir   string
		embedder *test.MockEmbedder
		store    *test.MockVectorDriver
		quiet    *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		embedder = &test.MockEmbedder{Width: 4}
		store = &test.MockVectorDriver{}
		quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

		var err error
		tmpDir, err = os.MkdirTemp("", "ragbot-ingest-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tmpDir)).To(Succeed())
	})

	write := func(name, content string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600)).To(Succeed())
	}

	newIndexer := func(batchSize int) *ingest.Indexer {
		return ingest.New(ingest.Config{
			Loader:    corpus.NewLoader(tmpDir, "/docs/my-book"),
			Chunker:   chunker.New(chunker.Config{MaxSize: 40, Overlap: 5, MinLength: 5}),
			Embedder:  embedder,
			Store:     store,
			BatchSize: batchSize,
			Logger:    quiet,
		})
	}

	Describe("IngestAll", func() {
		It("creates the collection with the embedder's width", func() {
			write("chapter-1.md", "Robots sense the world. Robots act on it.")

			_, err := newIndexer(50).IngestAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Ensured).To(Equal([]uint{4}))
		})

		It("indexes chunks with document-mode embeddings and full payloads", func() {
			write("chapter-1.md", "Robots sense the world. Robots act on it. Robots learn from both.")

			report, err := newIndexer(50).IngestAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.DocumentsProcessed).To(Equal(1))
			Expect(report.ChunksCreated).To(BeNumerically(">", 0))
			Expect(report.ChunksIndexed).To(Equal(report.ChunksCreated))
			Expect(report.Errors).To(BeEmpty())

			Expect(embedder.Calls).NotTo(BeEmpty())
			for _, call := range embedder.Calls {
				Expect(call.Mode).To(Equal(embeddings.ModeDocument))
			}

			Expect(store.Points).To(HaveLen(report.ChunksIndexed))
			first := store.Points[0]
			Expect(first.ID).To(HaveLen(36), "point ids are UUIDs")
			Expect(first.Payload["chapter"]).To(Equal("Chapter 1"))
			Expect(first.Payload["source_url"]).To(Equal("/docs/my-book/chapter-1"))
			Expect(first.Payload["original_id"]).To(Equal("chapter-1_chunk_0"))
			Expect(first.Payload["text"]).NotTo(BeEmpty())
		})

		It("splits work into sequential batches", func() {
			write("chapter-1.md", "One sentence here. Two sentences here. Three sentences here. Four sentences here. Five sentences here. Six sentences here.")

			report, err := newIndexer(2).IngestAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.ChunksIndexed).To(BeNumerically(">", 2))

			for i, batch := range store.Batches {
				if i < len(store.Batches)-1 {
					Expect(batch).To(HaveLen(2))
				} else {
					Expect(len(batch)).To(BeNumerically("<=", 2))
				}
			}
		})

		It("records batch failures and continues", func() {
			write("chapter-1.md", "One sentence here. Two sentences here. Three sentences here. Four sentences here.")

			failed := false
			embedder.EmbedFn = func(_ context.Context, texts []string, _ embeddings.Mode) ([][]float32, error) {
				if !failed {
					failed = true
					return nil, fmt.Errorf("rate limited")
				}
				out := make([][]float32, len(texts))
				for i := range out {
					out[i] = []float32{1, 0, 0, 0}
				}
				return out, nil
			}

			report, err := newIndexer(1).IngestAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Errors).To(HaveLen(1))
			Expect(report.Errors[0]).To(ContainSubstring("rate limited"))
			Expect(report.ChunksIndexed).To(Equal(report.ChunksCreated - 1))
		})

		It("skips an unreadable document and records the failure", func() {
			write("chapter-1.md", "Robots sense the world. Robots act on it.")
			broken := filepath.Join(tmpDir, "broken.md")
			Expect(os.Symlink(filepath.Join(tmpDir, "missing.md"), broken)).To(Succeed())

			report, err := newIndexer(50).IngestAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.DocumentsProcessed).To(Equal(1))
			Expect(report.ChunksIndexed).To(BeNumerically(">", 0))
			Expect(report.Errors).To(HaveLen(1))
			Expect(report.Errors[0]).To(ContainSubstring("broken.md"))
		})

		It("fails when the corpus has no documents", func() {
			report, err := newIndexer(50).IngestAll(ctx)
			Expect(err).To(MatchError(ingest.ErrNoDocuments))
			Expect(report.DocumentsProcessed).To(BeZero())
			Expect(store.Points).To(BeEmpty())
		})

		It("fails when the docs directory is missing", func() {
			ix := ingest.New(ingest.Config{
				Loader:   corpus.NewLoader(filepath.Join(tmpDir, "nope"), "/docs/my-book"),
				Chunker:  chunker.New(chunker.Config{}),
				Embedder: embedder,
				Store:    store,
				Logger:   quiet,
			})
			_, err := ix.IngestAll(ctx)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Reindex", func() {
		It("drops the collection before re-ingesting", func() {
			write("chapter-1.md", "Robots sense the world. Robots act on it.")

			first, err := newIndexer(50).IngestAll(ctx)
			Expect(err).NotTo(HaveOccurred())

			second, err := newIndexer(50).Reindex(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Deleted).To(Equal(1))

			Expect(second.ChunksCreated).To(Equal(first.ChunksCreated))
			Expect(second.ChunksIndexed).To(Equal(first.ChunksIndexed))
			Expect(store.Points).To(HaveLen(second.ChunksIndexed))
		})
	})
})
