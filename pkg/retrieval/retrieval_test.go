package retrieval_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/retrieval"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/utils/test"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
)

func TestRetrieval(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Retrieval Suite")
}

var _ = Describe("Retriever", func() {
	var (
		ctx      context.Context
		embedder *test.MockEmbedder
		store    *test.MockVectorDriver
	)

	BeforeEach(func() {
		ctx = context.Background()
		embedder = &test.MockEmbedder{}
		store = &test.MockVectorDriver{
			SearchFn: func(_ context.Context, _ []float32, limit int) ([]vector.ScoredPoint, error) {
				hits := []vector.ScoredPoint{
					{
						ID:    "p1",
						Score: 0.92,
						Payload: map[string]any{
							"text":        "Bipedal gait alternates stance and swing.",
							"chapter":     "Chapter 5",
							"section":     "chapter-5",
							"source_url":  "/docs/my-book/chapter-5",
							"chunk_index": int64(2),
							"original_id": "chapter-5_chunk_2",
						},
					},
					{
						ID:      "p2",
						Score:   0.61,
						Payload: map[string]any{"text": "Sensors feed the estimator."},
					},
				}
				if limit < len(hits) {
					hits = hits[:limit]
				}
				return hits, nil
			},
		}
	})

	It("embeds the query in query mode", func() {
		r := retrieval.New(embedder, store)
		_, err := r.Retrieve(ctx, "how do robots walk", 5)
		Expect(err).NotTo(HaveOccurred())

		Expect(embedder.Calls).To(HaveLen(1))
		Expect(embedder.Calls[0].Mode).To(Equal(embeddings.ModeQuery))
		Expect(embedder.Calls[0].Texts).To(Equal([]string{"how do robots walk"}))
	})

	It("maps payloads into retrieved documents", func() {
		r := retrieval.New(embedder, store)
		docs, err := r.Retrieve(ctx, "gait", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(2))

		Expect(docs[0].ID).To(Equal("p1"))
		Expect(docs[0].Score).To(BeNumerically("~", 0.92))
		Expect(docs[0].Content).To(Equal("Bipedal gait alternates stance and swing."))
		Expect(docs[0].Metadata.Chapter).To(Equal("Chapter 5"))
		Expect(docs[0].Metadata.ChunkIndex).To(Equal(2))
		Expect(docs[0].Metadata.OriginalID).To(Equal("chapter-5_chunk_2"))
	})

	It("passes topK through as the search limit", func() {
		r := retrieval.New(embedder, store)
		docs, err := r.Retrieve(ctx, "gait", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(1))
	})

	It("short-circuits blank queries without touching dependencies", func() {
		r := retrieval.New(embedder, store)
		docs, err := r.Retrieve(ctx, "   ", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(BeEmpty())
		Expect(embedder.Calls).To(BeEmpty())
	})

	It("short-circuits non-positive topK", func() {
		r := retrieval.New(embedder, store)
		docs, err := r.Retrieve(ctx, "gait", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(BeEmpty())
		Expect(embedder.Calls).To(BeEmpty())
	})

	It("propagates embedder failures", func() {
		embedder.EmbedFn = func(context.Context, []string, embeddings.Mode) ([][]float32, error) {
			return nil, fmt.Errorf("provider down")
		}
		r := retrieval.New(embedder, store)
		_, err := r.Retrieve(ctx, "gait", 5)
		Expect(err).To(MatchError(ContainSubstring("provider down")))
	})

	It("propagates store failures", func() {
		store.SearchFn = func(context.Context, []float32, int) ([]vector.ScoredPoint, error) {
			return nil, fmt.Errorf("connection refused")
		}
		r := retrieval.New(embedder, store)
		_, err := r.Retrieve(ctx, "gait", 5)
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})
})
