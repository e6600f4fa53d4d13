package inmemory_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector/inmemory"
)

func TestInMemory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "InMemory Vector Suite")
}

var _ = Describe("InMemory", func() {
	var (
		ctx   context.Context
		store *inmemory.InMemory
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = inmemory.New()
	})

	Describe("EnsureCollection", func() {
		It("is idempotent", func() {
			Expect(store.EnsureCollection(ctx, 3)).To(Succeed())
			Expect(store.EnsureCollection(ctx, 3)).To(Succeed())

			stats, err := store.Stats(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Count).To(BeZero())
			Expect(stats.Status).To(Equal("green"))
		})
	})

	Describe("Upsert", func() {
		It("fails before the collection exists", func() {
			err := store.Upsert(ctx, []vector.Point{{ID: "a", Vector: []float32{1, 0, 0}}})
			Expect(err).To(MatchError(vector.ErrCollectionNotFound))
		})

		It("rejects vectors of the wrong width", func() {
			Expect(store.EnsureCollection(ctx, 3)).To(Succeed())
			err := store.Upsert(ctx, []vector.Point{{ID: "a", Vector: []float32{1, 0}}})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("overwrites points with matching ids", func() {
			Expect(store.EnsureCollection(ctx, 2)).To(Succeed())
			Expect(store.Upsert(ctx, []vector.Point{{ID: "a", Vector: []float32{1, 0}}})).To(Succeed())
			Expect(store.Upsert(ctx, []vector.Point{{ID: "a", Vector: []float32{0, 1}}})).To(Succeed())

			stats, err := store.Stats(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Count).To(Equal(uint64(1)))
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			Expect(store.EnsureCollection(ctx, 3)).To(Succeed())
			Expect(store.Upsert(ctx, []vector.Point{
				{ID: "x", Vector: []float32{1, 0, 0}, Payload: map[string]any{"text": "x axis"}},
				{ID: "y", Vector: []float32{0, 1, 0}, Payload: map[string]any{"text": "y axis"}},
				{ID: "xy", Vector: []float32{1, 1, 0}, Payload: map[string]any{"text": "diagonal"}},
			})).To(Succeed())
		})

		It("orders hits by cosine similarity, best first", func() {
			hits, err := store.Search(ctx, []float32{1, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(3))
			Expect(hits[0].ID).To(Equal("x"))
			Expect(hits[0].Score).To(BeNumerically("~", 1.0, 1e-6))
			Expect(hits[1].ID).To(Equal("xy"))
			Expect(hits[0].Payload["text"]).To(Equal("x axis"))
		})

		It("caps results at the limit", func() {
			hits, err := store.Search(ctx, []float32{1, 1, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(2))
		})

		It("returns nothing for a non-positive limit", func() {
			hits, err := store.Search(ctx, []float32{1, 0, 0}, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(BeEmpty())
		})

		It("fails before the collection exists", func() {
			fresh := inmemory.New()
			_, err := fresh.Search(ctx, []float32{1, 0, 0}, 1)
			Expect(err).To(MatchError(vector.ErrCollectionNotFound))
		})
	})

	Describe("Healthy", func() {
		It("fails before the collection exists", func() {
			Expect(store.Healthy(ctx)).To(MatchError(vector.ErrCollectionNotFound))
		})

		It("succeeds once the collection exists", func() {
			Expect(store.EnsureCollection(ctx, 2)).To(Succeed())
			Expect(store.Healthy(ctx)).To(Succeed())
		})
	})

	Describe("DeleteCollection", func() {
		It("drops everything and tolerates a missing collection", func() {
			Expect(store.DeleteCollection(ctx)).To(Succeed())

			Expect(store.EnsureCollection(ctx, 2)).To(Succeed())
			Expect(store.Upsert(ctx, []vector.Point{{ID: "a", Vector: []float32{1, 0}}})).To(Succeed())
			Expect(store.DeleteCollection(ctx)).To(Succeed())

			_, err := store.Stats(ctx)
			Expect(err).To(MatchError(vector.ErrCollectionNotFound))
		})
	})
})
