package inmemory_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo/inmemory"
)

func TestInMemory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "InMemory Convo Suite")
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

	Describe("Create", func() {
		It("rejects duplicate ids", func() {
			Expect(store.Create(ctx, "c1", "First")).To(Succeed())
			Expect(store.Create(ctx, "c1", "Again")).To(MatchError(convo.ErrDuplicate))
		})
	})

	Describe("Append and History", func() {
		It("returns turns oldest first with optional translations", func() {
			Expect(store.Create(ctx, "c1", "Walking")).To(Succeed())
			Expect(store.Append(ctx, "c1", "user", "How do robots walk?", "")).To(Succeed())
			Expect(store.Append(ctx, "c1", "assistant", "They alternate stance and swing.", "وہ چلتے ہیں")).To(Succeed())

			history, err := store.History(ctx, "c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[0].Role).To(Equal("user"))
			Expect(history[0].Translation).To(BeEmpty())
			Expect(history[1].Role).To(Equal("assistant"))
			Expect(history[1].Translation).NotTo(BeEmpty())
		})

		It("rejects appends to unknown conversations", func() {
			Expect(store.Append(ctx, "nope", "user", "hi", "")).To(MatchError(convo.ErrNotFound))
		})

		It("rejects history for unknown conversations", func() {
			_, err := store.History(ctx, "nope")
			Expect(err).To(MatchError(convo.ErrNotFound))
		})
	})

	Describe("ListAll", func() {
		It("orders by most recent activity", func() {
			Expect(store.Create(ctx, "old", "Old")).To(Succeed())
			Expect(store.Create(ctx, "new", "New")).To(Succeed())
			Expect(store.Append(ctx, "old", "user", "bump", "")).To(Succeed())

			list, err := store.ListAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(list[0].ID).To(Equal("old"))
		})
	})

	Describe("Delete", func() {
		It("removes the conversation and its messages", func() {
			Expect(store.Create(ctx, "c1", "T")).To(Succeed())
			Expect(store.Append(ctx, "c1", "user", "hi", "")).To(Succeed())
			Expect(store.Delete(ctx, "c1")).To(Succeed())

			_, err := store.History(ctx, "c1")
			Expect(err).To(MatchError(convo.ErrNotFound))
		})

		It("rejects unknown ids", func() {
			Expect(store.Delete(ctx, "nope")).To(MatchError(convo.ErrNotFound))
		})
	})
})
