package corpus_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/corpus"
)

func TestCorpus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Corpus Suite")
}

var _ = Describe("Corpus", func() {
	Describe("StripFrontmatter", func() {
		It("removes a leading frontmatter block", func() {
			content := "---\ntitle: Chapter 1\nsidebar_position: 1\n---\n\n# Introduction\n\nBody text."
			Expect(corpus.StripFrontmatter(content)).To(Equal("# Introduction\n\nBody text."))
		})

		It("leaves content without frontmatter untouched", func() {
			Expect(corpus.StripFrontmatter("# Plain\n\nText.\n")).To(Equal("# Plain\n\nText."))
		})

		It("keeps an unterminated frontmatter block", func() {
			content := "---\ntitle: broken\nno closing delimiter"
			Expect(corpus.StripFrontmatter(content)).To(Equal(content))
		})
	})

	Describe("ExtractChapterInfo", func() {
		It("parses chapter number and section from the filename", func() {
			chapter, section := corpus.ExtractChapterInfo("my-website/docs/my-book/chapter-3.md")
			Expect(chapter).To(Equal("Chapter 3"))
			Expect(section).To(Equal("chapter-3"))
		})

		It("matches chapter markers case-insensitively", func() {
			chapter, _ := corpus.ExtractChapterInfo("docs/Chapter-12.md")
			Expect(chapter).To(Equal("Chapter 12"))
		})

		It("falls back to General for unmarked paths", func() {
			chapter, section := corpus.ExtractChapterInfo("docs/intro.md")
			Expect(chapter).To(Equal(corpus.GeneralChapter))
			Expect(section).To(Equal("intro"))
		})

		It("falls back to General when the marker has no number", func() {
			chapter, section := corpus.ExtractChapterInfo("docs/chapters-overview.md")
			Expect(chapter).To(Equal(corpus.GeneralChapter))
			Expect(section).To(Equal("chapters-overview"))
		})
	})

	Describe("Loader", func() {
		var tmpDir string

		BeforeEach(func() {
			var err error
			tmpDir, err = os.MkdirTemp("", "ragbot-corpus-*")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(os.RemoveAll(tmpDir)).To(Succeed())
		})

		write := func(name, content string) {
			Expect(os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600)).To(Succeed())
		}

		It("loads markdown files in lexical order with metadata", func() {
			write("chapter-1.md", "---\ntitle: One\n---\nChapter one body.")
			write("chapter-2.md", "Chapter two body.")
			write("intro.md", "Welcome to the book.")
			write("notes.txt", "not markdown")

			docs, loadErrs, err := corpus.NewLoader(tmpDir, "/docs/my-book").Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loadErrs).To(BeEmpty())
			Expect(docs).To(HaveLen(3))

			Expect(docs[0].Stem).To(Equal("chapter-1"))
			Expect(docs[0].Content).To(Equal("Chapter one body."))
			Expect(docs[0].Chapter).To(Equal("Chapter 1"))
			Expect(docs[0].Section).To(Equal("chapter-1"))
			Expect(docs[0].SourceURL).To(Equal("/docs/my-book/chapter-1"))

			Expect(docs[2].Stem).To(Equal("intro"))
			Expect(docs[2].Chapter).To(Equal(corpus.GeneralChapter))
			Expect(docs[2].SourceURL).To(Equal("/docs/my-book/intro"))
		})

		It("errors on a missing root", func() {
			_, _, err := corpus.NewLoader(filepath.Join(tmpDir, "nope"), "/docs/my-book").Load()
			Expect(err).To(HaveOccurred())
		})

		It("returns no documents for an empty directory", func() {
			docs, loadErrs, err := corpus.NewLoader(tmpDir, "/docs/my-book").Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loadErrs).To(BeEmpty())
			Expect(docs).To(BeEmpty())
		})

		It("skips files it cannot read and reports them", func() {
			write("chapter-1.md", "Chapter one body.")
			broken := filepath.Join(tmpDir, "broken.md")
			Expect(os.Symlink(filepath.Join(tmpDir, "missing.md"), broken)).To(Succeed())

			docs, loadErrs, err := corpus.NewLoader(tmpDir, "/docs/my-book").Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].Stem).To(Equal("chapter-1"))
			Expect(loadErrs).To(HaveLen(1))
			Expect(loadErrs[0].Error()).To(ContainSubstring("broken.md"))
		})
	})

	Describe("Metadata", func() {
		It("builds chunk metadata with the stable original id", func() {
			doc := corpus.Document{
				Path:      "docs/chapter-4.md",
				Stem:      "chapter-4",
				Chapter:   "Chapter 4",
				Section:   "chapter-4",
				SourceURL: "/docs/my-book/chapter-4",
			}

			m := corpus.ChunkMetadata(doc, 7, "Grasping requires force control.")
			Expect(m.OriginalID).To(Equal("chapter-4_chunk_7"))
			Expect(m.ChunkIndex).To(Equal(7))
			Expect(m.Text).To(Equal("Grasping requires force control."))
		})

		It("round-trips through a payload map", func() {
			m := corpus.Metadata{
				Text:       "Actuators convert current into torque.",
				Chapter:    "Chapter 2",
				Section:    "chapter-2",
				SourceURL:  "/docs/my-book/chapter-2",
				OriginPath: "docs/chapter-2.md",
				ChunkIndex: 3,
				OriginalID: "chapter-2_chunk_3",
			}

			Expect(corpus.MetadataFromPayload(m.Payload())).To(Equal(m))
		})

		It("tolerates float64 chunk indexes from JSON decoding", func() {
			payload := map[string]any{"chunk_index": float64(5), "chapter": "Chapter 1"}
			m := corpus.MetadataFromPayload(payload)
			Expect(m.ChunkIndex).To(Equal(5))
			Expect(m.Chapter).To(Equal("Chapter 1"))
		})
	})
})
