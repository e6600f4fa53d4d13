package cohere_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings/cohere"
)

func TestCohere(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cohere Suite")
}

var _ = Describe("Cohere", func() {
	var (
		server   *httptest.Server
		received struct {
			Texts     []string `json:"texts"`
			Model     string   `json:"model"`
			InputType string   `json:"input_type"`
		}
		respond func(w http.ResponseWriter)
	)

	BeforeEach(func() {
		respond = func(w http.ResponseWriter) {
			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0.1, 0.2}, {0.3, 0.4}},
			})
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/v1/embed"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer test-key"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			respond(w)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newClient := func() *cohere.Cohere {
		c, err := cohere.New(cohere.Config{Target: server.URL, APIKey: "test-key"})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("requires an API key", func() {
		_, err := cohere.New(cohere.Config{})
		Expect(err).To(HaveOccurred())
	})

	It("sends the model and input type for document embedding", func() {
		c := newClient()
		vectors, err := c.Embed(context.Background(), []string{"a", "b"}, embeddings.ModeDocument)
		Expect(err).NotTo(HaveOccurred())
		Expect(vectors).To(HaveLen(2))
		Expect(received.Model).To(Equal(cohere.DefaultModel))
		Expect(received.InputType).To(Equal("search_document"))
		Expect(received.Texts).To(Equal([]string{"a", "b"}))
	})

	It("sends the query input type for query embedding", func() {
		respond = func(w http.ResponseWriter) {
			json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{{0.5}}})
		}
		c := newClient()
		_, err := c.Embed(context.Background(), []string{"what is a gait?"}, embeddings.ModeQuery)
		Expect(err).NotTo(HaveOccurred())
		Expect(received.InputType).To(Equal("search_query"))
	})

	It("rejects an empty batch without calling the API", func() {
		c := newClient()
		_, err := c.Embed(context.Background(), nil, embeddings.ModeDocument)
		Expect(err).To(MatchError(embeddings.ErrNoInput))
	})

	It("surfaces API errors with the response message", func() {
		respond = func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{"message": "rate limited"})
		}
		c := newClient()
		_, err := c.Embed(context.Background(), []string{"x"}, embeddings.ModeDocument)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("rate limited"))
	})

	It("rejects a count mismatch", func() {
		respond = func(w http.ResponseWriter) {
			json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{{0.1}}})
		}
		c := newClient()
		_, err := c.Embed(context.Background(), []string{"a", "b"}, embeddings.ModeDocument)
		Expect(err).To(MatchError(embeddings.ErrBadResponse))
	})

	It("reports the default dimensions", func() {
		Expect(newClient().Dimensions()).To(Equal(uint(cohere.DefaultDimensions)))
	})
})
