package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/api"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo/inmemory"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/ingest"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/prompt"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/rag"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/retrieval"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

type fakeRAG struct {
	answer    rag.Result
	err       error
	lastQuery rag.Query
	healthErr error
}

func (f *fakeRAG) Answer(_ context.Context, q rag.Query) (rag.Result, error) {
	f.lastQuery = q
	return f.answer, f.err
}

func (f *fakeRAG) AnswerStream(_ context.Context, q rag.Query, emit func(string) error) (rag.Result, error) {
	f.lastQuery = q
	if f.err != nil {
		return rag.Result{}, f.err
	}
	for _, delta := range []string{f.answer.Response[:len(f.answer.Response)/2], f.answer.Response[len(f.answer.Response)/2:]} {
		if err := emit(delta); err != nil {
			return rag.Result{}, err
		}
	}
	return f.answer, nil
}

func (f *fakeRAG) Health(context.Context) error {
	return f.healthErr
}

func (f *fakeRAG) CollectionStats(context.Context) (vector.Stats, error) {
	return vector.Stats{Count: 7, Status: "green"}, nil
}

type fakeSearcher struct {
	docs []retrieval.RetrievedDocument
	err  error
}

func (f *fakeSearcher) Retrieve(context.Context, string, int) ([]retrieval.RetrievedDocument, error) {
	return f.docs, f.err
}

type fakeIngester struct {
	report ingest.Report
	calls  int
}

func (f *fakeIngester) Reindex(context.Context) (ingest.Report, error) {
	f.calls++
	return f.report, nil
}

var _ = Describe("API", func() {
	var (
		server   *api.API
		ragSvc   *fakeRAG
		searcher *fakeSearcher
		ingester *fakeIngester
		convos   *inmemory.InMemory
	)

	BeforeEach(func() {
		ragSvc = &fakeRAG{
			answer: rag.Result{
				Response: "Robots walk by alternating stance and swing.",
				Sources: []prompt.Source{
					{Chapter: "Chapter 5", Section: "chapter-5", SourceURL: "/docs/my-book/chapter-5", Score: 0.9},
				},
				Context: "[Chapter 5 > chapter-5]\nGait content.",
			},
		}
		searcher = &fakeSearcher{}
		ingester = &fakeIngester{report: ingest.Report{DocumentsProcessed: 2, ChunksCreated: 10, ChunksIndexed: 10}}
		convos = inmemory.New()

		server = api.New(api.Config{ListenAddr: ":0", Token: "sekrit"}, api.Deps{
			RAG:           ragSvc,
			Search:        searcher,
			Ingest:        ingester,
			Conversations: convos,
			Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
	})

	request := func(method, path string, body any, token string) *http.Response {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("x-api-token", token)
		}
		resp, err := server.App().Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decode := func(resp *http.Response, out any) {
		defer resp.Body.Close()
		Expect(json.NewDecoder(resp.Body).Decode(out)).To(Succeed())
	}

	Describe("authentication", func() {
		It("rejects requests without the token", func() {
			resp := request(http.MethodPost, "/api/v1/chat/chat", api.ChatRequest{Message: "hi"}, "")
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("rejects requests with a wrong token", func() {
			resp := request(http.MethodPost, "/api/v1/chat/chat", api.ChatRequest{Message: "hi"}, "wrong")
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("exempts the health probes", func() {
			resp := request(http.MethodGet, "/api/v1/health", nil, "")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			resp = request(http.MethodGet, "/api/v1/chat/chat/health", nil, "")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})

	Describe("POST /api/v1/chat/chat", func() {
		It("returns the answer with sources and context", func() {
			resp := request(http.MethodPost, "/api/v1/chat/chat", api.ChatRequest{
				Message: "How do robots walk?",
				History: []api.ChatMessage{{Role: "user", Content: "earlier"}},
			}, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body api.ChatResponse
			decode(resp, &body)
			Expect(body.Response).To(Equal("Robots walk by alternating stance and swing."))
			Expect(body.Sources).To(HaveLen(1))
			Expect(body.Sources[0].Chapter).To(Equal("Chapter 5"))

			Expect(ragSvc.lastQuery.Text).To(Equal("How do robots walk?"))
			Expect(ragSvc.lastQuery.History).To(HaveLen(1))
		})

		It("maps an empty query to 400", func() {
			ragSvc.err = rag.ErrEmptyQuery
			resp := request(http.MethodPost, "/api/v1/chat/chat", api.ChatRequest{Message: ""}, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("maps pipeline failures to 500", func() {
			ragSvc.err = fmt.Errorf("vector store down")
			resp := request(http.MethodPost, "/api/v1/chat/chat", api.ChatRequest{Message: "q"}, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		})

		It("passes the selected text through", func() {
			request(http.MethodPost, "/api/v1/chat/chat", api.ChatRequest{
				Message:      "Explain",
				SelectedText: "The highlighted passage.",
			}, "sekrit")
			Expect(ragSvc.lastQuery.SelectedText).To(Equal("The highlighted passage."))
		})
	})

	Describe("POST /api/v1/chat/chat/stream", func() {
		It("streams the full response body", func() {
			resp := request(http.MethodPost, "/api/v1/chat/chat/stream", api.ChatRequest{Message: "How?"}, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal("Robots walk by alternating stance and swing."))
		})
	})

	Describe("conversation endpoints", func() {
		It("starts, lists, reads, and deletes a conversation", func() {
			resp := request(http.MethodPost, "/api/v1/chat/conversation/start", nil, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var started struct {
				ConversationID string `json:"conversation_id"`
			}
			decode(resp, &started)
			Expect(started.ConversationID).To(HaveLen(36))

			Expect(convos.Append(context.Background(), started.ConversationID, "user", "hi", "")).To(Succeed())

			resp = request(http.MethodGet, "/api/v1/chat/conversation/"+started.ConversationID+"/history", nil, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var history struct {
				ConversationID string `json:"conversation_id"`
				History        []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"history"`
			}
			decode(resp, &history)
			Expect(history.History).To(HaveLen(1))
			Expect(history.History[0].Content).To(Equal("hi"))

			resp = request(http.MethodGet, "/api/v1/chat/conversations", nil, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			resp = request(http.MethodDelete, "/api/v1/chat/conversation/"+started.ConversationID, nil, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			resp = request(http.MethodGet, "/api/v1/chat/conversation/"+started.ConversationID+"/history", nil, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("returns 404 for unknown conversations", func() {
			resp := request(http.MethodGet, "/api/v1/chat/conversation/nope/history", nil, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	Describe("content endpoints", func() {
		It("searches and reports the hit count", func() {
			searcher.docs = []retrieval.RetrievedDocument{{ID: "p1", Content: "Gait content.", Score: 0.8}}

			resp := request(http.MethodPost, "/api/v1/content/search", api.SearchRequest{Query: "gait", TopK: 3}, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				Count   int `json:"count"`
				Results []struct {
					ID string `json:"id"`
				} `json:"results"`
			}
			decode(resp, &body)
			Expect(body.Count).To(Equal(1))
			Expect(body.Results[0].ID).To(Equal("p1"))
		})

		It("triggers a reindex and returns the report", func() {
			resp := request(http.MethodPost, "/api/v1/content/reindex", nil, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(ingester.calls).To(Equal(1))

			var report ingest.Report
			decode(resp, &report)
			Expect(report.ChunksIndexed).To(Equal(10))
		})

		It("exposes collection stats", func() {
			resp := request(http.MethodGet, "/api/v1/content/stats", nil, "sekrit")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var stats struct {
				PointsCount uint64 `json:"points_count"`
				Status      string `json:"status"`
			}
			decode(resp, &stats)
			Expect(stats.PointsCount).To(Equal(uint64(7)))
			Expect(stats.Status).To(Equal("green"))
		})
	})

	Describe("unhealthy dependencies", func() {
		It("reports chat health as unavailable", func() {
			ragSvc.healthErr = vector.ErrUnhealthy
			resp := request(http.MethodGet, "/api/v1/chat/chat/health", nil, "")
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		})
	})
})
