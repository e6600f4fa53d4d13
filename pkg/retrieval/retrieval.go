// Package retrieval embeds a query and finds the most relevant indexed
// chunks.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/corpus"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
)

// RetrievedDocument is one chunk returned for a query, with its citation
// metadata and similarity score.
type RetrievedDocument struct {
	ID       string          `json:"id"`
	Content  string          `json:"content"`
	Metadata corpus.Metadata `json:"metadata"`
	Score    float64         `json:"score"`
}

// Retriever runs the query side of the pipeline: embed once, search once.
type Retriever struct {
	embedder embeddings.Embedder
	store    vector.Driver
}

// New creates a Retriever over the given embedder and store. Both must be
// configured against the same collection the indexer wrote.
func New(embedder embeddings.Embedder, store vector.Driver) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns up to topK chunks most similar to the query, best first.
// A blank query or non-positive topK short-circuits to an empty result
// without touching the embedder or the store.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]RetrievedDocument, error) {
	if strings.TrimSpace(query) == "" || topK <= 0 {
		return nil, nil
	}

	vectors, err := r.embedder.Embed(ctx, []string{query}, embeddings.ModeQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected one query vector, got %d", embeddings.ErrBadResponse, len(vectors))
	}

	hits, err := r.store.Search(ctx, vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("searching vector store: %w", err)
	}

	docs := make([]RetrievedDocument, 0, len(hits))
	for _, hit := range hits {
		meta := corpus.MetadataFromPayload(hit.Payload)
		docs = append(docs, RetrievedDocument{
			ID:       hit.ID,
			Content:  meta.Text,
			Metadata: meta,
			Score:    hit.Score,
		})
	}

	return docs, nil
}
