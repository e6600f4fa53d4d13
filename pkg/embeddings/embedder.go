// Package embeddings defines the embedding interface the indexing and
// retrieval paths share. Concrete providers live in subpackages.
package embeddings

import (
	"context"
	"errors"
)

// Mode selects the embedding variant. Asymmetric models embed documents and
// queries differently, so indexing must use ModeDocument and retrieval
// ModeQuery against the same model.
type Mode string

const (
	// ModeDocument embeds passages being indexed.
	ModeDocument Mode = "search_document"

	// ModeQuery embeds user queries at retrieval time.
	ModeQuery Mode = "search_query"
)

var (
	// ErrNoInput indicates an empty batch was submitted.
	ErrNoInput = errors.New("no input texts")

	// ErrBadResponse indicates the provider returned a malformed or
	// mismatched embedding response.
	ErrBadResponse = errors.New("bad embedding response")
)

// Embedder turns text into fixed-size vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error)

	// Dimensions reports the width of the vectors this embedder produces.
	Dimensions() uint

	// Close releases any held connections.
	Close() error
}
