// Package vector defines the vector store interface shared by the indexing
// and retrieval paths. Concrete drivers live in subpackages.
package vector

import (
	"context"
	"errors"
)

var (
	// ErrCollectionNotFound indicates the named collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrDimensionMismatch indicates a vector's width does not match the
	// collection's configured size.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrUnhealthy indicates the store did not answer a health probe.
	ErrUnhealthy = errors.New("vector store unhealthy")
)

// Point is one embedded chunk ready for upsert.
type Point struct {
	// ID is a UUID string. Stores that restrict id formats rely on this.
	ID string

	// Vector is the embedding.
	Vector []float32

	// Payload carries the chunk text and citation metadata.
	Payload map[string]any
}

// ScoredPoint is a search hit.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// Stats summarizes a collection.
type Stats struct {
	// Count is the number of stored points.
	Count uint64

	// Status is the store's own health label for the collection.
	Status string
}

// Driver is a cosine-similarity vector store.
type Driver interface {
	// EnsureCollection creates the collection with the given vector width if
	// it does not already exist. Idempotent.
	EnsureCollection(ctx context.Context, dimensions uint) error

	// Upsert writes the points, overwriting any with matching ids. Callers
	// batch; drivers persist each call before returning.
	Upsert(ctx context.Context, points []Point) error

	// Search returns up to limit nearest points by cosine similarity,
	// best first.
	Search(ctx context.Context, query []float32, limit int) ([]ScoredPoint, error)

	// DeleteCollection drops the collection. Deleting a missing collection
	// is not an error.
	DeleteCollection(ctx context.Context) error

	// Stats reports the collection's point count and status.
	Stats(ctx context.Context) (Stats, error)

	// Healthy probes the underlying store and verifies the collection
	// exists. A reachable store without the collection is unhealthy.
	Healthy(ctx context.Context) error

	// Close releases held connections.
	Close() error
}
