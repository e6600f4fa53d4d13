// Package inmemory implements the vector.Driver interface with an in-process
// map and exact cosine search. It backs tests and local development where no
// Qdrant instance is running.
package inmemory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
)

// InMemory stores points in a map guarded by a mutex.
type InMemory struct {
	mu         sync.RWMutex
	points     map[string]vector.Point
	dimensions uint
	created    bool
}

// New creates an empty in-memory store.
func New() *InMemory {
	return &InMemory{points: make(map[string]vector.Point)}
}

// EnsureCollection marks the collection as created with the given width.
func (m *InMemory) EnsureCollection(_ context.Context, dimensions uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.created {
		m.created = true
		m.dimensions = dimensions
	}
	return nil
}

// Upsert stores the points, replacing any with matching ids.
func (m *InMemory) Upsert(_ context.Context, points []vector.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.created {
		return vector.ErrCollectionNotFound
	}

	for _, p := range points {
		if m.dimensions != 0 && uint(len(p.Vector)) != m.dimensions {
			return vector.ErrDimensionMismatch
		}
		m.points[p.ID] = p
	}
	return nil
}

// Search scans every point and returns the top matches by cosine similarity.
func (m *InMemory) Search(_ context.Context, query []float32, limit int) ([]vector.ScoredPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.created {
		return nil, vector.ErrCollectionNotFound
	}
	if limit <= 0 {
		return nil, nil
	}

	scored := make([]vector.ScoredPoint, 0, len(m.points))
	for _, p := range m.points {
		scored = append(scored, vector.ScoredPoint{
			ID:      p.ID,
			Score:   cosine(query, p.Vector),
			Payload: p.Payload,
		})
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// DeleteCollection drops all points. Deleting before creation is a no-op.
func (m *InMemory) DeleteCollection(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.points = make(map[string]vector.Point)
	m.created = false
	m.dimensions = 0
	return nil
}

// Stats reports the point count. An in-memory collection is always green.
func (m *InMemory) Stats(_ context.Context) (vector.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.created {
		return vector.Stats{}, vector.ErrCollectionNotFound
	}
	return vector.Stats{Count: uint64(len(m.points)), Status: "green"}, nil
}

// Healthy succeeds once the collection exists.
func (m *InMemory) Healthy(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.created {
		return vector.ErrCollectionNotFound
	}
	return nil
}

// Close is a no-op.
func (m *InMemory) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
