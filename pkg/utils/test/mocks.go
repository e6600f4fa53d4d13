// Package test provides hand-rolled fakes for the interfaces the pipeline is
// built around. Suites configure behavior through the exported function
// fields and inspect the recorded calls.
package test

import (
	"context"
	"sync"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/embeddings"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
)

// MockEmbedder implements embeddings.Embedder. By default it returns a
// deterministic vector per text so similarity is stable across calls.
type MockEmbedder struct {
	mu sync.Mutex

	// EmbedFn overrides the default behavior when set.
	EmbedFn func(ctx context.Context, texts []string, mode embeddings.Mode) ([][]float32, error)

	// Width is the vector size produced by the default behavior.
	Width uint

	// Calls records every Embed invocation.
	Calls []EmbedCall
}

// EmbedCall is one recorded Embed invocation.
type EmbedCall struct {
	Texts []string
	Mode  embeddings.Mode
}

func (m *MockEmbedder) Embed(ctx context.Context, texts []string, mode embeddings.Mode) ([][]float32, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, EmbedCall{Texts: texts, Mode: mode})
	fn := m.EmbedFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, texts, mode)
	}

	width := m.Width
	if width == 0 {
		width = 4
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, width)
		for j := range vec {
			vec[j] = hashFloat(text, j)
		}
		out[i] = vec
	}
	return out, nil
}

func (m *MockEmbedder) Dimensions() uint {
	if m.Width == 0 {
		return 4
	}
	return m.Width
}

func (m *MockEmbedder) Close() error { return nil }

// hashFloat derives a stable pseudo-random component from the text.
func hashFloat(text string, index int) float32 {
	h := uint32(2166136261)
	for i := 0; i < len(text); i++ {
		h ^= uint32(text[i])
		h *= 16777619
	}
	h ^= uint32(index)
	h *= 16777619
	return float32(h%1000)/1000.0 + 0.001
}

// MockVectorDriver implements vector.Driver over a slice, recording every
// upsert batch.
type MockVectorDriver struct {
	mu sync.Mutex

	// SearchFn overrides Search when set.
	SearchFn func(ctx context.Context, query []float32, limit int) ([]vector.ScoredPoint, error)

	// UpsertErr, when set, is returned by every Upsert call.
	UpsertErr error

	// EnsureErr, when set, is returned by EnsureCollection.
	EnsureErr error

	// HealthyErr, when set, is returned by Healthy.
	HealthyErr error

	// StatsResult is returned by Stats.
	StatsResult vector.Stats

	Points     []vector.Point
	Batches    [][]vector.Point
	Ensured    []uint
	Deleted    int
	ClosedOnce bool
}

func (m *MockVectorDriver) EnsureCollection(_ context.Context, dimensions uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ensured = append(m.Ensured, dimensions)
	return m.EnsureErr
}

func (m *MockVectorDriver) Upsert(_ context.Context, points []vector.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	batch := make([]vector.Point, len(points))
	copy(batch, points)
	m.Batches = append(m.Batches, batch)
	m.Points = append(m.Points, batch...)
	return nil
}

func (m *MockVectorDriver) Search(ctx context.Context, query []float32, limit int) ([]vector.ScoredPoint, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockVectorDriver) DeleteCollection(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted++
	m.Points = nil
	m.Batches = nil
	return nil
}

func (m *MockVectorDriver) Stats(context.Context) (vector.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatsResult.Count == 0 && m.StatsResult.Status == "" {
		return vector.Stats{Count: uint64(len(m.Points)), Status: "green"}, nil
	}
	return m.StatsResult, nil
}

func (m *MockVectorDriver) Healthy(context.Context) error {
	return m.HealthyErr
}

func (m *MockVectorDriver) Close() error {
	m.ClosedOnce = true
	return nil
}

// MockGenerator implements generation.Generator with canned output.
type MockGenerator struct {
	mu sync.Mutex

	// Reply is the full response text. Streaming splits it into
	// word-sized deltas.
	Reply string

	// Err, when set, is returned by both Generate and Stream.
	Err error

	// Requests records every request seen.
	Requests []generation.Request
}

func (m *MockGenerator) Generate(_ context.Context, req generation.Request) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockGenerator) Stream(_ context.Context, req generation.Request, emit func(delta string) error) error {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	for i := 0; i < len(m.Reply); i += 8 {
		end := i + 8
		if end > len(m.Reply) {
			end = len(m.Reply)
		}
		if err := emit(m.Reply[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockGenerator) Close() error { return nil }
