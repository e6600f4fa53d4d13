// Package qdrant implements the vector.Driver interface over Qdrant's gRPC
// API.
package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/vector"
)

const defaultPort = 6334

// Qdrant talks to one collection on a Qdrant instance.
type Qdrant struct {
	client     *qdrant.Client
	collection string
	dimensions uint
}

// Config carries Qdrant connection settings. Target accepts host:port or a
// URL; an https scheme enables TLS.
type Config struct {
	Target     string
	APIKey     string
	Collection string
}

// New connects to Qdrant. The collection is not touched until
// EnsureCollection is called.
func New(cfg Config) (*Qdrant, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant: missing collection name")
	}

	host, port, useTLS, err := parseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: connecting to %s: %w", cfg.Target, err)
	}

	return &Qdrant{client: client, collection: cfg.Collection}, nil
}

// parseTarget accepts "host", "host:port", or "scheme://host:port".
func parseTarget(target string) (host string, port int, useTLS bool, err error) {
	if target == "" {
		return "localhost", defaultPort, false, nil
	}

	if strings.Contains(target, "://") {
		u, err := url.Parse(target)
		if err != nil {
			return "", 0, false, fmt.Errorf("qdrant: invalid target %q: %w", target, err)
		}
		host = u.Hostname()
		port = defaultPort
		if p := u.Port(); p != "" {
			port, err = strconv.Atoi(p)
			if err != nil {
				return "", 0, false, fmt.Errorf("qdrant: invalid port in %q: %w", target, err)
			}
		}
		return host, port, u.Scheme == "https", nil
	}

	host = target
	port = defaultPort
	if h, p, found := strings.Cut(target, ":"); found {
		host = h
		port, err = strconv.Atoi(p)
		if err != nil {
			return "", 0, false, fmt.Errorf("qdrant: invalid port in %q: %w", target, err)
		}
	}
	return host, port, false, nil
}

// EnsureCollection creates the cosine collection if missing.
func (q *Qdrant) EnsureCollection(ctx context.Context, dimensions uint) error {
	q.dimensions = dimensions

	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("qdrant: checking collection %s: %w", q.collection, err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: creating collection %s: %w", q.collection, err)
	}

	return nil
}

// Upsert writes the batch with wait=true so points are visible to search
// before the next batch starts.
func (q *Qdrant) Upsert(ctx context.Context, points []vector.Point) error {
	if len(points) == 0 {
		return nil
	}

	converted := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		if q.dimensions != 0 && uint(len(p.Vector)) != q.dimensions {
			return fmt.Errorf("%w: point %s has %d dimensions, collection has %d",
				vector.ErrDimensionMismatch, p.ID, len(p.Vector), q.dimensions)
		}
		converted[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(p.Payload),
		}
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         converted,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upserting %d points: %w", len(points), err)
	}

	return nil
}

// Search returns the nearest points with payloads attached.
func (q *Qdrant) Search(ctx context.Context, query []float32, limit int) ([]vector.ScoredPoint, error) {
	if limit <= 0 {
		return nil, nil
	}

	hits, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: searching %s: %w", q.collection, err)
	}

	results := make([]vector.ScoredPoint, 0, len(hits))
	for _, hit := range hits {
		results = append(results, vector.ScoredPoint{
			ID:      hit.GetId().GetUuid(),
			Score:   float64(hit.GetScore()),
			Payload: payloadToMap(hit.GetPayload()),
		})
	}

	return results, nil
}

// DeleteCollection drops the collection. A missing collection is tolerated so
// reindexing works on a fresh instance.
func (q *Qdrant) DeleteCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("qdrant: checking collection %s: %w", q.collection, err)
	}
	if !exists {
		return nil
	}

	if err := q.client.DeleteCollection(ctx, q.collection); err != nil {
		return fmt.Errorf("qdrant: deleting collection %s: %w", q.collection, err)
	}

	return nil
}

// Stats reports the collection's point count and status.
func (q *Qdrant) Stats(ctx context.Context) (vector.Stats, error) {
	info, err := q.client.GetCollectionInfo(ctx, q.collection)
	if err != nil {
		return vector.Stats{}, fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, q.collection)
	}

	return vector.Stats{
		Count:  info.GetPointsCount(),
		Status: strings.ToLower(info.GetStatus().String()),
	}, nil
}

// Healthy probes the instance and verifies the collection exists.
func (q *Qdrant) Healthy(ctx context.Context) error {
	if _, err := q.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %v", vector.ErrUnhealthy, err)
	}

	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("%w: checking collection %s: %v", vector.ErrUnhealthy, q.collection, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, q.collection)
	}

	return nil
}

// Close tears down the gRPC connection.
func (q *Qdrant) Close() error {
	return q.client.Close()
}

func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}

	out := make(map[string]any, len(payload))
	for key, value := range payload {
		out[key] = valueToAny(value)
	}
	return out
}

func valueToAny(value *qdrant.Value) any {
	switch v := value.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return v.StringValue
	case *qdrant.Value_IntegerValue:
		return v.IntegerValue
	case *qdrant.Value_DoubleValue:
		return v.DoubleValue
	case *qdrant.Value_BoolValue:
		return v.BoolValue
	case *qdrant.Value_ListValue:
		items := v.ListValue.GetValues()
		list := make([]any, len(items))
		for i, item := range items {
			list[i] = valueToAny(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return payloadToMap(v.StructValue.GetFields())
	default:
		return nil
	}
}
