// Package memory provides an in-memory vector index for development
// and tests. Vectors are compared with cosine similarity.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index keeps every vector in memory, one map entry per index name.
type Index struct {
	mu      sync.RWMutex
	indexes map[string][]driven.IndexEntry
}

// New creates an empty in-memory vector index.
func New() *Index {
	return &Index{
		indexes: make(map[string][]driven.IndexEntry),
	}
}

// EnsureIndex creates the named index if missing. Dimensions and metric
// are accepted for interface compatibility but not enforced.
func (x *Index) EnsureIndex(_ context.Context, name string, _ int, _ string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.indexes[name]; !ok {
		x.indexes[name] = nil
	}
	return nil
}

// Upsert inserts entries, replacing any with a matching ID.
func (x *Index) Upsert(_ context.Context, name string, entries []driven.IndexEntry) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	existing, ok := x.indexes[name]
	if !ok {
		return fmt.Errorf("memory: index %s: %w", name, domain.ErrNotFound)
	}

	for _, entry := range entries {
		replaced := false
		for i := range existing {
			if existing[i].ID == entry.ID {
				existing[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, entry)
		}
	}
	x.indexes[name] = existing
	return nil
}

// Query returns the k entries most similar to the vector, descending.
func (x *Index) Query(_ context.Context, name string, vector []float32, k int) ([]driven.VectorMatch, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	entries, ok := x.indexes[name]
	if !ok {
		return nil, fmt.Errorf("memory: index %s: %w", name, domain.ErrNotFound)
	}

	matches := make([]driven.VectorMatch, 0, len(entries))
	for _, entry := range entries {
		matches = append(matches, driven.VectorMatch{
			ID:       entry.ID,
			Score:    cosineSimilarity(vector, entry.Vector),
			Metadata: entry.Metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// DeleteIndex removes the named index and its vectors.
func (x *Index) DeleteIndex(_ context.Context, name string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.indexes[name]; !ok {
		return fmt.Errorf("memory: index %s: %w", name, domain.ErrNotFound)
	}
	delete(x.indexes, name)
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
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
