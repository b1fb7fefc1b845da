package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
)

func seedIndex(t *testing.T) *Index {
	t.Helper()
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.EnsureIndex(ctx, "prof-x", 3, driven.MetricCosine))
	require.NoError(t, idx.Upsert(ctx, "prof-x", []driven.IndexEntry{
		{ID: "a", Vector: []float32{1, 0, 0}, Metadata: driven.IndexMetadata{Text: "along x"}},
		{ID: "b", Vector: []float32{0, 1, 0}, Metadata: driven.IndexMetadata{Text: "along y"}},
		{ID: "c", Vector: []float32{1, 1, 0}, Metadata: driven.IndexMetadata{Text: "diagonal"}},
	}))
	return idx
}

func TestIndex_Query_RanksBySimilarity(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Query(context.Background(), "prof-x", []float32{1, 0, 0}, 3)

	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "c", matches[1].ID)
	assert.Equal(t, "b", matches[2].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.InDelta(t, 0.0, matches[2].Score, 1e-6)
}

func TestIndex_Query_LimitsToK(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Query(context.Background(), "prof-x", []float32{1, 0, 0}, 1)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
}

func TestIndex_Query_UnknownIndex(t *testing.T) {
	idx := New()

	_, err := idx.Query(context.Background(), "missing", []float32{1}, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndex_Upsert_ReplacesByID(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "prof-x", []driven.IndexEntry{
		{ID: "a", Vector: []float32{0, 0, 1}, Metadata: driven.IndexMetadata{Text: "moved"}},
	}))

	matches, err := idx.Query(ctx, "prof-x", []float32{0, 0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "moved", matches[0].Metadata.Text)
}

func TestIndex_EnsureIndex_Idempotent(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.EnsureIndex(ctx, "prof-x", 3, driven.MetricCosine))

	matches, err := idx.Query(ctx, "prof-x", []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 3, "re-ensuring must not clear the index")
}

func TestIndex_DeleteIndex(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.DeleteIndex(ctx, "prof-x"))

	_, err := idx.Query(ctx, "prof-x", []float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = idx.DeleteIndex(ctx, "prof-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCosineSimilarity_EdgeCases(t *testing.T) {
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}), "length mismatch")
	assert.Zero(t, cosineSimilarity(nil, nil), "empty vectors")
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}), "zero vector")
}
