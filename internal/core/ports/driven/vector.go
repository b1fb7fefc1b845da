package driven

import "context"

// VectorIndex provides access to a named vector index per corpus.
// One index holds one corpus; index names are the corpus index names.
type VectorIndex interface {
	// EnsureIndex creates the index if absent and polls until the
	// provider reports it ready, bounded by the adapter's timeout.
	// Idempotent: an existing ready index returns immediately.
	// A timeout surfaces as an error wrapping domain.ErrIndexUnavailable.
	EnsureIndex(ctx context.Context, name string, dimensions int, metric string) error

	// Upsert writes entries into the named index. Entries are keyed by
	// ID; re-upserting an existing ID overwrites it (last-write-wins).
	Upsert(ctx context.Context, name string, entries []IndexEntry) error

	// Query returns up to k entries nearest to the vector, ordered by
	// descending similarity score. An empty result is valid.
	Query(ctx context.Context, name string, vector []float32, k int) ([]VectorMatch, error)

	// DeleteIndex removes the named index entirely. Administrative;
	// never called on the chat or ingest hot path.
	DeleteIndex(ctx context.Context, name string) error

	// Close releases resources.
	Close() error
}

// MetricCosine is the similarity metric used for all corpus indexes.
const MetricCosine = "cosine"

// IndexMetadata is the metadata persisted beside each vector.
type IndexMetadata struct {
	// Text is the chunk content, returned verbatim at query time.
	Text string `json:"text"`

	// URL is the origin of the chunk's document.
	URL string `json:"url"`

	// Corpus is the index name of the owning corpus.
	Corpus string `json:"corpus"`
}

// IndexEntry is the persisted unit inside a vector index.
type IndexEntry struct {
	// ID is the chunk id ("{title} [CHUNK {n}]").
	ID string

	// Vector is the chunk's embedding.
	Vector []float32

	// Metadata travels with the vector and comes back on query hits.
	Metadata IndexMetadata
}

// VectorMatch is a similarity search result.
type VectorMatch struct {
	// ID is the matched entry's id.
	ID string

	// Score is the similarity score (cosine, higher is closer).
	Score float64

	// Metadata is the entry's stored metadata.
	Metadata IndexMetadata
}
