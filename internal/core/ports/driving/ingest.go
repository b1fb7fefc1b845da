package driving

import (
	"context"

	"github.com/custodia-labs/paperchat/internal/core/domain"
)

// Outcome says what an ingestion call actually did.
type Outcome string

const (
	// OutcomePerformed means documents were chunked, embedded and
	// upserted, and the corpus was recorded in the registry.
	OutcomePerformed Outcome = "performed"

	// OutcomeSkipped means the corpus was already in the registry and
	// no provider calls were made.
	OutcomeSkipped Outcome = "skipped"
)

// IngestResult reports the outcome of one ingestion call.
type IngestResult struct {
	// Corpus is the corpus the call operated on.
	Corpus domain.Corpus

	// Outcome distinguishes "performed" from "skipped".
	Outcome Outcome

	// ChunkCount is the number of chunks embedded and upserted.
	// Zero when skipped.
	ChunkCount int
}

// IngestionService loads a corpus into the vector index exactly once.
type IngestionService interface {
	// Ingest runs the full pipeline for the named corpus: manifest ->
	// chunks -> embeddings -> index entries. Idempotent: a corpus
	// already in the registry returns OutcomeSkipped without touching
	// any provider. Concurrent calls for the same corpus are
	// serialised internally.
	Ingest(ctx context.Context, name string) (IngestResult, error)

	// EstimateCost returns the projected embedding spend in USD for
	// ingesting the named corpus, for pre-flight confirmation. It reads
	// the manifest and counts tokens but makes no provider calls.
	EstimateCost(ctx context.Context, name string) (float64, error)
}
