package driven

import "context"

// CorpusRegistry is the persisted set of corpus index names that have
// completed ingestion. It is the single piece of shared mutable state
// in the system, so mutation is limited to an atomic put-if-absent and
// an idempotent delete.
type CorpusRegistry interface {
	// Contains reports whether the corpus has already been ingested.
	Contains(ctx context.Context, indexName string) (bool, error)

	// PutIfAbsent records the corpus as ingested. Returns true if the
	// entry was inserted, false if it was already present. Atomic:
	// concurrent callers see exactly one true.
	PutIfAbsent(ctx context.Context, indexName string) (bool, error)

	// List returns all ingested corpus index names. Order is not
	// specified; callers sort for display.
	List(ctx context.Context) ([]string, error)

	// Delete removes the corpus from the registry. Deleting an absent
	// corpus is not an error.
	Delete(ctx context.Context, indexName string) error

	// Close releases resources.
	Close() error
}
