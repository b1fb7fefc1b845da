package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Adapters and services
// wrap them with the corpus id and pipeline stage so callers can render
// a useful message.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorpusNotFound indicates a chat or retrieval request named a
	// corpus that was never ingested.
	ErrCorpusNotFound = errors.New("corpus not found")

	// ErrInvalidHistory indicates the chat history is malformed: empty,
	// or its first or last entry is not user-authored.
	ErrInvalidHistory = errors.New("invalid chat history")

	// ErrManifestInvalid indicates the ingestion manifest or one of the
	// documents it names is unreadable or malformed. Never retried.
	ErrManifestInvalid = errors.New("manifest invalid")

	// ErrDuplicateTitle indicates two documents in one corpus share a
	// title. Chunk identity is derived from the title, so ingestion
	// refuses the corpus rather than silently overwriting chunks.
	ErrDuplicateTitle = errors.New("duplicate document title")

	// ErrEmbeddingFailed indicates the embedding provider failed after
	// the retry budget was exhausted. No partial index state is
	// committed for the failed batch.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrIndexUnavailable indicates the vector index is missing or did
	// not report ready within the bounded polling window.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrGenerationFailed indicates the generation provider failed
	// before or during streaming. Fragments already delivered are not
	// retracted.
	ErrGenerationFailed = errors.New("generation failed")
)
