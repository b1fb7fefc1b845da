// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Converts text batches into fixed-dimension vectors
//   - LLMService: Non-streaming completion and streaming chat
//   - VectorIndex: Named vector index (create/ready-check, upsert, query, delete)
//   - CorpusRegistry: Persisted set of already-ingested corpora
//   - ManifestStore: Loads the ingestion manifest and document bodies
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
