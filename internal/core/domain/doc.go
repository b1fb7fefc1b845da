// Package domain defines the core business entities for Paperchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Corpus: One researcher's ingested document set
//   - SourceDocument: A published document supplied by the manifest
//   - Chunk: A token-bounded span of a document, the unit of retrieval
//   - ChatMessage / History: The conversation shape accepted by the RAG pipeline
//   - RetrievedContext: A ranked excerpt returned by retrieval
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
