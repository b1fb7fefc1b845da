// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// IngestionService loads a corpus into the vector index exactly once;
// RAGService wires query rewriting, retrieval and answer generation.
package services
