package driving

import (
	"context"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
)

// ChatService answers questions about a corpus using retrieval-augmented
// generation.
type ChatService interface {
	// Chat validates the history shape, rewrites the last user message
	// into a retrieval query, fetches top-k context from the corpus
	// index, and returns the generator's fragment stream unmodified.
	// The caller owns the stream and must Close it.
	Chat(ctx context.Context, corpusName string, history domain.History) (driven.CompletionStream, error)

	// ListCorpora returns the display names of all ingested corpora.
	ListCorpora(ctx context.Context) ([]string, error)
}
