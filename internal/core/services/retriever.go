package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
	"github.com/custodia-labs/paperchat/internal/logger"
)

// DefaultTopK is the number of contexts fetched per query.
const DefaultTopK = 5

// Retriever embeds a query and fetches the top-k matching contexts from
// a corpus's vector index.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
}

// NewRetriever creates a retriever over the given embedder and index.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Retrieve returns up to k contexts ordered by descending score. An
// empty result is valid; the generator copes with no context.
func (r *Retriever) Retrieve(ctx context.Context, corpus domain.Corpus, query string, k int) ([]domain.RetrievedContext, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: embedding query: %w", corpus.IndexName, err)
	}

	matches, err := r.index.Query(ctx, corpus.IndexName, vector, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: querying index: %w", corpus.IndexName, err)
	}
	logger.Debug("retrieved %d contexts for corpus %q", len(matches), corpus.IndexName)

	contexts := make([]domain.RetrievedContext, len(matches))
	for i, match := range matches {
		contexts[i] = domain.RetrievedContext{
			Text:  match.Metadata.Text,
			URL:   match.Metadata.URL,
			Score: match.Score,
		}
	}

	// Providers return matches ranked already; keep the contract
	// regardless of the adapter.
	sort.SliceStable(contexts, func(i, j int) bool {
		return contexts[i].Score > contexts[j].Score
	})

	return contexts, nil
}
