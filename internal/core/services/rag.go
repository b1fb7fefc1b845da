package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
	"github.com/custodia-labs/paperchat/internal/core/ports/driving"
	"github.com/custodia-labs/paperchat/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.ChatService = (*RAGService)(nil)

// RAGService orchestrates the chat pipeline: validate the history,
// rewrite the question into a retrieval query, fetch context, and
// stream a grounded answer.
type RAGService struct {
	registry  driven.CorpusRegistry
	manifests driven.ManifestStore
	rewriter  *QueryRewriter
	retriever *Retriever
	generator *Generator
	topK      int
}

// RAGOption configures the RAG service.
type RAGOption func(*RAGService)

// WithTopK sets how many contexts are retrieved per question.
func WithTopK(k int) RAGOption {
	return func(s *RAGService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewRAGService creates a chat service over the given providers.
func NewRAGService(
	registry driven.CorpusRegistry,
	manifests driven.ManifestStore,
	llm driven.LLMService,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	opts ...RAGOption,
) *RAGService {
	s := &RAGService{
		registry:  registry,
		manifests: manifests,
		rewriter:  NewQueryRewriter(llm),
		retriever: NewRetriever(embedder, index),
		generator: NewGenerator(llm),
		topK:      DefaultTopK,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Chat answers the latest question in history against the named corpus
// and returns the generator's fragment stream unmodified. The caller
// owns the stream and must Close it.
func (s *RAGService) Chat(ctx context.Context, corpusName string, history domain.History) (driven.CompletionStream, error) {
	if err := history.Validate(); err != nil {
		return nil, err
	}

	corpus := domain.NewCorpus(corpusName)
	logger.Section("Chat")
	logger.Debug("corpus %q, history length %d", corpus.IndexName, len(history))

	ingested, err := s.registry.Contains(ctx, corpus.IndexName)
	if err != nil {
		return nil, fmt.Errorf("chat %s: checking registry: %w", corpus.IndexName, err)
	}
	if !ingested {
		return nil, fmt.Errorf("chat %s: %w", corpus.IndexName, domain.ErrCorpusNotFound)
	}

	question := history.LastUserMessage()

	query, err := s.rewriter.Rewrite(ctx, corpus, question, s.knownTitles(ctx, corpus))
	if err != nil || query == "" {
		// Rewriting improves recall but the raw question still works.
		logger.Warn("query rewrite unavailable, using raw question: %v", err)
		query = question
	}
	logger.Debug("retrieval query: %q", query)

	contexts, err := s.retriever.Retrieve(ctx, corpus, query, s.topK)
	if err != nil {
		return nil, fmt.Errorf("chat %s: %w", corpus.IndexName, err)
	}

	return s.generator.Generate(ctx, corpus, history, contexts, s.topK)
}

// ListCorpora returns the display names of all ingested corpora.
func (s *RAGService) ListCorpora(ctx context.Context) ([]string, error) {
	indexNames, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing corpora: %w", err)
	}

	names := make([]string, len(indexNames))
	for i, indexName := range indexNames {
		names[i] = domain.IndexNameToName(indexName)
	}
	sort.Strings(names)
	return names, nil
}

// knownTitles loads the corpus's document titles to scope the rewrite
// prompt. Best effort: a missing manifest just means no scoping.
func (s *RAGService) knownTitles(ctx context.Context, corpus domain.Corpus) []string {
	manifest, err := s.manifests.LoadManifest(ctx, corpus)
	if err != nil {
		logger.Debug("no manifest for %q, rewriting without titles: %v", corpus.IndexName, err)
		return nil
	}

	titles := make([]string, 0, len(manifest))
	for _, entry := range manifest {
		titles = append(titles, entry.Title)
	}
	sort.Strings(titles)
	return titles
}
