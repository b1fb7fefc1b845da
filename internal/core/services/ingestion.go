package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/paperchat/internal/chunker"
	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
	"github.com/custodia-labs/paperchat/internal/core/ports/driving"
	"github.com/custodia-labs/paperchat/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// DefaultPricePerToken is the embedding price used for cost estimates
// (text-embedding-3-small, USD 0.020 per million tokens).
const DefaultPricePerToken = 0.020 / 1_000_000

// TokenCounter reports token counts under the embedding model's
// encoding. Satisfied by the tokenizer package.
type TokenCounter interface {
	Count(text string) int
	CountAll(texts []string) int
}

// IngestionService runs the manifest -> chunks -> embeddings -> index
// pipeline for one corpus at a time.
type IngestionService struct {
	manifests driven.ManifestStore
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	registry  driven.CorpusRegistry
	splitter  *chunker.Splitter
	counter   TokenCounter

	pricePerToken float64

	// mu guards locks; each corpus gets its own mutex so ingestion for
	// a given corpus is at-most-one-in-flight while distinct corpora
	// proceed concurrently.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// IngestionOption configures the ingestion service.
type IngestionOption func(*IngestionService)

// WithPricePerToken overrides the embedding price used by EstimateCost.
func WithPricePerToken(price float64) IngestionOption {
	return func(s *IngestionService) {
		if price > 0 {
			s.pricePerToken = price
		}
	}
}

// NewIngestionService creates an ingestion service. The splitter and
// counter must share the same token encoding so chunk budgets and cost
// estimates agree.
func NewIngestionService(
	manifests driven.ManifestStore,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	registry driven.CorpusRegistry,
	splitter *chunker.Splitter,
	counter TokenCounter,
	opts ...IngestionOption,
) *IngestionService {
	s := &IngestionService{
		manifests:     manifests,
		embedder:      embedder,
		index:         index,
		registry:      registry,
		splitter:      splitter,
		counter:       counter,
		pricePerToken: DefaultPricePerToken,
		locks:         make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ingest runs the full pipeline for the named corpus. A corpus already
// in the registry is skipped without any provider calls. Any failure
// before the final registry write leaves the registry untouched, so a
// retry starts from scratch.
func (s *IngestionService) Ingest(ctx context.Context, name string) (driving.IngestResult, error) {
	corpus := domain.NewCorpus(name)
	result := driving.IngestResult{Corpus: corpus}

	// Serialise per corpus: check-then-act against the registry is not
	// atomic, and concurrent ingestion would double-embed.
	lock := s.corpusLock(corpus.IndexName)
	lock.Lock()
	defer lock.Unlock()

	ingested, err := s.registry.Contains(ctx, corpus.IndexName)
	if err != nil {
		return result, fmt.Errorf("ingest %s: checking registry: %w", corpus.IndexName, err)
	}
	if ingested {
		logger.Info("corpus %q already ingested, skipping", corpus.IndexName)
		result.Outcome = driving.OutcomeSkipped
		return result, nil
	}

	runID := uuid.New().String()[:8]
	logger.Section("Ingestion")
	logger.Info("[%s] ingesting corpus %q", runID, corpus.Name)

	chunks, err := s.collectChunks(ctx, corpus)
	if err != nil {
		return result, fmt.Errorf("ingest %s: %w", corpus.IndexName, err)
	}
	logger.Debug("[%s] %d chunks collected", runID, len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return result, fmt.Errorf("ingest %s: embedding: %w", corpus.IndexName, err)
	}
	if len(vectors) != len(chunks) {
		return result, fmt.Errorf("ingest %s: embedding: got %d vectors for %d chunks",
			corpus.IndexName, len(vectors), len(chunks))
	}

	entries := make([]driven.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = driven.IndexEntry{
			ID:     chunk.ID(),
			Vector: vectors[i],
			Metadata: driven.IndexMetadata{
				Text:   chunk.Text,
				URL:    chunk.URL,
				Corpus: corpus.IndexName,
			},
		}
	}

	if err := s.index.EnsureIndex(ctx, corpus.IndexName, s.embedder.Dimensions(), driven.MetricCosine); err != nil {
		return result, fmt.Errorf("ingest %s: %w", corpus.IndexName, err)
	}
	if err := s.index.Upsert(ctx, corpus.IndexName, entries); err != nil {
		return result, fmt.Errorf("ingest %s: upserting: %w", corpus.IndexName, err)
	}

	if _, err := s.registry.PutIfAbsent(ctx, corpus.IndexName); err != nil {
		return result, fmt.Errorf("ingest %s: recording corpus: %w", corpus.IndexName, err)
	}

	logger.Info("[%s] uploaded %d chunks to index %q", runID, len(entries), corpus.IndexName)
	result.Outcome = driving.OutcomePerformed
	result.ChunkCount = len(chunks)
	return result, nil
}

// EstimateCost projects the embedding spend for the named corpus without
// calling any provider.
func (s *IngestionService) EstimateCost(ctx context.Context, name string) (float64, error) {
	corpus := domain.NewCorpus(name)

	chunks, err := s.collectChunks(ctx, corpus)
	if err != nil {
		return 0, fmt.Errorf("estimate %s: %w", corpus.IndexName, err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	return float64(s.counter.CountAll(texts)) * s.pricePerToken, nil
}

// collectChunks loads every manifest document and splits it. Documents
// are processed in file-name order so chunk ordinals are deterministic.
// Duplicate titles abort the corpus: chunk identity is title-based, and
// a collision would silently overwrite index entries.
func (s *IngestionService) collectChunks(ctx context.Context, corpus domain.Corpus) ([]domain.Chunk, error) {
	manifest, err := s.manifests.LoadManifest(ctx, corpus)
	if err != nil {
		return nil, err
	}

	fileNames := make([]string, 0, len(manifest))
	for fileName := range manifest {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)

	seenTitles := make(map[string]string, len(fileNames))
	var chunks []domain.Chunk
	for _, fileName := range fileNames {
		entry := manifest[fileName]
		if prev, ok := seenTitles[entry.Title]; ok {
			return nil, fmt.Errorf("%w: %q in both %s and %s",
				domain.ErrDuplicateTitle, entry.Title, prev, fileName)
		}
		seenTitles[entry.Title] = fileName

		doc, err := s.manifests.LoadDocument(ctx, corpus, fileName, entry)
		if err != nil {
			return nil, err
		}

		for ordinal, span := range s.splitter.Split(doc.Text) {
			chunks = append(chunks, domain.Chunk{
				Corpus:        corpus.IndexName,
				DocumentTitle: doc.Title,
				Ordinal:       ordinal,
				Tokens:        s.counter.Count(span),
				Text:          span,
				URL:           doc.URL,
			})
		}
	}

	return chunks, nil
}

// corpusLock returns the mutex for one corpus, creating it on first use.
func (s *IngestionService) corpusLock(indexName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[indexName]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[indexName] = lock
	}
	return lock
}
