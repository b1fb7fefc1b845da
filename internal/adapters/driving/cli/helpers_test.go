package cli

import (
	"context"
	"io"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
	"github.com/custodia-labs/paperchat/internal/core/ports/driving"
)

// fakeIngestionService implements driving.IngestionService.
type fakeIngestionService struct {
	result     driving.IngestResult
	cost       float64
	ingestErr  error
	costErr    error
	ingestRuns int
}

func (f *fakeIngestionService) Ingest(_ context.Context, name string) (driving.IngestResult, error) {
	f.ingestRuns++
	if f.ingestErr != nil {
		return driving.IngestResult{}, f.ingestErr
	}
	if f.result.Corpus.Name == "" {
		f.result.Corpus = domain.NewCorpus(name)
	}
	return f.result, nil
}

func (f *fakeIngestionService) EstimateCost(context.Context, string) (float64, error) {
	return f.cost, f.costErr
}

// fakeChatService implements driving.ChatService.
type fakeChatService struct {
	corpora   []string
	fragments []string
	chatErr   error
	listErr   error
}

func (f *fakeChatService) Chat(context.Context, string, domain.History) (driven.CompletionStream, error) {
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &fakeStream{fragments: f.fragments}, nil
}

func (f *fakeChatService) ListCorpora(context.Context) ([]string, error) {
	return f.corpora, f.listErr
}

type fakeStream struct {
	fragments []string
	pos       int
}

func (f *fakeStream) Recv() (string, error) {
	if f.pos >= len(f.fragments) {
		return "", io.EOF
	}
	fragment := f.fragments[f.pos]
	f.pos++
	return fragment, nil
}

func (f *fakeStream) Close() error { return nil }

// fakeVectorIndex implements driven.VectorIndex for the delete command.
type fakeVectorIndex struct {
	deleted   []string
	deleteErr error
}

func (f *fakeVectorIndex) EnsureIndex(context.Context, string, int, string) error { return nil }

func (f *fakeVectorIndex) Upsert(context.Context, string, []driven.IndexEntry) error { return nil }

func (f *fakeVectorIndex) Query(context.Context, string, []float32, int) ([]driven.VectorMatch, error) {
	return nil, nil
}

func (f *fakeVectorIndex) DeleteIndex(_ context.Context, name string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeVectorIndex) Close() error { return nil }

// fakeRegistry implements driven.CorpusRegistry for the delete command.
type fakeRegistry struct {
	removed []string
}

func (f *fakeRegistry) Contains(context.Context, string) (bool, error) { return false, nil }

func (f *fakeRegistry) PutIfAbsent(context.Context, string) (bool, error) { return true, nil }

func (f *fakeRegistry) List(context.Context) ([]string, error) { return nil, nil }

func (f *fakeRegistry) Delete(_ context.Context, indexName string) error {
	f.removed = append(f.removed, indexName)
	return nil
}

func (f *fakeRegistry) Close() error { return nil }

// setupTestServices injects fakes into the package-level services and
// returns a cleanup that restores the previous state.
func setupTestServices(ingest *fakeIngestionService, chat *fakeChatService, index *fakeVectorIndex, registry *fakeRegistry) func() {
	prevIngest, prevChat := ingestService, chatService
	prevIndex, prevRegistry := vectorIndex, corpusRegistry

	ingestService = ingest
	chatService = chat
	vectorIndex = index
	corpusRegistry = registry

	return func() {
		ingestService, chatService = prevIngest, prevChat
		vectorIndex, corpusRegistry = prevIndex, prevRegistry
	}
}
