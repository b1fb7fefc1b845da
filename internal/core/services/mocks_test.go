package services

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
)

// --- Mock implementations of the driven ports ---

// wordCounter stands in for the tiktoken-backed counter: one token per
// whitespace-separated word.
type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

func (wordCounter) CountAll(texts []string) int {
	total := 0
	for _, text := range texts {
		total += len(strings.Fields(text))
	}
	return total
}

// mockManifestStore implements driven.ManifestStore for testing.
type mockManifestStore struct {
	manifest    domain.Manifest
	docs        map[string]string // fileName -> text
	manifestErr error
	docErr      error
}

func (m *mockManifestStore) LoadManifest(_ context.Context, _ domain.Corpus) (domain.Manifest, error) {
	if m.manifestErr != nil {
		return nil, m.manifestErr
	}
	return m.manifest, nil
}

func (m *mockManifestStore) LoadDocument(_ context.Context, _ domain.Corpus, fileName string, entry domain.ManifestEntry) (domain.SourceDocument, error) {
	if m.docErr != nil {
		return domain.SourceDocument{}, m.docErr
	}
	return domain.SourceDocument{
		Title: entry.Title,
		URL:   entry.URL,
		Text:  m.docs[fileName],
	}, nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// It returns a constant vector per text and records every call.
type mockEmbeddingService struct {
	mu         sync.Mutex
	batchCalls int
	embedCalls int
	lastTexts  []string
	lastQuery  string
	embedErr   error
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	m.lastQuery = text
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	m.lastTexts = texts
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), 1, 0}
	}
	return vectors, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	mu          sync.Mutex
	ensured     []string
	upsertCalls int
	entries     map[string][]driven.IndexEntry // index name -> entries
	matches     []driven.VectorMatch
	ensureErr   error
	upsertErr   error
	queryErr    error
}

func (m *mockVectorIndex) EnsureIndex(_ context.Context, name string, _ int, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ensureErr != nil {
		return m.ensureErr
	}
	m.ensured = append(m.ensured, name)
	return nil
}

func (m *mockVectorIndex) Upsert(_ context.Context, name string, entries []driven.IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.entries == nil {
		m.entries = make(map[string][]driven.IndexEntry)
	}
	m.entries[name] = append(m.entries[name], entries...)
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ string, _ []float32, k int) ([]driven.VectorMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > len(m.matches) {
		return m.matches, nil
	}
	return m.matches[:k], nil
}

func (m *mockVectorIndex) DeleteIndex(_ context.Context, _ string) error { return nil }

func (m *mockVectorIndex) Close() error { return nil }

// mockRegistry implements driven.CorpusRegistry in memory.
type mockRegistry struct {
	mu          sync.Mutex
	ingested    []string
	containsErr error
	putErr      error
}

func (m *mockRegistry) Contains(_ context.Context, indexName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.containsErr != nil {
		return false, m.containsErr
	}
	for _, name := range m.ingested {
		if name == indexName {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRegistry) PutIfAbsent(_ context.Context, indexName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return false, m.putErr
	}
	for _, name := range m.ingested {
		if name == indexName {
			return false, nil
		}
	}
	m.ingested = append(m.ingested, indexName)
	return true, nil
}

func (m *mockRegistry) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ingested...), nil
}

func (m *mockRegistry) Delete(_ context.Context, indexName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, name := range m.ingested {
		if name == indexName {
			m.ingested = append(m.ingested[:i], m.ingested[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockRegistry) Close() error { return nil }

// mockStream implements driven.CompletionStream over canned fragments.
type mockStream struct {
	fragments []string
	pos       int
	closed    bool
}

func (m *mockStream) Recv() (string, error) {
	if m.pos >= len(m.fragments) {
		return "", io.EOF
	}
	fragment := m.fragments[m.pos]
	m.pos++
	return fragment, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

// mockLLMService implements driven.LLMService for testing. It records
// the messages of the last Complete and Stream calls.
type mockLLMService struct {
	completion     string
	completeErr    error
	fragments      []string
	streamErr      error
	completeMsgs   []domain.ChatMessage
	streamMsgs     []domain.ChatMessage
	lastStream     *mockStream
	completeCalled int
	streamCalled   int
}

func (m *mockLLMService) Complete(_ context.Context, messages []domain.ChatMessage, _ driven.CompletionOptions) (string, error) {
	m.completeCalled++
	m.completeMsgs = messages
	if m.completeErr != nil {
		return "", m.completeErr
	}
	return m.completion, nil
}

func (m *mockLLMService) Stream(_ context.Context, messages []domain.ChatMessage, _ driven.CompletionOptions) (driven.CompletionStream, error) {
	m.streamCalled++
	m.streamMsgs = messages
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	m.lastStream = &mockStream{fragments: m.fragments}
	return m.lastStream, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Close() error { return nil }

// drain consumes a stream to completion and returns the concatenation.
func drain(stream driven.CompletionStream) (string, error) {
	var sb strings.Builder
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(fragment)
	}
}
