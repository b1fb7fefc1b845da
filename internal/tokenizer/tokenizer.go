// Package tokenizer counts tokens the way the embedding provider does.
// Chunk boundaries and cost estimates are both derived from these
// counts, so they must use the provider's own encoding.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultModel is the embedding model whose encoding is used for
// chunking and cost estimation.
const DefaultModel = "text-embedding-3-small"

// Tokenizer wraps a tiktoken encoding for one model.
type Tokenizer struct {
	model    string
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer for the given model. An empty model selects
// DefaultModel.
func New(model string) (*Tokenizer, error) {
	if model == "" {
		model = DefaultModel
	}

	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: encoding for model %q: %w", model, err)
	}

	return &Tokenizer{model: model, encoding: encoding}, nil
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// CountAll returns the total token count across all texts.
func (t *Tokenizer) CountAll(texts []string) int {
	total := 0
	for _, text := range texts {
		total += t.Count(text)
	}
	return total
}

// ModelName returns the model the encoding belongs to.
func (t *Tokenizer) ModelName() string {
	return t.model
}
