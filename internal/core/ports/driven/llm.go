package driven

import (
	"context"

	"github.com/custodia-labs/paperchat/internal/core/domain"
)

// LLMService provides language model operations for query rewriting and
// answer generation.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini and friends)
//   - Any OpenAI-compatible inference server
type LLMService interface {
	// Complete conducts a multi-turn conversation and returns the full
	// completion in one piece. Used for query rewriting, where the
	// answer is a single short string.
	Complete(ctx context.Context, messages []domain.ChatMessage, opts CompletionOptions) (string, error)

	// Stream conducts a multi-turn conversation in streaming mode.
	// The returned stream delivers content fragments in provider order.
	// The caller owns the stream and must Close it; abandoning
	// iteration early releases the underlying connection.
	Stream(ctx context.Context, messages []domain.ChatMessage, opts CompletionOptions) (CompletionStream, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// CompletionOptions configures generation behaviour.
type CompletionOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// CompletionStream is a lazy, finite, non-restartable sequence of text
// fragments. Recv returns io.EOF after the final fragment. A provider
// failure mid-stream surfaces as an error wrapping
// domain.ErrGenerationFailed; fragments already returned stand.
type CompletionStream interface {
	// Recv blocks until the next fragment is available.
	Recv() (string, error)

	// Close releases the underlying connection. Safe to call multiple
	// times and after Recv returned io.EOF.
	Close() error
}
