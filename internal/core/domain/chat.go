package domain

import "fmt"

// Message roles accepted by the generation provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single role/content entry in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History is the ordered conversation supplied to the RAG pipeline.
// It excludes the system primer, which the generator adds itself.
type History []ChatMessage

// Validate checks the shape required by the pipeline: the history is
// non-empty and both its first and last entries are user-authored.
// Retrieval context is derived from the last entry, so anything else
// is a caller error.
func (h History) Validate() error {
	if len(h) == 0 {
		return fmt.Errorf("%w: history is empty", ErrInvalidHistory)
	}
	if h[0].Role != RoleUser {
		return fmt.Errorf("%w: first message has role %q, want %q", ErrInvalidHistory, h[0].Role, RoleUser)
	}
	if h[len(h)-1].Role != RoleUser {
		return fmt.Errorf("%w: last message has role %q, want %q", ErrInvalidHistory, h[len(h)-1].Role, RoleUser)
	}
	return nil
}

// LastUserMessage returns the content of the final entry.
// Callers must Validate first.
func (h History) LastUserMessage() string {
	if len(h) == 0 {
		return ""
	}
	return h[len(h)-1].Content
}

// RetrievedContext is one ranked excerpt returned for a query.
// It is ephemeral and never persisted.
type RetrievedContext struct {
	// Text is the stored chunk content.
	Text string

	// URL is the origin of the document the chunk came from.
	URL string

	// Score is the similarity score reported by the index, higher is closer.
	Score float64
}
