package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
)

// maxRewriteInputRunes bounds the user message sent to the rewrite
// prompt. Truncation is by rune count, so it is deterministic for a
// given input.
const maxRewriteInputRunes = 2000

// rewriteMaxTokens caps the rewritten query length; a vector-search
// query is a short statement, not an essay.
const rewriteMaxTokens = 100

// QueryRewriter turns the latest user message into a retrieval-optimised
// query string. Stateless; one non-streaming completion per call.
type QueryRewriter struct {
	llm driven.LLMService
}

// NewQueryRewriter creates a query rewriter backed by the given LLM.
func NewQueryRewriter(llm driven.LLMService) *QueryRewriter {
	return &QueryRewriter{llm: llm}
}

// Rewrite produces a concise vector-search query for the corpus from the
// last user message. knownTitles scope the rewrite to documents that
// actually exist in the corpus; an empty list is fine.
func (r *QueryRewriter) Rewrite(ctx context.Context, corpus domain.Corpus, lastUserMessage string, knownTitles []string) (string, error) {
	primer := fmt.Sprintf(
		"Your job is to turn the user's question into a concise query statement "+
			"for a vector database of excerpts from %s's published documents. "+
			"Return ONLY the query, nothing else.", corpus.Name)
	if len(knownTitles) > 0 {
		primer += "\n\nThe indexed documents are titled:\n- " + strings.Join(knownTitles, "\n- ")
	}

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: primer},
		{Role: domain.RoleUser, Content: truncateRunes(lastUserMessage, maxRewriteInputRunes)},
	}

	query, err := r.llm.Complete(ctx, messages, driven.CompletionOptions{MaxTokens: rewriteMaxTokens})
	if err != nil {
		return "", fmt.Errorf("rewrite query for %s: %w", corpus.IndexName, err)
	}

	return strings.TrimSpace(query), nil
}

// truncateRunes cuts text to at most n runes.
func truncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
