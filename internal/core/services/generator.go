package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
)

// Separators used to assemble the augmented prompt. The excerpt
// separator sits between retrieved contexts; the prompt separator sits
// between the context block and the user's question.
const (
	contextSeparator = "\n\n-----\n\n"
	promptSeparator  = "\n\n\n-----\n\n\n"
)

// Generator builds the augmented prompt and streams a grounded answer.
type Generator struct {
	llm driven.LLMService
}

// NewGenerator creates a generator backed by the given LLM.
func NewGenerator(llm driven.LLMService) *Generator {
	return &Generator{llm: llm}
}

// Generate replaces the history's last entry with the augmented prompt
// and invokes the model in streaming mode. The caller owns the returned
// stream; ceasing to consume and closing it releases the provider
// connection. An empty context list still produces an answer, with an
// empty excerpt block.
func (g *Generator) Generate(ctx context.Context, corpus domain.Corpus, history domain.History, contexts []domain.RetrievedContext, k int) (driven.CompletionStream, error) {
	primer := fmt.Sprintf(
		"You are a Q&A bot that answers questions specifically about %[1]s's published work. "+
			"If the user doesn't specify a person, you know they are referring to %[1]s. "+
			"Avoid naming other researchers unless it is relevant to the user's questions. "+
			"You will be given %[2]d excerpts from %[1]s's documents, but the user is not "+
			"providing them and cannot see them. If you don't know anything based on the "+
			"results, truthfully say \"I don't know\".", corpus.Name, k)

	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: primer})
	messages = append(messages, history...)

	// The retrieved excerpts ride inside the final user message; the
	// stored history keeps the original question.
	last := len(messages) - 1
	messages[last].Content = augmentPrompt(contexts, history.LastUserMessage())

	stream, err := g.llm.Stream(ctx, messages, driven.CompletionOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate for %s: %w", corpus.IndexName, err)
	}

	return stream, nil
}

// augmentPrompt renders each context as metadata-keyed text, joins them,
// and appends the original user content after the prompt separator.
func augmentPrompt(contexts []domain.RetrievedContext, userContent string) string {
	rendered := make([]string, len(contexts))
	for i, c := range contexts {
		rendered[i] = fmt.Sprintf("text:%s\n\nurl:%s", c.Text, c.URL)
	}

	return strings.Join(rendered, contextSeparator) + promptSeparator + userContent
}
