package domain

import "fmt"

// Chunk is a token-bounded span of a source document, the unit of
// embedding and retrieval.
type Chunk struct {
	// Corpus is the index name of the corpus the chunk belongs to.
	Corpus string

	// DocumentTitle is the title of the originating document.
	DocumentTitle string

	// Ordinal is the chunk's position within its document, starting at 0.
	Ordinal int

	// Tokens is the token count of Text under the ingestion tokenizer.
	// It never exceeds the configured maximum except when the chunk is
	// a single indivisible unit.
	Tokens int

	// Text is the chunk content.
	Text string

	// URL is the origin URL of the document, carried into index metadata.
	URL string
}

// ID returns the chunk's identity within its corpus: the document title
// plus the ordinal, e.g. "Attention Is All You Need [CHUNK 2]".
// Two documents sharing a title would collide, which is why ingestion
// enforces title uniqueness per corpus.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s [CHUNK %d]", c.DocumentTitle, c.Ordinal)
}
