package domain

import "strings"

// EmbeddingDimensions is the vector size produced by the embedding model
// (text-embedding-3-small). The vector index must be created with the
// same dimension.
const EmbeddingDimensions = 1536

// Corpus identifies one researcher's ingested document set.
// A corpus is created the first time ingestion runs for a name and is
// never mutated afterwards; re-ingestion of a known corpus is a no-op.
type Corpus struct {
	// Name is the human-readable display name, e.g. "Ritwik Banerjee".
	Name string

	// IndexName is the normalised vector index identifier derived from
	// Name, e.g. "ritwik-banerjee". It is the corpus's stable identity.
	IndexName string
}

// NewCorpus builds a Corpus from a display name.
func NewCorpus(name string) Corpus {
	return Corpus{
		Name:      strings.TrimSpace(name),
		IndexName: NameToIndexName(name),
	}
}

// NameToIndexName normalises a display name into a vector index identifier:
// lowercase with spaces replaced by hyphens.
func NameToIndexName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// NameToPathName normalises a display name into a filesystem directory name:
// lowercase with spaces replaced by underscores.
func NameToPathName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// PathNameToName reverses NameToPathName for display purposes,
// title-casing each word: "ritwik_banerjee" -> "Ritwik Banerjee".
func PathNameToName(pathName string) string {
	return titleCase(strings.Split(pathName, "_"))
}

// IndexNameToName reverses NameToIndexName for display purposes,
// title-casing each word: "ritwik-banerjee" -> "Ritwik Banerjee".
func IndexNameToName(indexName string) string {
	return titleCase(strings.Split(indexName, "-"))
}

func titleCase(words []string) string {
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SourceDocument is one published document as supplied by the ingestion
// manifest. It is immutable once read.
type SourceDocument struct {
	// Title is the document title; chunk identity is derived from it,
	// so titles must be unique within a corpus.
	Title string

	// URL is the origin the document was acquired from.
	URL string

	// Text is the raw document body.
	Text string
}

// ManifestEntry describes one document in the ingestion manifest:
// the title and origin URL recorded for a document file.
type ManifestEntry struct {
	Title string
	URL   string
}

// Manifest maps a per-document file name to its title and origin URL.
// The document text itself lives in a file of that name alongside
// the manifest.
type Manifest map[string]ManifestEntry
