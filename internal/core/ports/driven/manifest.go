package driven

import (
	"context"

	"github.com/custodia-labs/paperchat/internal/core/domain"
)

// ManifestStore loads ingestion manifests and the document bodies they
// reference. The manifest format is the contract with the document
// acquisition pipeline, which is an external collaborator.
type ManifestStore interface {
	// LoadManifest reads the manifest for the named corpus.
	// A missing or malformed manifest surfaces as an error wrapping
	// domain.ErrManifestInvalid.
	LoadManifest(ctx context.Context, corpus domain.Corpus) (domain.Manifest, error)

	// LoadDocument reads the raw text of one manifest entry.
	LoadDocument(ctx context.Context, corpus domain.Corpus, fileName string, entry domain.ManifestEntry) (domain.SourceDocument, error)
}
