// Package file provides a manifest store reading corpus documents from
// the local filesystem. Each corpus lives in its own directory holding
// a manifest file plus one plain-text file per document.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ManifestStore = (*Store)(nil)

// ManifestFileName is the per-corpus manifest: a JSON object mapping
// each document file name to a [title, url] pair.
const ManifestFileName = "successful_articles.json"

// Store reads corpora from a root directory. A corpus named "Prof X"
// lives under <root>/prof_x/.
type Store struct {
	root string
}

// NewStore creates a manifest store rooted at dir. If dir is empty,
// defaults to ~/.paperchat/corpora.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".paperchat", "corpora")
	}
	return &Store{root: dir}, nil
}

// corpusDir returns the directory holding the corpus's files.
func (s *Store) corpusDir(corpus domain.Corpus) string {
	return filepath.Join(s.root, domain.NameToPathName(corpus.Name))
}

// LoadManifest reads and validates the corpus manifest.
func (s *Store) LoadManifest(_ context.Context, corpus domain.Corpus) (domain.Manifest, error) {
	path := filepath.Join(s.corpusDir(corpus), ManifestFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: manifest %s not found", domain.ErrManifestInvalid, path)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	// Each entry is a [title, url] pair keyed by document file name.
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrManifestInvalid, path, err)
	}

	manifest := make(domain.Manifest, len(raw))
	for fileName, pair := range raw {
		if len(pair) < 2 {
			return nil, fmt.Errorf("%w: entry %q needs a title and a url", domain.ErrManifestInvalid, fileName)
		}
		if pair[0] == "" {
			return nil, fmt.Errorf("%w: entry %q has an empty title", domain.ErrManifestInvalid, fileName)
		}
		manifest[fileName] = domain.ManifestEntry{
			Title: pair[0],
			URL:   pair[1],
		}
	}

	if len(manifest) == 0 {
		return nil, fmt.Errorf("%w: manifest %s lists no documents", domain.ErrManifestInvalid, path)
	}

	return manifest, nil
}

// LoadDocument reads one document's text and pairs it with its manifest
// entry.
func (s *Store) LoadDocument(_ context.Context, corpus domain.Corpus, fileName string, entry domain.ManifestEntry) (domain.SourceDocument, error) {
	path := filepath.Join(s.corpusDir(corpus), fileName)

	text, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.SourceDocument{}, fmt.Errorf("%w: document %s listed in manifest but missing", domain.ErrManifestInvalid, fileName)
		}
		return domain.SourceDocument{}, fmt.Errorf("reading document %s: %w", path, err)
	}

	return domain.SourceDocument{
		Title: entry.Title,
		URL:   entry.URL,
		Text:  string(text),
	}, nil
}
