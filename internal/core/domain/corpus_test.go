package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewCorpus tests corpus construction from a display name
func TestNewCorpus(t *testing.T) {
	c := NewCorpus("Ritwik Banerjee")

	assert.Equal(t, "Ritwik Banerjee", c.Name)
	assert.Equal(t, "ritwik-banerjee", c.IndexName)
}

// TestNameToIndexName tests display name to index identifier normalisation
func TestNameToIndexName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Ritwik Banerjee", "ritwik-banerjee"},
		{"already lower", "ada lovelace", "ada-lovelace"},
		{"surrounding whitespace", "  Grace Hopper ", "grace-hopper"},
		{"single word", "Euler", "euler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NameToIndexName(tt.in))
		})
	}
}

// TestNameToPathName tests display name to directory name normalisation
func TestNameToPathName(t *testing.T) {
	assert.Equal(t, "ritwik_banerjee", NameToPathName("Ritwik Banerjee"))
	assert.Equal(t, "euler", NameToPathName("Euler"))
}

// TestPathNameToName tests directory name back to display name
func TestPathNameToName(t *testing.T) {
	assert.Equal(t, "Ritwik Banerjee", PathNameToName("ritwik_banerjee"))
	assert.Equal(t, "Euler", PathNameToName("euler"))
}

// TestIndexNameToName tests index identifier back to display name
func TestIndexNameToName(t *testing.T) {
	assert.Equal(t, "Ritwik Banerjee", IndexNameToName("ritwik-banerjee"))
	assert.Equal(t, "Euler", IndexNameToName("euler"))
}

// TestChunk_ID tests chunk identity formatting
func TestChunk_ID(t *testing.T) {
	chunk := Chunk{
		Corpus:        "ritwik-banerjee",
		DocumentTitle: "Title A",
		Ordinal:       0,
	}
	assert.Equal(t, "Title A [CHUNK 0]", chunk.ID())

	chunk.Ordinal = 2
	assert.Equal(t, "Title A [CHUNK 2]", chunk.ID())
}
