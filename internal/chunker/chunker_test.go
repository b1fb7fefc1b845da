package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordLen counts whitespace-separated words, standing in for a real
// tokenizer in tests.
func wordLen(text string) int {
	return len(strings.Fields(text))
}

// words generates "w0 w1 ... wN-1".
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

// TestSplitter_TwelveHundredTokens tests the canonical ingestion shape:
// a ~1200 token document with a 500 token budget and 20 token overlap
// produces exactly three chunks.
func TestSplitter_TwelveHundredTokens(t *testing.T) {
	s := New(wordLen, WithMaxTokens(500), WithOverlap(20))

	chunks := s.Split(words(1200))

	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, wordLen(chunk), 500, "chunk %d over budget", i)
	}

	// Adjacent chunks share the 20-word overlap region.
	for i := 0; i < len(chunks)-1; i++ {
		prev := strings.Fields(chunks[i])
		tail := strings.Join(prev[len(prev)-20:], " ")
		assert.True(t, strings.HasPrefix(chunks[i+1], tail),
			"chunk %d should start with the tail of chunk %d", i+1, i)
	}
}

// TestSplitter_TokenBudget tests that every chunk respects max tokens
// across a range of configurations.
func TestSplitter_TokenBudget(t *testing.T) {
	tests := []struct {
		name      string
		maxTokens int
		overlap   int
		text      string
	}{
		{"plain words", 50, 5, words(400)},
		{"paragraphs", 40, 4, words(90) + "\n\n" + words(130) + "\n\n" + words(7)},
		{"lines", 30, 0, strings.Repeat(words(12)+"\n", 20)},
		{"tiny budget", 2, 0, words(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(wordLen, WithMaxTokens(tt.maxTokens), WithOverlap(tt.overlap))
			for i, chunk := range s.Split(tt.text) {
				assert.LessOrEqual(t, wordLen(chunk), tt.maxTokens, "chunk %d over budget", i)
			}
		})
	}
}

// TestSplitter_Deterministic tests that identical inputs produce
// identical output.
func TestSplitter_Deterministic(t *testing.T) {
	s := New(wordLen, WithMaxTokens(100), WithOverlap(10))
	text := words(250) + "\n\n" + words(180)

	first := s.Split(text)
	second := s.Split(text)

	assert.Equal(t, first, second)
}

// TestSplitter_PrefersParagraphBreaks tests that paragraph boundaries
// win over mid-paragraph splits when both fit.
func TestSplitter_PrefersParagraphBreaks(t *testing.T) {
	s := New(wordLen, WithMaxTokens(10), WithOverlap(0))

	text := "alpha beta gamma\n\ndelta epsilon zeta"
	chunks := s.Split(text)

	require.Len(t, chunks, 1)
	// Both paragraphs fit one budget, rejoined on the paragraph break.
	assert.Equal(t, text, chunks[0])

	s = New(wordLen, WithMaxTokens(4), WithOverlap(0))
	chunks = s.Split(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, "alpha beta gamma", chunks[0])
	assert.Equal(t, "delta epsilon zeta", chunks[1])
}

// TestSplitter_Reconstruction tests that with zero overlap the chunks
// reassemble into the original text (modulo whitespace).
func TestSplitter_Reconstruction(t *testing.T) {
	s := New(wordLen, WithMaxTokens(25), WithOverlap(0))
	original := words(173)

	chunks := s.Split(original)
	require.NotEmpty(t, chunks)

	assert.Equal(t, original, strings.Join(chunks, " "))
}

// TestSplitter_OverlapRemovalReconstructs tests that dropping each
// chunk's leading overlap region reassembles the original text.
func TestSplitter_OverlapRemovalReconstructs(t *testing.T) {
	const overlap = 7
	s := New(wordLen, WithMaxTokens(40), WithOverlap(overlap))
	original := words(300)

	chunks := s.Split(original)
	require.Greater(t, len(chunks), 1)

	rebuilt := strings.Fields(chunks[0])
	for _, chunk := range chunks[1:] {
		fields := strings.Fields(chunk)
		rebuilt = append(rebuilt, fields[overlap:]...)
	}

	assert.Equal(t, original, strings.Join(rebuilt, " "))
}

// TestSplitter_EmptyInput tests that blank text produces no chunks.
func TestSplitter_EmptyInput(t *testing.T) {
	s := New(wordLen)

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\n  "))
}

// TestSplitter_IndivisibleUnit tests that a single unit with no finer
// separator left may exceed the budget rather than being dropped.
func TestSplitter_IndivisibleUnit(t *testing.T) {
	// Character-level splitting disabled: words are atomic.
	runeLen := func(text string) int { return len([]rune(text)) }
	s := New(runeLen, WithMaxTokens(5), WithOverlap(0), WithSeparators([]string{" "}))

	chunks := s.Split("unsplittable")

	require.Len(t, chunks, 1)
	assert.Equal(t, "unsplittable", chunks[0])
	assert.Greater(t, runeLen(chunks[0]), 5)
}

// TestSplitter_CharacterFallback tests that the default separator list
// degrades to character splits for separator-free text.
func TestSplitter_CharacterFallback(t *testing.T) {
	runeLen := func(text string) int { return len([]rune(text)) }
	s := New(runeLen, WithMaxTokens(4), WithOverlap(0))

	chunks := s.Split("abcdefghij")

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, runeLen(chunk), 4)
	}
	assert.Equal(t, "abcdefghij", strings.Join(chunks, ""))
}

// TestSplitter_OverlapClamped tests that an overlap at or above the
// budget is clamped rather than looping forever.
func TestSplitter_OverlapClamped(t *testing.T) {
	s := New(wordLen, WithMaxTokens(10), WithOverlap(10))

	chunks := s.Split(words(50))
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, wordLen(chunk), 10)
	}
}
