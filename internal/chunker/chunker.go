// Package chunker provides recursive token-bounded text splitting.
//
// Text is split on a priority list of separators (paragraph, line, word,
// character) until every span fits the token budget, with a fixed token
// overlap shared between adjacent spans. Splitting is deterministic and
// performs no I/O; token counts come from a caller-supplied length
// function so chunk boundaries match the embedding provider's encoding.
package chunker

import "strings"

// Defaults match the embedding pipeline configuration.
const (
	// DefaultMaxTokens is the default token budget per chunk.
	DefaultMaxTokens = 500

	// DefaultOverlapTokens is the default token overlap between
	// adjacent chunks.
	DefaultOverlapTokens = 20
)

// DefaultSeparators is the split priority: paragraphs first, then lines,
// then words, then single characters as a last resort.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// LengthFunc reports the token count of a piece of text.
type LengthFunc func(text string) int

// Splitter splits text into overlapping token-bounded spans.
type Splitter struct {
	maxTokens  int
	overlap    int
	separators []string
	length     LengthFunc
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxTokens sets the token budget per chunk.
func WithMaxTokens(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithOverlap sets the token overlap between adjacent chunks.
func WithOverlap(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.overlap = n
		}
	}
}

// WithSeparators replaces the split priority list.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// New creates a splitter using the given token length function.
func New(length LengthFunc, opts ...Option) *Splitter {
	s := &Splitter{
		maxTokens:  DefaultMaxTokens,
		overlap:    DefaultOverlapTokens,
		separators: DefaultSeparators,
		length:     length,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed the budget
	if s.overlap >= s.maxTokens {
		s.overlap = s.maxTokens / 4
	}

	return s
}

// Split breaks text into ordered spans, each within the token budget
// except spans consisting of a single indivisible unit (e.g. one word
// longer than the budget with no finer separator left).
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

// split recursively divides text on the highest-priority separator that
// actually occurs in it, then merges the pieces back up to the budget.
func (s *Splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	pieces := splitOn(text, separator)

	var spans []string
	var fitting []string
	for _, piece := range pieces {
		if s.length(piece) < s.maxTokens {
			fitting = append(fitting, piece)
			continue
		}

		// Flush accumulated pieces before descending into the
		// oversized one.
		if len(fitting) > 0 {
			spans = append(spans, s.merge(fitting, separator)...)
			fitting = nil
		}

		if len(remaining) == 0 {
			// Indivisible unit: emit as-is even over budget.
			spans = append(spans, piece)
		} else {
			spans = append(spans, s.split(piece, remaining)...)
		}
	}
	if len(fitting) > 0 {
		spans = append(spans, s.merge(fitting, separator)...)
	}

	return spans
}

// merge greedily packs pieces into spans up to the token budget, keeping
// the trailing pieces that fit within the overlap budget as the start of
// the next span.
func (s *Splitter) merge(pieces []string, separator string) []string {
	sepLen := s.length(separator)

	var spans []string
	var window []string
	total := 0

	for _, piece := range pieces {
		pieceLen := s.length(piece)

		if total+pieceLen+joinCost(sepLen, len(window)) > s.maxTokens && len(window) > 0 {
			if span := joinPieces(window, separator); span != "" {
				spans = append(spans, span)
			}

			// Slide the window: drop leading pieces until what
			// remains fits the overlap (and leaves room for the
			// incoming piece).
			for len(window) > 0 &&
				(total > s.overlap || total+pieceLen+joinCost(sepLen, len(window)) > s.maxTokens) {
				total -= s.length(window[0]) + joinCost(sepLen, len(window)-1)
				window = window[1:]
			}
		}

		total += pieceLen + joinCost(sepLen, len(window))
		window = append(window, piece)
	}

	if span := joinPieces(window, separator); span != "" {
		spans = append(spans, span)
	}

	return spans
}

// joinCost is the separator token cost of appending one more piece to a
// window that already holds n pieces.
func joinCost(sepLen, n int) int {
	if n > 0 {
		return sepLen
	}
	return 0
}

// joinPieces reassembles pieces with their separator, trimming edge
// whitespace.
func joinPieces(pieces []string, separator string) string {
	return strings.TrimSpace(strings.Join(pieces, separator))
}

// splitOn divides text by the separator, dropping empty pieces. The
// empty separator splits into individual characters.
func splitOn(text, separator string) []string {
	var raw []string
	if separator == "" {
		raw = strings.Split(text, "")
	} else {
		raw = strings.Split(text, separator)
	}

	pieces := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}
