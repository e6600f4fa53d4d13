// Package chunker splits document text into overlapping chunks sized for
// embedding. Splits happen at sentence boundaries so no chunk cuts a sentence
// in half; consecutive chunks share a character-window overlap so context is
// not lost at the seams.
package chunker

import "strings"

const (
	// DefaultMaxSize is the target chunk size in characters.
	DefaultMaxSize = 1000

	// DefaultOverlap is how many trailing characters of a chunk are carried
	// into the next one.
	DefaultOverlap = 100

	// DefaultMinLength drops fragments too short to be useful retrieval
	// targets. Chunks must be strictly longer than this to survive.
	DefaultMinLength = 50
)

// Chunker splits text into overlapping sentence-aligned chunks.
type Chunker struct {
	maxSize   int
	overlap   int
	minLength int
}

// Config carries chunking parameters. A zero or negative MaxSize falls back
// to the default; Overlap and MinLength may legitimately be zero, so only
// negative values fall back.
type Config struct {
	MaxSize   int
	Overlap   int
	MinLength int
}

// New creates a Chunker from cfg.
func New(cfg Config) *Chunker {
	c := &Chunker{
		maxSize:   cfg.MaxSize,
		overlap:   cfg.Overlap,
		minLength: cfg.MinLength,
	}
	if c.maxSize <= 0 {
		c.maxSize = DefaultMaxSize
	}
	if c.overlap < 0 {
		c.overlap = DefaultOverlap
	}
	if c.minLength < 0 {
		c.minLength = DefaultMinLength
	}
	return c
}

// Split breaks text into chunks. Sentences accumulate into the current chunk
// until adding the next one would push it past the max size; the chunk is then
// emitted and the next one starts with the previous chunk's trailing overlap
// characters plus the pending sentence. Chunks at or under the minimum length
// are discarded.
func (c *Chunker) Split(text string) []string {
	var chunks []string

	current := ""
	for _, sentence := range splitSentences(text) {
		if len(current)+len(sentence) > c.maxSize && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))

			if c.overlap > 0 {
				tail := current
				if len(tail) > c.overlap {
					tail = tail[len(tail)-c.overlap:]
				}
				current = tail + " " + sentence
			} else {
				current = sentence
			}
			continue
		}

		if current == "" {
			current = sentence
		} else {
			current += " " + sentence
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	kept := chunks[:0]
	for _, chunk := range chunks {
		if len(chunk) > c.minLength {
			kept = append(kept, chunk)
		}
	}

	return kept
}

// splitSentences splits text at whitespace runs that directly follow a
// sentence terminator. The terminator stays attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string

	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) {
			continue
		}
		j := i + 1
		if j >= len(text) || !isSpace(text[j]) {
			continue
		}

		sentences = append(sentences, text[start:j])
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}

	return sentences
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
