// Package chunker splits document text into overlapping,
// sentence-boundary-aware chunks for embedding and retrieval.
package chunker

import (
	"github.com/google/uuid"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

// DefaultSize is the default maximum chunk length in runes.
const DefaultSize = 500

// DefaultOverlap is the default number of overlapping runes.
const DefaultOverlap = 50

// lookback is how far back from a window end to scan for a sentence
// terminator before giving up and cutting mid-sentence.
const lookback = 50

// Chunker splits text into bounded windows that prefer to end on a
// sentence boundary.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the maximum chunk size in runes.
func WithSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:    DefaultSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay below size or the window walk cannot advance.
	if c.overlap >= c.size {
		c.overlap = c.size / 4
	}

	return c
}

// Size returns the configured maximum chunk size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured chunk overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split cuts text into chunks of at most the configured size, counted
// in runes so multi-byte text is never cut mid-character. A window
// short of the text end is trimmed back to the nearest sentence
// terminator within the lookback distance, so chunks avoid splitting
// mid-sentence when reasonably possible. Successive windows share the
// configured overlap; the final window ends exactly at the end of the
// text. Empty text produces no chunks.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		if cut := sentenceCut(runes, start, end); cut > start+c.overlap {
			// Only take the sentence cut when the next window still
			// advances past this one.
			end = cut
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end - c.overlap
	}

	return chunks
}

// ChunkDocument splits a document and wraps the pieces as chunks.
// Each chunk inherits the document metadata plus its ordinal position
// and the total chunk count.
func (c *Chunker) ChunkDocument(doc domain.Document) []domain.Chunk {
	parts := c.Split(doc.Text)
	if len(parts) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		meta := domain.CloneMetadata(doc.Metadata)
		meta[domain.MetaChunkIndex] = i
		meta[domain.MetaChunkCount] = len(parts)

		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Text:       part,
			Position:   i,
			Metadata:   meta,
		}
	}

	return chunks
}

// sentenceCut scans backward from end for the nearest sentence
// terminator and returns the cut position just after it, or end when
// none is found within the lookback distance.
func sentenceCut(runes []rune, start, end int) int {
	maxBack := lookback
	if window := end - start; window < maxBack {
		maxBack = window
	}
	for i := 0; i < maxBack; i++ {
		switch runes[end-i-1] {
		case '.', '!', '?', '\n', '。', '！', '？':
			return end - i
		}
	}
	return end
}
