package domain

import "time"

// Metadata keys stamped onto every chunk during ingestion.
const (
	// MetaChunkIndex is the ordinal position of a chunk within its document.
	MetaChunkIndex = "chunk_index"

	// MetaChunkCount is the total number of chunks produced from the document.
	MetaChunkCount = "chunk_count"
)

// Document represents one ingested text with its metadata.
// Documents are immutable once stored; the only way to remove them
// is a wholesale Clear or Load of the knowledge store.
type Document struct {
	// ID is the unique identifier, assigned monotonically at ingestion
	// (doc-0, doc-1, ...).
	ID string

	// Text is the full text content as handed to ingestion.
	Text string

	// Metadata contains arbitrary key-value pairs supplied by the caller
	// (source filename, media type, etc).
	Metadata map[string]any

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk represents a searchable unit within a document.
// Documents are split into chunks for granular retrieval; the chunk is
// the unit of embedding.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Text is the text content of this chunk.
	Text string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata is the parent document's metadata plus chunk_index and
	// chunk_count.
	Metadata map[string]any
}

// SearchResult represents a single retrieval hit.
type SearchResult struct {
	// Text is the matched chunk's content.
	Text string

	// Metadata is the matched chunk's metadata.
	Metadata map[string]any

	// Score is the cosine similarity to the query.
	Score float64

	// ChunkID identifies the matched chunk.
	ChunkID string

	// DocumentID identifies the chunk's parent document.
	DocumentID string
}

// Answer is a generated response grounded in retrieved context.
type Answer struct {
	// Query is the original question.
	Query string

	// Text is the generated answer.
	Text string

	// Context holds the retrieval results the answer was grounded in,
	// in the order they were presented to the language model.
	Context []SearchResult
}

// CloneMetadata returns a shallow copy of a metadata map.
// A nil map clones to an empty, non-nil map so callers can always write
// chunk keys into the result without mutating the source.
func CloneMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}
