package driven

import "context"

// VectorIndex provides semantic similarity search over chunk vectors.
// One indexing strategy applies uniformly: inserting into an empty
// index and inserting into a populated one take the same path, so the
// index never needs a full rebuild on insert.
type VectorIndex interface {
	// Insert adds vectors for the given chunk IDs. Insertion order is
	// retained and used to break score ties deterministically.
	Insert(ctx context.Context, entries []VectorEntry) error

	// Search finds the k most similar vectors to the query, ordered by
	// descending cosine similarity. An empty index returns an empty
	// slice, not an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Clear drops all vectors; the index becomes empty.
	Clear(ctx context.Context) error

	// Len returns the number of stored vectors.
	Len() int
}

// VectorEntry pairs a chunk ID with its embedding for insertion.
type VectorEntry struct {
	// ChunkID is the chunk the vector was computed from.
	ChunkID string

	// Embedding is the chunk's vector representation.
	Embedding []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
