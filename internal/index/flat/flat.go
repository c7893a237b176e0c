// Package flat provides an exact, brute-force cosine similarity index.
//
// At local knowledge-base scale a linear scan over normalised vectors
// is fast enough, and it sidesteps the recall differences an
// approximate index shows between batch-built and incrementally-grown
// graphs: inserts append, searches scan, and both paths behave
// identically regardless of index history. This is a deliberate
// trade-off of throughput at large corpus sizes for exactness and
// uniform behaviour.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is one stored vector, L2-normalised at insert.
type entry struct {
	chunkID string
	vector  []float32
}

// Index is an in-memory flat vector index.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   []entry
}

// New creates an empty flat index.
func New() *Index {
	return &Index{}
}

// Insert appends vectors to the index. The same code path serves the
// first insert and every later one; no rebuild ever happens.
func (x *Index) Insert(_ context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	for _, e := range entries {
		if len(e.Embedding) == 0 {
			return fmt.Errorf("%w: empty embedding for chunk %s", domain.ErrInvalidInput, e.ChunkID)
		}
		if x.dimension == 0 {
			x.dimension = len(e.Embedding)
		} else if len(e.Embedding) != x.dimension {
			return fmt.Errorf("%w: embedding dimension %d, index dimension %d",
				domain.ErrInvalidInput, len(e.Embedding), x.dimension)
		}
	}

	for _, e := range entries {
		x.entries = append(x.entries, entry{
			chunkID: e.ChunkID,
			vector:  normalise(e.Embedding),
		})
	}

	return nil
}

// Search returns the k nearest entries by cosine similarity, descending.
// Equal scores rank earlier-inserted entries first. An empty index
// returns an empty slice and no error.
func (x *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.entries) == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != x.dimension {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d",
			domain.ErrInvalidInput, len(query), x.dimension)
	}

	q := normalise(query)

	hits := make([]driven.VectorHit, len(x.entries))
	for i, e := range x.entries {
		hits[i] = driven.VectorHit{
			ChunkID:    e.chunkID,
			Similarity: dot(e.vector, q),
		}
	}

	// Stable sort keeps insertion order for tied scores.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Clear drops all vectors.
func (x *Index) Clear(_ context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.dimension = 0
	return nil
}

// Len returns the number of stored vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Dimension returns the vector size the index was built with, or zero
// when empty.
func (x *Index) Dimension() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dimension
}

// normalise returns an L2-normalised copy of v. A zero vector is
// returned as a zero copy, scoring zero against everything.
func normalise(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

// dot computes the inner product of two same-length vectors. Inputs
// are normalised, so this is the cosine similarity.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
