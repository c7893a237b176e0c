package driven

import (
	"context"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

// SnapshotStore serialises the knowledge base to a directory and back.
// A snapshot is sufficient to reconstruct both the document store and
// the vector index without re-embedding anything.
type SnapshotStore interface {
	// Write persists a snapshot into dir, creating it if absent.
	// A partially written snapshot must never be observable as
	// complete: writers stage to a temporary file and finalise with an
	// atomic rename.
	Write(ctx context.Context, dir string, snap *Snapshot) error

	// Read loads a snapshot from dir. An absent dir returns
	// domain.ErrSnapshotNotFound; a dir with no snapshot reads as an
	// empty snapshot; unreadable snapshot data returns
	// domain.ErrSnapshotCorrupt.
	Read(ctx context.Context, dir string) (*Snapshot, error)
}

// Snapshot is the on-disk representation of the knowledge base.
type Snapshot struct {
	// Documents holds every document in ingestion order.
	Documents []domain.Document

	// Chunks holds every chunk, embeddings included, in ingestion order.
	Chunks []domain.Chunk

	// NextDocSeq continues the monotonic document ID sequence after load.
	NextDocSeq int64

	// EmbeddingModel records which model produced the stored vectors.
	EmbeddingModel string

	// Dimensions is the stored vector size.
	Dimensions int
}
