package driven

import (
	"context"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks in ingestion order.
// It is the source of truth for what documents exist; the vector index
// only holds chunk back-references. Every chunk in the index must have
// its source document here at rest.
type DocumentStore interface {
	// AppendDocument stores a document at the end of the collection.
	AppendDocument(ctx context.Context, doc domain.Document) error

	// AppendChunks stores chunks, preserving order.
	AppendChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a chunk by ID, or domain.ErrNotFound.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// Documents returns all documents in ingestion order.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Chunks returns all chunks in ingestion order.
	Chunks(ctx context.Context) ([]domain.Chunk, error)

	// Count returns the number of documents.
	Count(ctx context.Context) (int, error)

	// Replace swaps the entire contents for the given records.
	// Used by snapshot load, which is a wholesale replacement, not a merge.
	Replace(ctx context.Context, docs []domain.Document, chunks []domain.Chunk) error

	// Clear removes all documents and chunks.
	Clear(ctx context.Context) error
}
