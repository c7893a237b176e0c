// Package memory provides the in-memory document store.
// It is the live representation of the knowledge base; durability
// comes from the SQLite snapshot adapter.
package memory

import (
	"context"
	"sync"

	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory, insertion-ordered implementation of
// driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents []domain.Document
	chunks    []domain.Chunk
	byChunkID map[string]int
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		byChunkID: make(map[string]int),
	}
}

// AppendDocument stores a document at the end of the collection.
func (s *DocumentStore) AppendDocument(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, doc)
	return nil
}

// AppendChunks stores chunks, preserving order.
func (s *DocumentStore) AppendChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.byChunkID[chunk.ID] = len(s.chunks)
		s.chunks = append(s.chunks, chunk)
	}
	return nil
}

// GetChunk retrieves a chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byChunkID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	chunk := s.chunks[i]
	return &chunk, nil
}

// Documents returns all documents in ingestion order.
func (s *DocumentStore) Documents(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Document, len(s.documents))
	copy(out, s.documents)
	return out, nil
}

// Chunks returns all chunks in ingestion order.
func (s *DocumentStore) Chunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}

// Count returns the number of documents.
func (s *DocumentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

// Replace swaps the entire contents for the given records.
func (s *DocumentStore) Replace(_ context.Context, docs []domain.Document, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make([]domain.Document, len(docs))
	copy(s.documents, docs)
	s.chunks = make([]domain.Chunk, len(chunks))
	copy(s.chunks, chunks)
	s.byChunkID = make(map[string]int, len(chunks))
	for i, chunk := range s.chunks {
		s.byChunkID[chunk.ID] = i
	}
	return nil
}

// Clear removes all documents and chunks.
func (s *DocumentStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = nil
	s.chunks = nil
	s.byChunkID = make(map[string]int)
	return nil
}
