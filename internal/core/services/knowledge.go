package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/curio-labs/curio-cli/internal/chunker"
	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driven"
	"github.com/curio-labs/curio-cli/internal/core/ports/driving"
	"github.com/curio-labs/curio-cli/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// KnowledgeService orchestrates the chunker, embedding service, vector
// index and document store behind one ingestion/retrieval surface.
//
// The document store and vector index together form one shared mutable
// state: AddTexts, Clear, Save and Load hold the write lock because
// Load and Clear replace state wholesale and AddTexts grows it, while
// Search holds the read lock. A reader can therefore never observe a
// half-updated index against a stale document list.
type KnowledgeService struct {
	mu sync.RWMutex

	chunker   *chunker.Chunker
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	docStore  driven.DocumentStore
	snapshots driven.SnapshotStore

	// nextDocSeq feeds the monotonically increasing document IDs.
	nextDocSeq int64
}

// NewKnowledgeService creates a knowledge service. The embedder may be
// nil; ingestion and search then fail with ErrEmbeddingUnavailable
// until one is configured.
func NewKnowledgeService(
	ck *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	snapshots driven.SnapshotStore,
) *KnowledgeService {
	return &KnowledgeService{
		chunker:   ck,
		embedder:  embedder,
		index:     index,
		docStore:  docStore,
		snapshots: snapshots,
	}
}

// ready reports whether the service has its required collaborators.
func (s *KnowledgeService) ready() error {
	if s.chunker == nil || s.index == nil || s.docStore == nil {
		return domain.ErrNotReady
	}
	return nil
}

// AddTexts ingests texts with optional metadata and returns the newly
// assigned document IDs.
//
// Metadata alignment is forgiving: a shorter metadata list is padded
// with empty maps, a longer one is truncated. Texts that chunk to
// nothing (empty or whitespace-only) yield no document.
//
// The call is atomic: chunking and embedding happen before the write
// lock is taken, and shared state mutates only after every chunk of
// every text has embedded successfully. A mid-batch embedding failure
// leaves the store exactly as it was.
func (s *KnowledgeService) AddTexts(
	ctx context.Context, texts []string, metadatas []map[string]any,
) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts provided", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	if len(metadatas) > len(texts) {
		logger.Warn("Metadata list longer than text list (%d > %d), truncating",
			len(metadatas), len(texts))
		metadatas = metadatas[:len(texts)]
	}

	// Stage everything outside the lock; embedding dominates the cost.
	type staged struct {
		doc    domain.Document
		chunks []domain.Chunk
	}

	s.mu.Lock()
	seq := s.nextDocSeq
	s.mu.Unlock()

	var plan []staged
	var chunkTexts []string
	now := time.Now().UTC()

	for i, text := range texts {
		var meta map[string]any
		if i < len(metadatas) {
			meta = metadatas[i]
		}
		doc := domain.Document{
			ID:        fmt.Sprintf("doc-%d", seq+int64(len(plan))),
			Text:      text,
			Metadata:  domain.CloneMetadata(meta),
			CreatedAt: now,
		}

		chunks := s.chunker.ChunkDocument(doc)
		if len(chunks) == 0 {
			if strings.TrimSpace(text) != "" {
				// Non-empty text must always produce at least one chunk.
				return nil, fmt.Errorf("%w: text %d produced no chunks", domain.ErrInvalidInput, i)
			}
			logger.Debug("Skipping empty text at position %d", i)
			continue
		}

		plan = append(plan, staged{doc: doc, chunks: chunks})
		for _, chunk := range chunks {
			chunkTexts = append(chunkTexts, chunk.Text)
		}
	}

	if len(plan) == 0 {
		logger.Warn("Ingestion call contained no usable texts")
		return []string{}, nil
	}

	logger.Section("Ingestion")
	logger.Debug("Staging %d documents, %d chunks", len(plan), len(chunkTexts))

	vectors, err := s.embedder.EmbedBatch(ctx, chunkTexts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(chunkTexts) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
			domain.ErrEmbeddingUnavailable, len(vectors), len(chunkTexts))
	}

	entries := make([]driven.VectorEntry, 0, len(chunkTexts))
	vi := 0
	for pi := range plan {
		for ci := range plan[pi].chunks {
			plan[pi].chunks[ci].Embedding = vectors[vi]
			entries = append(entries, driven.VectorEntry{
				ChunkID:   plan[pi].chunks[ci].ID,
				Embedding: vectors[vi],
			})
			vi++
		}
	}

	// All embeddings are in hand; apply the mutation atomically.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextDocSeq != seq {
		// A concurrent writer advanced the sequence while we embedded;
		// re-number the staged documents before applying.
		for pi := range plan {
			id := fmt.Sprintf("doc-%d", s.nextDocSeq+int64(pi))
			for ci := range plan[pi].chunks {
				plan[pi].chunks[ci].DocumentID = id
			}
			plan[pi].doc.ID = id
		}
	}

	if err := s.index.Insert(ctx, entries); err != nil {
		return nil, fmt.Errorf("inserting vectors: %w", err)
	}

	ids := make([]string, 0, len(plan))
	for _, st := range plan {
		if err := s.docStore.AppendDocument(ctx, st.doc); err != nil {
			return nil, fmt.Errorf("appending document: %w", err)
		}
		if err := s.docStore.AppendChunks(ctx, st.chunks); err != nil {
			return nil, fmt.Errorf("appending chunks: %w", err)
		}
		ids = append(ids, st.doc.ID)
	}
	s.nextDocSeq += int64(len(plan))

	logger.Info("Added %d documents (%d chunks)", len(ids), len(entries))
	return ids, nil
}

// Search returns up to topK chunks ranked by cosine similarity to the
// query. An empty knowledge base returns an empty slice; only a missing
// embedder or a backend failure is an error.
func (s *KnowledgeService) Search(
	ctx context.Context, query string, topK int,
) ([]domain.SearchResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index.Len() == 0 {
		logger.Debug("Search on empty knowledge base, returning no results")
		return []domain.SearchResult{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Search")
	logger.Debug("Query: %q, topK: %d", query, topK)
	defer logger.Timing("search", time.Now())

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	hits, err := s.index.Search(ctx, queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			return nil, fmt.Errorf("hydrating chunk %s: %w", hit.ChunkID, err)
		}
		results = append(results, domain.SearchResult{
			Text:       chunk.Text,
			Metadata:   chunk.Metadata,
			Score:      hit.Similarity,
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
		})
	}

	logger.Debug("Found %d results", len(results))
	return results, nil
}

// DocumentCount reports how many documents are stored.
func (s *KnowledgeService) DocumentCount(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docStore.Count(ctx)
}

// Save snapshots the document store and index into dir.
func (s *KnowledgeService) Save(ctx context.Context, dir string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.snapshots == nil {
		return domain.ErrNotReady
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.docStore.Documents(ctx)
	if err != nil {
		return fmt.Errorf("collecting documents: %w", err)
	}
	chunks, err := s.docStore.Chunks(ctx)
	if err != nil {
		return fmt.Errorf("collecting chunks: %w", err)
	}

	snap := &driven.Snapshot{
		Documents:  docs,
		Chunks:     chunks,
		NextDocSeq: s.nextDocSeq,
	}
	if s.embedder != nil {
		snap.EmbeddingModel = s.embedder.ModelName()
		snap.Dimensions = s.embedder.Dimensions()
	}

	if err := s.snapshots.Write(ctx, dir, snap); err != nil {
		return fmt.Errorf("saving snapshot to %s: %w", dir, err)
	}

	logger.Info("Saved %d documents (%d chunks) to %s", len(docs), len(chunks), dir)
	return nil
}

// Load replaces the in-memory state with a snapshot from dir. Vectors
// come from the snapshot, so nothing is re-embedded. On failure the
// in-memory state is left untouched.
func (s *KnowledgeService) Load(ctx context.Context, dir string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.snapshots == nil {
		return domain.ErrNotReady
	}

	snap, err := s.snapshots.Read(ctx, dir)
	if err != nil {
		return fmt.Errorf("loading snapshot from %s: %w", dir, err)
	}

	// Validate the stored vectors before touching in-memory state, so a
	// failed load leaves the store unchanged.
	entries := make([]driven.VectorEntry, 0, len(snap.Chunks))
	dim := 0
	for _, chunk := range snap.Chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrSnapshotCorrupt, chunk.ID)
		}
		if dim == 0 {
			dim = len(chunk.Embedding)
		} else if len(chunk.Embedding) != dim {
			return fmt.Errorf("%w: chunk %s embedding dimension %d, expected %d",
				domain.ErrSnapshotCorrupt, chunk.ID, len(chunk.Embedding), dim)
		}
		entries = append(entries, driven.VectorEntry{
			ChunkID:   chunk.ID,
			Embedding: chunk.Embedding,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Clear(ctx); err != nil {
		return fmt.Errorf("resetting index: %w", err)
	}
	if err := s.index.Insert(ctx, entries); err != nil {
		return fmt.Errorf("%w: rebuilding index: %v", domain.ErrSnapshotCorrupt, err)
	}
	if err := s.docStore.Replace(ctx, snap.Documents, snap.Chunks); err != nil {
		return fmt.Errorf("replacing documents: %w", err)
	}

	s.nextDocSeq = snap.NextDocSeq
	if s.nextDocSeq < int64(len(snap.Documents)) {
		s.nextDocSeq = int64(len(snap.Documents))
	}

	logger.Info("Loaded %d documents (%d chunks) from %s",
		len(snap.Documents), len(snap.Chunks), dir)
	return nil
}

// Clear removes every document and vector.
func (s *KnowledgeService) Clear(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Clear(ctx); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	if err := s.docStore.Clear(ctx); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	s.nextDocSeq = 0

	logger.Info("Knowledge base cleared")
	return nil
}
