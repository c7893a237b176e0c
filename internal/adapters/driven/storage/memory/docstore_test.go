package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()

	require.NotNil(t, store)
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDocumentStore_AppendDocument_PreservesOrder(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := store.AppendDocument(ctx, domain.Document{
			ID:   fmt.Sprintf("doc-%d", i),
			Text: fmt.Sprintf("text %d", i),
		})
		require.NoError(t, err)
	}

	docs, err := store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 5)
	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("doc-%d", i), doc.ID)
	}
}

func TestDocumentStore_GetChunk(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	err := store.AppendChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc-0", Text: "hello"},
		{ID: "c2", DocumentID: "doc-0", Text: "world"},
	})
	require.NoError(t, err)

	chunk, err := store.GetChunk(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "world", chunk.Text)

	_, err = store.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Replace(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.AppendDocument(ctx, domain.Document{ID: "old"}))
	require.NoError(t, store.AppendChunks(ctx, []domain.Chunk{{ID: "old-c"}}))

	err := store.Replace(ctx,
		[]domain.Document{{ID: "new-1"}, {ID: "new-2"}},
		[]domain.Chunk{{ID: "new-c", DocumentID: "new-1"}},
	)
	require.NoError(t, err)

	docs, err := store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new-1", docs[0].ID)

	_, err = store.GetChunk(ctx, "old-c")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunk, err := store.GetChunk(ctx, "new-c")
	require.NoError(t, err)
	assert.Equal(t, "new-1", chunk.DocumentID)
}

func TestDocumentStore_Clear(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.AppendDocument(ctx, domain.Document{ID: "doc-0"}))
	require.NoError(t, store.AppendChunks(ctx, []domain.Chunk{{ID: "c1"}}))

	require.NoError(t, store.Clear(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	chunks, err := store.Chunks(ctx)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_ReturnedSlicesAreCopies(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.AppendDocument(ctx, domain.Document{ID: "doc-0", Text: "original"}))

	docs, err := store.Documents(ctx)
	require.NoError(t, err)
	docs[0].Text = "mutated"

	again, err := store.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Text)
}

func TestDocumentStore_ConcurrentReaders(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, store.AppendDocument(ctx, domain.Document{ID: fmt.Sprintf("doc-%d", i)}))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := store.Documents(ctx)
				assert.NoError(t, err)
				_, err = store.Count(ctx)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
