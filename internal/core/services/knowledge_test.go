package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curio-labs/curio-cli/internal/adapters/driven/storage/memory"
	"github.com/curio-labs/curio-cli/internal/adapters/driven/storage/sqlite"
	"github.com/curio-labs/curio-cli/internal/chunker"
	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driven"
	"github.com/curio-labs/curio-cli/internal/index/flat"
)

// fakeEmbedder is a deterministic bag-of-words embedder. Each dimension
// counts occurrences of one vocabulary word, so texts sharing words with
// the query score higher under cosine similarity.
type fakeEmbedder struct {
	vocab      []string
	failSubstr string
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		vocab: []string{"cat", "dog", "bird", "fish", "sun", "moon", "mat", "park"},
	}
}

func (f *fakeEmbedder) embed(text string) []float32 {
	lower := strings.ToLower(text)
	vec := make([]float32, len(f.vocab))
	for i, word := range f.vocab {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.failSubstr != "" && strings.Contains(text, f.failSubstr) {
		return nil, errors.New("embedding backend down")
	}
	return f.embed(text), nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int   { return len(f.vocab) }
func (f *fakeEmbedder) ModelName() string { return "fake-bow" }

func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

func newTestService(t *testing.T, embedder *fakeEmbedder) *KnowledgeService {
	t.Helper()
	// A typed-nil *fakeEmbedder would not compare equal to nil through
	// the interface, so only wrap it when a fake is actually supplied.
	var es driven.EmbeddingService
	if embedder != nil {
		es = embedder
	}
	return NewKnowledgeService(
		chunker.New(),
		es,
		flat.New(),
		memory.NewDocumentStore(),
		sqlite.NewSnapshotStore(),
	)
}

func TestKnowledgeService_AddTexts_AssignsSequentialIDs(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())
	ctx := context.Background()

	ids, err := svc.AddTexts(ctx, []string{"The cat sat on the mat.", "The dog ran in the park."}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-0", "doc-1"}, ids)

	more, err := svc.AddTexts(ctx, []string{"A bird flew by."}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-2"}, more)

	count, err := svc.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestKnowledgeService_AddTexts_EmptyInput(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())

	_, err := svc.AddTexts(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKnowledgeService_AddTexts_SkipsWhitespaceOnlyTexts(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())
	ctx := context.Background()

	ids, err := svc.AddTexts(ctx, []string{"  \n\t ", "The cat sat."}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-0"}, ids)

	ids, err = svc.AddTexts(ctx, []string{"   ", ""}, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	count, err := svc.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestKnowledgeService_AddTexts_TruncatesExtraMetadata(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())
	ctx := context.Background()

	metas := []map[string]any{
		{"source": "first"},
		{"source": "second"},
		{"source": "orphan"},
	}
	ids, err := svc.AddTexts(ctx, []string{"The cat sat.", "The dog ran."}, metas)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	results, err := svc.Search(ctx, "cat", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "first", results[0].Metadata["source"])
}

func TestKnowledgeService_AddTexts_PadsMissingMetadata(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())
	ctx := context.Background()

	_, err := svc.AddTexts(ctx,
		[]string{"The cat sat.", "The dog ran."},
		[]map[string]any{{"source": "first"}})
	require.NoError(t, err)

	results, err := svc.Search(ctx, "dog", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotNil(t, results[0].Metadata)
	assert.NotContains(t, results[0].Metadata, "source")
}

func TestKnowledgeService_AddTexts_NoEmbedder(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.AddTexts(context.Background(), []string{"The cat sat."}, nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestKnowledgeService_AddTexts_EmbeddingFailureLeavesStateUnchanged(t *testing.T) {
	embedder := newFakeEmbedder()
	svc := newTestService(t, embedder)
	ctx := context.Background()

	_, err := svc.AddTexts(ctx, []string{"The cat sat on the mat."}, nil)
	require.NoError(t, err)

	embedder.failSubstr = "poison"
	_, err = svc.AddTexts(ctx, []string{"The dog ran.", "poison text", "A bird flew."}, nil)
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	// The failed batch must not have touched the store or the index.
	count, err := svc.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := svc.Search(ctx, "dog", 5)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotContains(t, r.Text, "dog ran")
	}

	// The next successful ingestion continues the ID sequence from the
	// last applied batch.
	embedder.failSubstr = ""
	ids, err := svc.AddTexts(ctx, []string{"The dog ran."}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, ids)
}

func TestKnowledgeService_Search_EmptyKnowledgeBase(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())

	results, err := svc.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestKnowledgeService_Search_RanksByRelevance(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())
	ctx := context.Background()

	_, err := svc.AddTexts(ctx, []string{
		"The cat sat on the mat.",
		"The dog ran in the park.",
		"A bird flew over the moon.",
	}, nil)
	require.NoError(t, err)

	results, err := svc.Search(ctx, "Where is the cat?", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Text, "cat")
	assert.Equal(t, "doc-0", results[0].DocumentID)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestKnowledgeService_Search_TruncatesToTopK(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())
	ctx := context.Background()

	_, err := svc.AddTexts(ctx, []string{
		"The cat sat.",
		"The cat slept.",
		"The cat ate fish.",
		"The cat chased a bird.",
	}, nil)
	require.NoError(t, err)

	results, err := svc.Search(ctx, "cat", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestKnowledgeService_Search_DefaultTopK(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())
	ctx := context.Background()

	_, err := svc.AddTexts(ctx, []string{
		"The cat sat.", "The cat slept.", "The cat ate.",
		"The cat ran.", "The cat hid.",
	}, nil)
	require.NoError(t, err)

	results, err := svc.Search(ctx, "cat", 0)
	require.NoError(t, err)
	assert.Len(t, results, domain.DefaultTopK)
}

func TestKnowledgeService_SaveLoad_RoundTrip(t *testing.T) {
	embedder := newFakeEmbedder()
	svc := newTestService(t, embedder)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := svc.AddTexts(ctx, []string{
		"The cat sat on the mat.",
		"The dog ran in the park.",
	}, []map[string]any{{"source": "pets"}, {"source": "pets"}})
	require.NoError(t, err)

	before, err := svc.Search(ctx, "cat", 1)
	require.NoError(t, err)
	require.Len(t, before, 1)

	require.NoError(t, svc.Save(ctx, dir))

	restored := newTestService(t, embedder)
	require.NoError(t, restored.Load(ctx, dir))

	count, err := restored.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	after, err := restored.Search(ctx, "cat", 1)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].Text, after[0].Text)
	assert.Equal(t, before[0].ChunkID, after[0].ChunkID)
	assert.InDelta(t, before[0].Score, after[0].Score, 1e-4)
	assert.Equal(t, "pets", after[0].Metadata["source"])
}

func TestKnowledgeService_Load_ContinuesIDSequence(t *testing.T) {
	embedder := newFakeEmbedder()
	svc := newTestService(t, embedder)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := svc.AddTexts(ctx, []string{"The cat sat.", "The dog ran."}, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, dir))

	restored := newTestService(t, embedder)
	require.NoError(t, restored.Load(ctx, dir))

	ids, err := restored.AddTexts(ctx, []string{"A bird flew."}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-2"}, ids)
}

func TestKnowledgeService_Load_ReplacesExistingState(t *testing.T) {
	embedder := newFakeEmbedder()
	ctx := context.Background()
	dir := t.TempDir()

	saved := newTestService(t, embedder)
	_, err := saved.AddTexts(ctx, []string{"The cat sat."}, nil)
	require.NoError(t, err)
	require.NoError(t, saved.Save(ctx, dir))

	svc := newTestService(t, embedder)
	_, err = svc.AddTexts(ctx, []string{"The dog ran.", "A bird flew.", "The fish swam."}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Load(ctx, dir))

	count, err := svc.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := svc.Search(ctx, "dog", 5)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotContains(t, r.Text, "dog")
	}
}

func TestKnowledgeService_Load_MissingDirectory(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())

	err := svc.Load(context.Background(), "/nonexistent/curio/snapshot")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestKnowledgeService_Load_EmptyDirectory(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())
	ctx := context.Background()

	_, err := svc.AddTexts(ctx, []string{"The cat sat."}, nil)
	require.NoError(t, err)

	// A directory without a snapshot file loads as an empty knowledge base.
	require.NoError(t, svc.Load(ctx, t.TempDir()))

	count, err := svc.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestKnowledgeService_Clear(t *testing.T) {
	svc := newTestService(t, newFakeEmbedder())
	ctx := context.Background()

	_, err := svc.AddTexts(ctx, []string{"The cat sat.", "The dog ran."}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))

	count, err := svc.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	results, err := svc.Search(ctx, "cat", 3)
	require.NoError(t, err)
	assert.Empty(t, results)

	// IDs restart after a clear.
	ids, err := svc.AddTexts(ctx, []string{"A bird flew."}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-0"}, ids)
}

func TestKnowledgeService_NotReady(t *testing.T) {
	svc := NewKnowledgeService(nil, nil, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.AddTexts(ctx, []string{"text"}, nil)
	assert.ErrorIs(t, err, domain.ErrNotReady)

	_, err = svc.Search(ctx, "query", 3)
	assert.ErrorIs(t, err, domain.ErrNotReady)

	assert.ErrorIs(t, svc.Clear(ctx), domain.ErrNotReady)
	assert.ErrorIs(t, svc.Save(ctx, t.TempDir()), domain.ErrNotReady)
}
