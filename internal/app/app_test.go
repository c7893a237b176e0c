package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

func TestNew_DegradedWithoutProviders(t *testing.T) {
	a, err := New(Options{
		ConfigDir: t.TempDir(),
		DataDir:   t.TempDir(),
		SkipPing:  true,
	})
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.HasEmbedder())
	assert.False(t, a.HasLLM())
	assert.Empty(t, a.EmbeddingModel())

	// Retrieval-dependent operations surface the missing embedder.
	_, err = a.Knowledge.AddTexts(context.Background(), []string{"The cat sat."}, nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestNew_BuildsProvidersFromConfig(t *testing.T) {
	configDir := t.TempDir()

	a, err := New(Options{ConfigDir: configDir, DataDir: t.TempDir(), SkipPing: true})
	require.NoError(t, err)

	cfg := a.Config
	cfg.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
	}
	cfg.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3.2",
	}
	require.NoError(t, a.Configs.Save(cfg))
	a.Close()

	a, err = New(Options{ConfigDir: configDir, DataDir: t.TempDir(), SkipPing: true})
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.HasEmbedder())
	assert.True(t, a.HasLLM())
	assert.Equal(t, "nomic-embed-text", a.EmbeddingModel())
	assert.Equal(t, "llama3.2", a.LLMModel())
}

func TestApp_Restore_MissingSnapshotIsNotAnError(t *testing.T) {
	a, err := New(Options{
		ConfigDir: t.TempDir(),
		DataDir:   filepath.Join(t.TempDir(), "never-created"),
		SkipPing:  true,
	})
	require.NoError(t, err)
	defer a.Close()

	assert.NoError(t, a.Restore(context.Background()))

	count, err := a.Knowledge.DocumentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestApp_DataDirPrecedence(t *testing.T) {
	configDir := t.TempDir()
	override := t.TempDir()

	a, err := New(Options{ConfigDir: configDir, DataDir: override, SkipPing: true})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, override, a.DataDir())
}
