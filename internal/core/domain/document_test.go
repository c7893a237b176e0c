package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMetadata_Nil(t *testing.T) {
	out := CloneMetadata(nil)

	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestCloneMetadata_CopiesValues(t *testing.T) {
	src := map[string]any{"source": "a.txt", "pages": 3}

	out := CloneMetadata(src)

	assert.Equal(t, "a.txt", out["source"])
	assert.Equal(t, 3, out["pages"])
}

func TestCloneMetadata_DoesNotAliasSource(t *testing.T) {
	src := map[string]any{"source": "a.txt"}

	out := CloneMetadata(src)
	out[MetaChunkIndex] = 0
	out[MetaChunkCount] = 2

	assert.NotContains(t, src, MetaChunkIndex)
	assert.NotContains(t, src, MetaChunkCount)
}
