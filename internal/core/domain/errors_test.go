package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrNotReady,
		ErrEmbeddingUnavailable,
		ErrLLMUnavailable,
		ErrUnknownRole,
		ErrSnapshotNotFound,
		ErrSnapshotCorrupt,
	}

	for i, a := range errs {
		for j, b := range errs {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}

func TestDomainErrors_SurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load %q: %w", "/tmp/kb", ErrSnapshotCorrupt)

	assert.True(t, errors.Is(wrapped, ErrSnapshotCorrupt))
	assert.False(t, errors.Is(wrapped, ErrSnapshotNotFound))
}
