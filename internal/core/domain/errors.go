package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as an
	// empty text list handed to ingestion.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotReady indicates the knowledge store has not been initialised.
	// Distinct from a legitimately empty store, which is not an error.
	ErrNotReady = errors.New("knowledge store not ready")

	// ErrEmbeddingUnavailable indicates the embedding backend is not
	// configured or unreachable. Ingestion and semantic search are
	// disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer generation is disabled; retrieval still works.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUnknownRole indicates an answer role name with no configuration.
	ErrUnknownRole = errors.New("unknown answer role")

	// Snapshot errors.

	// ErrSnapshotNotFound indicates the load target directory is absent.
	ErrSnapshotNotFound = errors.New("snapshot directory not found")

	// ErrSnapshotCorrupt indicates the snapshot exists but could not be
	// deserialised. Distinct from ErrSnapshotNotFound so callers can
	// react differently (re-ingest vs fix the path).
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)
