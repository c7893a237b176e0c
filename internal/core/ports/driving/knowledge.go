package driving

import (
	"context"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

// KnowledgeService is the knowledge base's ingestion, retrieval and
// persistence surface.
type KnowledgeService interface {
	// AddTexts ingests texts with optional 1:1 metadata and returns the
	// newly assigned document IDs. Each call is atomic: on failure no
	// documents from that call are visible.
	AddTexts(ctx context.Context, texts []string, metadatas []map[string]any) ([]string, error)

	// Search returns up to topK chunks ranked by similarity to query.
	// An empty knowledge base returns an empty slice, not an error.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)

	// DocumentCount reports how many documents are stored.
	DocumentCount(ctx context.Context) (int, error)

	// Save snapshots the knowledge base into dir.
	Save(ctx context.Context, dir string) error

	// Load replaces the in-memory state with a snapshot from dir.
	Load(ctx context.Context, dir string) error

	// Clear removes every document and vector.
	Clear(ctx context.Context) error
}

// AnswerService generates grounded answers from retrieved context.
type AnswerService interface {
	// Answer retrieves context for query and generates a role-flavoured
	// answer from it.
	Answer(ctx context.Context, query, role string, topK int) (*domain.Answer, error)
}
