package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driven"
	"github.com/curio-labs/curio-cli/internal/core/ports/driving"
	"github.com/curio-labs/curio-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Stop sequences for answer generation.
var answerStopWords = []string{"</s>"}

// AnswerService generates grounded answers from retrieved context.
// Role behaviour comes from the domain role table: one generator,
// parameterised by RoleConfig, instead of a generator type per role.
type AnswerService struct {
	knowledge driving.KnowledgeService
	llm       driven.LLMService

	maxTokens   int
	temperature float64
}

// NewAnswerService creates an answer service. The llm may be nil;
// Answer then fails with ErrLLMUnavailable while retrieval keeps
// working through the knowledge service directly.
func NewAnswerService(
	knowledge driving.KnowledgeService, llm driven.LLMService,
	maxTokens int, temperature float64,
) *AnswerService {
	return &AnswerService{
		knowledge:   knowledge,
		llm:         llm,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Answer retrieves context for query and generates a role-flavoured
// answer grounded in it.
func (s *AnswerService) Answer(
	ctx context.Context, query, role string, topK int,
) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if s.knowledge == nil {
		return nil, domain.ErrNotReady
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	roleCfg, err := domain.LookupRole(role)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, role)
	}

	results, err := s.knowledge.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	// Role-relevant context first; the model weights earlier context
	// more heavily.
	results = roleCfg.Prioritise(results)

	logger.Section("Answer Generation")
	logger.Debug("Role: %s, context chunks: %d", roleCfg.Name, len(results))
	defer logger.Timing("answer generation", time.Now())

	prompt := buildPrompt(roleCfg, query, results)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		StopWords:   answerStopWords,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	return &domain.Answer{
		Query:   query,
		Text:    strings.TrimSpace(text),
		Context: results,
	}, nil
}

// buildPrompt assembles system prompt, formatted context and the
// (optionally role-framed) question into one completion prompt.
func buildPrompt(roleCfg domain.RoleConfig, query string, results []domain.SearchResult) string {
	framed := query
	if roleCfg.QueryPrefix != "" &&
		!strings.HasPrefix(strings.ToLower(query), strings.ToLower(string(roleCfg.Name))) {
		framed = roleCfg.QueryPrefix + query
	}

	var b strings.Builder
	b.WriteString(roleCfg.SystemPrompt)
	b.WriteString("\n\nBased on the following information, answer the question:\n\nContext:\n")
	b.WriteString(formatContext(roleCfg, results))
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(framed)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// formatContext renders retrieved chunks as "[source]\ntext" blocks.
func formatContext(roleCfg domain.RoleConfig, results []domain.SearchResult) string {
	if len(results) == 0 {
		return roleCfg.EmptyContextNote
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		source, _ := r.Metadata["source"].(string)
		if source == "" {
			source = fmt.Sprintf("Document %d", i+1)
		}
		parts = append(parts, fmt.Sprintf("[%s]\n%s", source, r.Text))
	}
	return strings.Join(parts, "\n\n")
}
