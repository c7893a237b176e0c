package cli

import (
	"context"
	"fmt"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

// fakeKnowledgeService records calls and returns canned results.
type fakeKnowledgeService struct {
	results    []domain.SearchResult
	count      int
	err        error
	addedTexts []string
	addedMetas []map[string]any
	cleared    bool
	savedDir   string
	loadedDir  string
}

func (f *fakeKnowledgeService) AddTexts(_ context.Context, texts []string, metadatas []map[string]any) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.addedTexts = append(f.addedTexts, texts...)
	f.addedMetas = append(f.addedMetas, metadatas...)
	ids := make([]string, len(texts))
	for i := range ids {
		ids[i] = fmt.Sprintf("doc-%d", i)
	}
	return ids, nil
}

func (f *fakeKnowledgeService) Search(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeKnowledgeService) DocumentCount(_ context.Context) (int, error) {
	return f.count, f.err
}

func (f *fakeKnowledgeService) Save(_ context.Context, dir string) error {
	f.savedDir = dir
	return f.err
}

func (f *fakeKnowledgeService) Load(_ context.Context, dir string) error {
	f.loadedDir = dir
	return f.err
}

func (f *fakeKnowledgeService) Clear(_ context.Context) error {
	f.cleared = true
	return f.err
}

// fakeAnswerService returns a canned answer and records the last call.
type fakeAnswerService struct {
	answer   *domain.Answer
	err      error
	lastRole string
}

func (f *fakeAnswerService) Answer(_ context.Context, query, role string, _ int) (*domain.Answer, error) {
	f.lastRole = role
	if f.err != nil {
		return nil, f.err
	}
	out := *f.answer
	out.Query = query
	return &out, nil
}

// setupTestServices swaps in fresh fakes and returns a cleanup that
// restores the previous wiring.
func setupTestServices() (*fakeKnowledgeService, *fakeAnswerService, func()) {
	knowledge := &fakeKnowledgeService{
		results: []domain.SearchResult{
			{
				Text:       "The cat sat on the mat.",
				Score:      0.9123,
				ChunkID:    "doc-0-chunk-0",
				DocumentID: "doc-0",
				Metadata:   map[string]any{"source": "pets.txt"},
			},
		},
		count: 1,
	}
	answers := &fakeAnswerService{
		answer: &domain.Answer{
			Text: "The cat is on the mat.",
			Context: []domain.SearchResult{
				{Score: 0.9123, DocumentID: "doc-0", Metadata: map[string]any{"source": "pets.txt"}},
			},
		},
	}

	oldKnowledge := knowledgeService
	oldAnswers := answerService
	oldApp := application
	knowledgeService = knowledge
	answerService = answers
	application = nil

	return knowledge, answers, func() {
		knowledgeService = oldKnowledge
		answerService = oldAnswers
		application = oldApp
	}
}
