package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driven"
)

// fakeLLM records the last prompt and returns a canned completion.
type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	f.lastPrompt = prompt
	f.lastOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string            { return "fake-llm" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

func newAnswerFixture(t *testing.T) (*AnswerService, *KnowledgeService, *fakeLLM) {
	t.Helper()
	knowledge := newTestService(t, newFakeEmbedder())
	llm := &fakeLLM{response: "  The cat sat on the mat.  "}
	return NewAnswerService(knowledge, llm, 500, 0.7), knowledge, llm
}

func TestAnswerService_Answer_GroundsInRetrievedContext(t *testing.T) {
	svc, knowledge, llm := newAnswerFixture(t)
	ctx := context.Background()

	_, err := knowledge.AddTexts(ctx, []string{
		"The cat sat on the mat.",
		"The dog ran in the park.",
	}, []map[string]any{{"source": "pets.txt"}, {"source": "pets.txt"}})
	require.NoError(t, err)

	answer, err := svc.Answer(ctx, "Where is the cat?", "", 2)
	require.NoError(t, err)

	assert.Equal(t, "Where is the cat?", answer.Query)
	assert.Equal(t, "The cat sat on the mat.", answer.Text)
	require.NotEmpty(t, answer.Context)
	assert.Contains(t, answer.Context[0].Text, "cat")

	assert.Contains(t, llm.lastPrompt, "You are Curio")
	assert.Contains(t, llm.lastPrompt, "[pets.txt]")
	assert.Contains(t, llm.lastPrompt, "The cat sat on the mat.")
	assert.Contains(t, llm.lastPrompt, "Where is the cat?")
	assert.Equal(t, 500, llm.lastOpts.MaxTokens)
	assert.InDelta(t, 0.7, llm.lastOpts.Temperature, 1e-9)
}

func TestAnswerService_Answer_EmptyQuery(t *testing.T) {
	svc, _, _ := newAnswerFixture(t)

	_, err := svc.Answer(context.Background(), "   ", "", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswerService_Answer_UnknownRole(t *testing.T) {
	svc, _, _ := newAnswerFixture(t)

	_, err := svc.Answer(context.Background(), "hello", "pirate", 3)
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestAnswerService_Answer_NoLLM(t *testing.T) {
	knowledge := newTestService(t, newFakeEmbedder())
	svc := NewAnswerService(knowledge, nil, 500, 0.7)

	_, err := svc.Answer(context.Background(), "hello", "", 3)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAnswerService_Answer_LLMFailure(t *testing.T) {
	svc, knowledge, llm := newAnswerFixture(t)
	ctx := context.Background()

	_, err := knowledge.AddTexts(ctx, []string{"The cat sat."}, nil)
	require.NoError(t, err)

	llm.err = errors.New("connection refused")
	_, err = svc.Answer(ctx, "Where is the cat?", "", 3)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAnswerService_Answer_EmptyKnowledgeBase(t *testing.T) {
	svc, _, llm := newAnswerFixture(t)

	answer, err := svc.Answer(context.Background(), "Anything at all?", "", 3)
	require.NoError(t, err)
	assert.Empty(t, answer.Context)
	assert.Contains(t, llm.lastPrompt, "No relevant documents found.")
}

func TestAnswerService_Answer_RoleFramesQuery(t *testing.T) {
	svc, knowledge, llm := newAnswerFixture(t)
	ctx := context.Background()

	_, err := knowledge.AddTexts(ctx, []string{"The cat sat."}, nil)
	require.NoError(t, err)

	_, err = svc.Answer(ctx, "Where is the cat?", "support", 3)
	require.NoError(t, err)

	assert.Contains(t, llm.lastPrompt, "You are a Customer Support Agent.")
	assert.Contains(t, llm.lastPrompt, "As a customer support agent, help with: Where is the cat?")
}

func TestAnswerService_Answer_PrioritisesRoleContext(t *testing.T) {
	svc, knowledge, _ := newAnswerFixture(t)
	ctx := context.Background()

	// The diary text is the closer cosine match; the support-tagged
	// text must still come first for the support role.
	_, err := knowledge.AddTexts(ctx, []string{
		"The cat sat quietly.",
		"The cat chased the dog in the park.",
	}, []map[string]any{
		{"source": "diary.txt"},
		{"source": "faq.md", "role": "support"},
	})
	require.NoError(t, err)

	answer, err := svc.Answer(ctx, "What did the cat do?", "support", 2)
	require.NoError(t, err)
	require.Len(t, answer.Context, 2)
	assert.Equal(t, "support", answer.Context[0].Metadata["role"])
}

func TestAnswerService_Answer_NilKnowledge(t *testing.T) {
	svc := NewAnswerService(nil, &fakeLLM{response: "ok"}, 500, 0.7)

	_, err := svc.Answer(context.Background(), "hello", "", 3)
	assert.ErrorIs(t, err, domain.ErrNotReady)
}
