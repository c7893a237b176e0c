package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderAnthropic.IsValid())
	assert.False(t, AIProvider("bedrock").IsValid())
	assert.False(t, AIProvider("").IsValid())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestAIProvider_SupportsEmbeddings(t *testing.T) {
	assert.True(t, AIProviderOllama.SupportsEmbeddings())
	assert.True(t, AIProviderOpenAI.SupportsEmbeddings())
	assert.False(t, AIProviderAnthropic.SupportsEmbeddings())
}

func TestAIProvider_IsLocal(t *testing.T) {
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.False(t, AIProviderAnthropic.IsLocal())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Contains(t, AIProviderOllama.Description(), "local")
	assert.Contains(t, AIProviderOpenAI.Description(), "API key")
	assert.Equal(t, "custom", AIProvider("custom").Description())
}

func TestProviderLists(t *testing.T) {
	for _, p := range AllEmbeddingProviders() {
		assert.True(t, p.SupportsEmbeddings(), "%s should support embeddings", p)
		assert.NotEmpty(t, DefaultEmbeddingModels()[p], "%s needs a default embedding model", p)
	}
	for _, p := range AllLLMProviders() {
		assert.True(t, p.IsValid())
		assert.NotEmpty(t, DefaultLLMModels()[p], "%s needs a default LLM model", p)
	}
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	var nilSettings *EmbeddingSettings
	assert.False(t, nilSettings.IsConfigured())

	assert.False(t, (&EmbeddingSettings{}).IsConfigured())

	assert.True(t, (&EmbeddingSettings{Provider: AIProviderOllama}).IsConfigured())

	// OpenAI needs a key.
	assert.False(t, (&EmbeddingSettings{Provider: AIProviderOpenAI}).IsConfigured())
	assert.True(t, (&EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}).IsConfigured())

	// Anthropic has no embeddings endpoint.
	assert.False(t, (&EmbeddingSettings{Provider: AIProviderAnthropic, APIKey: "sk-ant"}).IsConfigured())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	var nilSettings *LLMSettings
	assert.False(t, nilSettings.IsConfigured())

	assert.True(t, (&LLMSettings{Provider: AIProviderOllama}).IsConfigured())
	assert.False(t, (&LLMSettings{Provider: AIProviderOpenAI}).IsConfigured())
}
