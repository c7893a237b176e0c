package domain

// Default chunking parameters. Values carry over from the knowledge-base
// profile this system was tuned for: chunks small enough to embed well,
// with enough overlap to keep sentences retrievable across boundaries.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	DefaultTopK         = 3
)

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API, or any local inference
	// server speaking the OpenAI protocol (LM Studio, AnythingLLM).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API. LLM only; Anthropic
	// does not offer an embeddings endpoint.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// SupportsEmbeddings returns true if the provider can serve the
// embedding role.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs on the local machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local, free)"
	case AIProviderOpenAI:
		return "OpenAI (cloud, API key required)"
	case AIProviderAnthropic:
		return "Anthropic (cloud, API key required)"
	default:
		return string(p)
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// AllEmbeddingProviders returns the providers that can serve embeddings,
// in display order.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// AllLLMProviders returns the providers that can serve answer
// generation, in display order.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultEmbeddingModels maps each provider to its default embedding model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels maps each provider to its default LLM model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// ChunkSettings configures the chunker.
type ChunkSettings struct {
	// Size is the maximum chunk length in runes.
	Size int

	// Overlap is the number of runes shared between successive chunks.
	// Always clamped below Size by the chunker.
	Overlap int
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API base URL (for local providers).
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string

	// Dimensions is the embedding vector size. Zero means use the
	// provider's default for the model.
	Dimensions int
}

// IsConfigured returns true if enough is set to build a service.
func (s *EmbeddingSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() || !s.Provider.SupportsEmbeddings() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings configures the answer-generation provider.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API base URL (for local providers).
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string

	// MaxTokens bounds answer length. Zero means provider default.
	MaxTokens int

	// Temperature controls generation randomness.
	Temperature float64
}

// IsConfigured returns true if enough is set to build a service.
func (s *LLMSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}
