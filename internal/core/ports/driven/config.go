package driven

import "github.com/curio-labs/curio-cli/internal/core/domain"

// ConfigStore persists application configuration.
type ConfigStore interface {
	// Load reads the stored configuration. A missing store returns the
	// defaults, not an error.
	Load() (*domain.Config, error)

	// Save persists the configuration.
	Save(cfg *domain.Config) error

	// Path returns the location of the backing store, for display.
	Path() string
}

// AIConfigValidator checks AI provider configurations against the live
// services they describe.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider the settings
	// describe. Unconfigured settings validate trivially.
	ValidateEmbedding(settings *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider the settings describe.
	ValidateLLM(settings *domain.LLMSettings) error
}
