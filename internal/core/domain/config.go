package domain

// Config is the full persistent configuration of the application.
type Config struct {
	// DataDir is where snapshots live. Empty means the default
	// directory under the user's home.
	DataDir string

	// TopK is the default number of search results. Zero means
	// DefaultTopK.
	TopK int

	// Verbose enables debug logging by default.
	Verbose bool

	// Chunking configures the text chunker.
	Chunking ChunkSettings

	// Embedding configures the embedding provider.
	Embedding EmbeddingSettings

	// LLM configures the answer-generation provider.
	LLM LLMSettings
}

// DefaultConfig returns a configuration with chunking defaults filled
// in and no AI providers configured.
func DefaultConfig() *Config {
	return &Config{
		TopK: DefaultTopK,
		Chunking: ChunkSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
	}
}

// EffectiveTopK returns the configured TopK or the default.
func (c *Config) EffectiveTopK() int {
	if c == nil || c.TopK <= 0 {
		return DefaultTopK
	}
	return c.TopK
}
