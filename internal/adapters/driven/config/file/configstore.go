package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFile is the name of the configuration file.
const ConfigFile = "config.toml"

// ConfigStore persists the application configuration as a TOML file in
// the curio config directory.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// tomlConfig is the on-disk TOML layout. It mirrors domain.Config with
// lower-case section and key names.
type tomlConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
	TopK    int    `toml:"top_k,omitempty"`
	Verbose bool   `toml:"verbose,omitempty"`

	Chunking struct {
		Size    int `toml:"size,omitempty"`
		Overlap int `toml:"overlap,omitempty"`
	} `toml:"chunking"`

	Embedding tomlProvider `toml:"embedding"`
	LLM       tomlLLM      `toml:"llm"`
}

type tomlProvider struct {
	Provider   string `toml:"provider,omitempty"`
	Model      string `toml:"model,omitempty"`
	BaseURL    string `toml:"base_url,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	Dimensions int    `toml:"dimensions,omitempty"`
}

type tomlLLM struct {
	Provider    string  `toml:"provider,omitempty"`
	Model       string  `toml:"model,omitempty"`
	BaseURL     string  `toml:"base_url,omitempty"`
	APIKey      string  `toml:"api_key,omitempty"`
	MaxTokens   int     `toml:"max_tokens,omitempty"`
	Temperature float64 `toml:"temperature,omitempty"`
}

// NewConfigStore creates a TOML-based config store. If configDir is
// empty, it defaults to ~/.curio.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".curio")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, ConfigFile),
	}, nil
}

// Load reads the stored configuration. A missing file returns the
// defaults, not an error.
func (s *ConfigStore) Load() (*domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var raw tomlConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	cfg := domain.DefaultConfig()
	cfg.DataDir = raw.DataDir
	if raw.TopK > 0 {
		cfg.TopK = raw.TopK
	}
	cfg.Verbose = raw.Verbose
	if raw.Chunking.Size > 0 {
		cfg.Chunking.Size = raw.Chunking.Size
	}
	if raw.Chunking.Overlap > 0 {
		cfg.Chunking.Overlap = raw.Chunking.Overlap
	}
	cfg.Embedding = domain.EmbeddingSettings{
		Provider:   domain.AIProvider(raw.Embedding.Provider),
		Model:      raw.Embedding.Model,
		BaseURL:    raw.Embedding.BaseURL,
		APIKey:     raw.Embedding.APIKey,
		Dimensions: raw.Embedding.Dimensions,
	}
	cfg.LLM = domain.LLMSettings{
		Provider:    domain.AIProvider(raw.LLM.Provider),
		Model:       raw.LLM.Model,
		BaseURL:     raw.LLM.BaseURL,
		APIKey:      raw.LLM.APIKey,
		MaxTokens:   raw.LLM.MaxTokens,
		Temperature: raw.LLM.Temperature,
	}

	return cfg, nil
}

// Save persists the configuration with owner-only permissions; the
// file may hold API keys.
func (s *ConfigStore) Save(cfg *domain.Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var raw tomlConfig
	raw.DataDir = cfg.DataDir
	raw.TopK = cfg.TopK
	raw.Verbose = cfg.Verbose
	raw.Chunking.Size = cfg.Chunking.Size
	raw.Chunking.Overlap = cfg.Chunking.Overlap
	raw.Embedding = tomlProvider{
		Provider:   cfg.Embedding.Provider.String(),
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     cfg.Embedding.APIKey,
		Dimensions: cfg.Embedding.Dimensions,
	}
	raw.LLM = tomlLLM{
		Provider:    cfg.LLM.Provider.String(),
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
