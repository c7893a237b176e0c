// Package app assembles the application: configuration, driven
// adapters and core services. Commands receive one App value instead
// of reaching for shared globals.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/curio-labs/curio-cli/internal/adapters/driven/ai"
	configfile "github.com/curio-labs/curio-cli/internal/adapters/driven/config/file"
	"github.com/curio-labs/curio-cli/internal/adapters/driven/storage/memory"
	"github.com/curio-labs/curio-cli/internal/adapters/driven/storage/sqlite"
	"github.com/curio-labs/curio-cli/internal/chunker"
	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driven"
	"github.com/curio-labs/curio-cli/internal/core/services"
	"github.com/curio-labs/curio-cli/internal/index/flat"
	"github.com/curio-labs/curio-cli/internal/logger"
)

// App holds the assembled services and their configuration.
type App struct {
	Config    *domain.Config
	Configs   driven.ConfigStore
	Knowledge *services.KnowledgeService
	Answers   *services.AnswerService

	embedder driven.EmbeddingService
	llm      driven.LLMService
	dataDir  string
}

// Options tweak assembly, mostly for tests and flags.
type Options struct {
	// ConfigDir overrides the config directory (default ~/.curio).
	ConfigDir string

	// DataDir overrides the snapshot directory.
	DataDir string

	// SkipPing builds AI services without validating connectivity.
	SkipPing bool
}

// New loads configuration and assembles the services. A missing or
// unreachable AI provider is not fatal: the app comes up degraded and
// individual operations report ErrEmbeddingUnavailable or
// ErrLLMUnavailable when they need the missing piece.
func New(opts Options) (*App, error) {
	configs, err := configfile.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config store: %w", err)
	}

	cfg, err := configs.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.Verbose {
		logger.SetVerbose(true)
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving data dir: %w", err)
		}
		dataDir = filepath.Join(home, ".curio", "knowledge")
	}

	embedder, err := buildEmbedder(&cfg.Embedding, opts.SkipPing)
	if err != nil {
		logger.Warn("Embedding provider unavailable: %v", err)
		embedder = nil
	}

	llm, err := buildLLM(&cfg.LLM, opts.SkipPing)
	if err != nil {
		logger.Warn("LLM provider unavailable: %v", err)
		llm = nil
	}

	ck := chunker.New(
		chunker.WithSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	knowledge := services.NewKnowledgeService(
		ck,
		embedder,
		flat.New(),
		memory.NewDocumentStore(),
		sqlite.NewSnapshotStore(),
	)
	answers := services.NewAnswerService(knowledge, llm, cfg.LLM.MaxTokens, cfg.LLM.Temperature)

	return &App{
		Config:    cfg,
		Configs:   configs,
		Knowledge: knowledge,
		Answers:   answers,
		embedder:  embedder,
		llm:       llm,
		dataDir:   dataDir,
	}, nil
}

func buildEmbedder(settings *domain.EmbeddingSettings, skipPing bool) (driven.EmbeddingService, error) {
	if skipPing {
		return ai.CreateEmbeddingService(settings)
	}
	return ai.CreateAndValidateEmbeddingService(settings)
}

func buildLLM(settings *domain.LLMSettings, skipPing bool) (driven.LLMService, error) {
	if skipPing {
		return ai.CreateLLMService(settings)
	}
	return ai.CreateAndValidateLLMService(settings)
}

// DataDir returns the snapshot directory.
func (a *App) DataDir() string {
	return a.dataDir
}

// HasEmbedder reports whether an embedding provider is configured and
// reachable.
func (a *App) HasEmbedder() bool {
	return a.embedder != nil
}

// HasLLM reports whether an LLM provider is configured and reachable.
func (a *App) HasLLM() bool {
	return a.llm != nil
}

// EmbeddingModel returns the active embedding model name, or "".
func (a *App) EmbeddingModel() string {
	if a.embedder == nil {
		return ""
	}
	return a.embedder.ModelName()
}

// LLMModel returns the active LLM model name, or "".
func (a *App) LLMModel() string {
	if a.llm == nil {
		return ""
	}
	return a.llm.ModelName()
}

// Restore loads the persisted knowledge base if a snapshot exists.
// A missing snapshot is not an error; the app starts empty.
func (a *App) Restore(ctx context.Context) error {
	err := a.Knowledge.Load(ctx, a.dataDir)
	if err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
		return err
	}
	return nil
}

// Persist snapshots the knowledge base to the data directory.
func (a *App) Persist(ctx context.Context) error {
	return a.Knowledge.Save(ctx, a.dataDir)
}

// Close releases provider connections.
func (a *App) Close() {
	if a.embedder != nil {
		a.embedder.Close()
	}
	if a.llm != nil {
		a.llm.Close()
	}
}
