// Package cli implements the command-line interface. Commands are
// thin adapters that translate arguments and flags into calls on the
// driving ports.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/curio-labs/curio-cli/internal/app"
	"github.com/curio-labs/curio-cli/internal/core/ports/driving"
	"github.com/curio-labs/curio-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose     bool
	dataDirFlag string
)

// Services the commands run against. Wired lazily from the app
// assembly; tests inject fakes directly.
var (
	application      *app.App
	knowledgeService driving.KnowledgeService
	answerService    driving.AnswerService
)

var rootCmd = &cobra.Command{
	Use:   "curio",
	Short: "Local knowledge base with semantic search",
	Long: `Curio ingests your text documents into a local knowledge base and
answers questions about them. Retrieval is semantic: documents are
chunked, embedded and ranked by cosine similarity against your query.

All data stays on your machine. Embeddings and answers come from the
provider configured via 'curio settings' (a local Ollama by default).`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "override the knowledge base directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureServices assembles the application on first use. Tests that
// pre-set the service variables skip assembly entirely.
func ensureServices() error {
	if knowledgeService != nil {
		return nil
	}

	a, err := app.New(app.Options{DataDir: dataDirFlag})
	if err != nil {
		return err
	}
	application = a
	knowledgeService = a.Knowledge
	answerService = a.Answers
	return nil
}

// restoreKnowledge loads the persisted snapshot when running against
// the real application.
func restoreKnowledge(ctx context.Context) error {
	if application == nil {
		return nil
	}
	return application.Restore(ctx)
}

// persistKnowledge saves the snapshot when running against the real
// application.
func persistKnowledge(ctx context.Context) error {
	if application == nil {
		return nil
	}
	return application.Persist(ctx)
}

var errNotConfigured = errors.New("knowledge service not configured")
