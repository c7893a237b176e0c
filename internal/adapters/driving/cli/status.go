package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show knowledge base and provider status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if knowledgeService == nil {
		return errNotConfigured
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := restoreKnowledge(ctx); err != nil {
		return fmt.Errorf("restoring knowledge base: %w", err)
	}

	count, err := knowledgeService.DocumentCount(ctx)
	if err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}

	cmd.Println("Curio Status")
	cmd.Println("============")
	cmd.Printf("Documents: %d\n", count)

	if application != nil {
		cmd.Printf("Data directory: %s\n", application.DataDir())
		cmd.Printf("Config file: %s\n", application.Configs.Path())

		if application.HasEmbedder() {
			cmd.Printf("Embedding: %s (%s)\n", application.EmbeddingModel(), application.Config.Embedding.Provider)
		} else {
			cmd.Println("Embedding: not configured")
		}
		if application.HasLLM() {
			cmd.Printf("LLM: %s (%s)\n", application.LLMModel(), application.Config.LLM.Provider)
		} else {
			cmd.Println("LLM: not configured")
		}
	}
	return nil
}
