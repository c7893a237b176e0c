package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every document from the knowledge base",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
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
	if err := knowledgeService.Clear(ctx); err != nil {
		return fmt.Errorf("clearing knowledge base: %w", err)
	}
	if err := persistKnowledge(ctx); err != nil {
		return fmt.Errorf("persisting knowledge base: %w", err)
	}

	cmd.Println("Knowledge base cleared.")
	return nil
}
