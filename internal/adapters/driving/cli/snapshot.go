package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	saveDir string
	loadDir string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Snapshot the knowledge base to disk",
	RunE:  runSave,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the knowledge base with a snapshot from disk",
	RunE:  runLoad,
}

func init() {
	saveCmd.Flags().StringVar(&saveDir, "dir", "", "snapshot directory (defaults to the data directory)")
	loadCmd.Flags().StringVar(&loadDir, "dir", "", "snapshot directory (defaults to the data directory)")
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(loadCmd)
}

func runSave(cmd *cobra.Command, _ []string) error {
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

	dir := saveDir
	if dir == "" {
		if application == nil {
			return fmt.Errorf("no snapshot directory given, use --dir")
		}
		dir = application.DataDir()
	}

	if err := restoreKnowledge(ctx); err != nil {
		return fmt.Errorf("restoring knowledge base: %w", err)
	}

	if err := knowledgeService.Save(ctx, dir); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	cmd.Printf("Snapshot saved to %s\n", dir)
	return nil
}

func runLoad(cmd *cobra.Command, _ []string) error {
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

	dir := loadDir
	if dir == "" {
		if application == nil {
			return fmt.Errorf("no snapshot directory given, use --dir")
		}
		dir = application.DataDir()
	}

	if err := knowledgeService.Load(ctx, dir); err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if loadDir != "" {
		// Loading from a custom dir adopts that state as the default
		// snapshot too.
		if err := persistKnowledge(ctx); err != nil {
			return fmt.Errorf("persisting knowledge base: %w", err)
		}
	}

	count, err := knowledgeService.DocumentCount(ctx)
	if err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}
	cmd.Printf("Snapshot loaded from %s (%d documents)\n", dir, count)
	return nil
}
