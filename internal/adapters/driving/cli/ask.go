package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

var (
	askRole string
	askTopK int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the knowledge base",
	Long: `Retrieves the most relevant context for the question and generates a
grounded answer with the configured LLM.

The --role flag selects an answer persona (support, sales, technical,
summary); run 'curio roles' to list them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the available answer roles",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(strings.Join(domain.RoleNames(), "\n"))
	},
}

func init() {
	askCmd.Flags().StringVarP(&askRole, "role", "r", "", "answer role (default, support, sales, technical, summary)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", domain.DefaultTopK, "context chunks to retrieve")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(rolesCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := restoreKnowledge(ctx); err != nil {
		return fmt.Errorf("restoring knowledge base: %w", err)
	}

	answer, err := answerService.Answer(ctx, args[0], askRole, askTopK)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownRole) {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(domain.RoleNames(), ", "))
		}
		return fmt.Errorf("answer failed: %w", err)
	}

	cmd.Println(answer.Text)

	if len(answer.Context) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, r := range answer.Context {
			source, _ := r.Metadata["source"].(string)
			if source == "" {
				source = r.DocumentID
			}
			cmd.Printf("  - %s (score %.4f)\n", source, r.Score)
		}
	}
	return nil
}
