package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search the knowledge base",
	Long: `Finds the chunks most similar to the query text, ranked by cosine
similarity. Use 'curio ask' instead to generate a natural-language
answer from the retrieved context.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", domain.DefaultTopK, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
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

	results, err := knowledgeService.Search(ctx, args[0], queryTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		return outputResultsJSON(cmd, results)
	}
	return outputResultsText(cmd, results)
}

func outputResultsJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsText(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		source, _ := r.Metadata["source"].(string)
		if source == "" {
			source = r.DocumentID
		}
		cmd.Printf("[%d] %s (score %.4f)\n", i+1, source, r.Score)
		cmd.Printf("    %s\n", snippet(r.Text, 200))
		cmd.Println()
	}
	return nil
}

// snippet truncates text to at most n bytes on a rune boundary.
func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	runes := []rune(text)
	out := make([]rune, 0, n)
	size := 0
	for _, r := range runes {
		size += len(string(r))
		if size > n {
			break
		}
		out = append(out, r)
	}
	return string(out) + "..."
}
