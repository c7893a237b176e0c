package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/curio-labs/curio-cli/internal/adapters/driving/tui"
)

var (
	tuiRole string
	tuiTopK int
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Curio.

The TUI searches your knowledge base as you type queries, and can
generate grounded answers in ask mode.

Controls:
  Enter  - Run the query
  Tab    - Switch between search and ask mode
  ↑/↓    - Scroll results
  Esc    - Clear the input
  Ctrl+C - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiRole, "role", "r", "", "answer role for ask mode")
	tuiCmd.Flags().IntVarP(&tuiTopK, "top-k", "k", 0, "number of results per query")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Panic recovery so a rendering bug still yields a stack trace on a
	// usable terminal.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

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

	app, err := tui.NewApp(&tui.Ports{
		Knowledge: knowledgeService,
		Answers:   answerService,
	})
	if err != nil {
		return fmt.Errorf("creating TUI: %w", err)
	}
	app.WithContext(ctx)
	app.SetRole(tuiRole)
	if tuiTopK > 0 {
		app.SetTopK(tuiTopK)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
