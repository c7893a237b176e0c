package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/curio-labs/curio-cli/internal/normalise"
	"github.com/curio-labs/curio-cli/internal/watch"
)

var (
	ingestText  string
	ingestWatch bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Add documents to the knowledge base",
	Long: `Reads text files (or literal text via --text) and adds them to the
knowledge base. Directories are ingested file by file; only text
formats (.txt, .md, .markdown, .text, .rst, .html) are considered.
Markdown and HTML are stripped to plain text before chunking.

With --watch, curio keeps running after the initial ingestion and
re-ingests files as they are created or modified.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestText, "text", "t", "", "ingest literal text instead of files")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch directories for changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if knowledgeService == nil {
		return errNotConfigured
	}
	if ingestText == "" && len(args) == 0 {
		return fmt.Errorf("nothing to ingest: pass file paths or --text")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := restoreKnowledge(ctx); err != nil {
		return fmt.Errorf("restoring knowledge base: %w", err)
	}

	if ingestText != "" {
		ids, err := knowledgeService.AddTexts(ctx, []string{ingestText}, nil)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		cmd.Printf("Added %d document(s).\n", len(ids))
		return persistKnowledge(ctx)
	}

	files, dirs, err := collectPaths(args)
	if err != nil {
		return err
	}

	added, err := ingestFiles(ctx, files)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	cmd.Printf("Added %d document(s) from %d file(s).\n", added, len(files))

	if err := persistKnowledge(ctx); err != nil {
		return err
	}

	if ingestWatch {
		if len(dirs) == 0 {
			return fmt.Errorf("--watch requires at least one directory argument")
		}
		return watchAndIngest(ctx, cmd, dirs)
	}
	return nil
}

// collectPaths expands arguments into ingestible files plus the
// directories among them.
func collectPaths(args []string) (files, dirs []string, err error) {
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if info.IsDir() {
			dirs = append(dirs, arg)
			found, err := watch.ListTextFiles(arg)
			if err != nil {
				return nil, nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, arg)
	}
	return files, dirs, nil
}

// ingestFiles reads each file and adds it as one document with its
// file name as the source.
func ingestFiles(ctx context.Context, paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}

	texts := make([]string, 0, len(paths))
	metadatas := make([]map[string]any, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", path, err)
		}
		text, format := normalise.Text(path, data)
		texts = append(texts, text)
		metadatas = append(metadatas, map[string]any{
			"source": filepath.Base(path),
			"path":   path,
			"title":  normalise.Title(path, data),
			"format": format,
		})
	}

	ids, err := knowledgeService.AddTexts(ctx, texts, metadatas)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// watchAndIngest blocks, re-ingesting files as they change, until the
// user interrupts.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, dirs []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchers := make([]*watch.Watcher, 0, len(dirs))
	for _, dir := range dirs {
		w, err := watch.New(dir)
		if err != nil {
			return err
		}
		defer w.Close()
		watchers = append(watchers, w)
	}

	merged := make(chan watch.Change)
	for _, w := range watchers {
		changes := w.Changes(ctx)
		go func() {
			for change := range changes {
				select {
				case merged <- change:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	cmd.Printf("Watching %d directorie(s) for changes. Press Ctrl+C to stop.\n", len(dirs))

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped watching.")
			return nil

		case change := <-merged:
			switch change.Type {
			case watch.ChangeCreated, watch.ChangeUpdated:
				added, err := ingestFiles(ctx, []string{change.Path})
				if err != nil {
					cmd.PrintErrf("ingest %s: %v\n", change.Path, err)
					continue
				}
				cmd.Printf("%s %s: added %d document(s)\n", change.Type, change.Path, added)
				if err := persistKnowledge(ctx); err != nil {
					cmd.PrintErrf("saving snapshot: %v\n", err)
				}

			case watch.ChangeRemoved:
				// Removal is not mirrored into the knowledge base; a full
				// re-ingest into a cleared base picks it up.
				cmd.Printf("%s %s (ignored; run 'curio clear' and re-ingest to drop it)\n",
					change.Type, change.Path)
			}
		}
	}
}
