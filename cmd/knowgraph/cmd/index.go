package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/knowgraph/knowgraph/internal/indexer"
)

var indexFull bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Scan a source tree and commit its annotations to the graph",
	Long: `Walk a directory tree, extract annotation blocks from source
comments, validate them, and commit entities, dependency edges, and
external links to the graph database.

Runs incrementally by default: files whose content hash matches the
stored fingerprint are skipped. Use --full to re-parse everything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		s, err := openStore(root)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		mode := indexer.ModeIncremental
		if indexFull {
			mode = indexer.ModeFull
		}

		ix := indexer.New(s, cfg)
		summary, err := ix.Run(cmd.Context(), root, mode)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}

		fmt.Printf("Indexed %s\n", summary.Root)
		fmt.Printf("  Scanned:  %d files\n", summary.Scanned)
		fmt.Printf("  Parsed:   %d  Skipped: %d  Failed: %d  Removed: %d\n",
			summary.Parsed, summary.Skipped, summary.Failed, summary.Removed)
		fmt.Printf("  Graph:    %d entities, %d dependencies, %d links\n",
			summary.Entities, summary.Edges, summary.Links)
		fmt.Printf("  Duration: %s\n", summary.Elapsed.Round(time.Millisecond))

		const maxDiagnostics = 10
		for i, d := range summary.Diagnostics {
			if i == maxDiagnostics {
				fmt.Printf("  ... and %d more diagnostics\n", len(summary.Diagnostics)-maxDiagnostics)
				break
			}
			fmt.Printf("  diagnostic: %s:%d: %s\n", d.FilePath, d.Line, d.Message)
		}
		if v := summary.Validation; v != nil && (v.ErrorCount > 0 || v.WarningCount > 0) {
			fmt.Printf("  Validation: %d errors, %d warnings (run 'knowgraph validate' for details)\n",
				v.ErrorCount, v.WarningCount)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexFull, "full", false, "re-parse every file, ignoring stored fingerprints")
	rootCmd.AddCommand(indexCmd)
}
