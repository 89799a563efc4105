package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knowgraph/knowgraph/internal/indexer"
	"github.com/knowgraph/knowgraph/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Audit annotations without writing anything",
	Long: `Parse a tree's annotations and report missing required fields,
statuses outside the configured enumeration, and malformed annotation
blocks. Nothing is committed to the graph. Exits non-zero when any
error-severity issue is found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		// Validation never touches disk state; an in-memory store keeps
		// the indexer wiring uniform.
		s, err := store.OpenMemory()
		if err != nil {
			return err
		}
		defer s.Close()

		ix := indexer.New(s, cfg)
		result, diags, err := ix.Validate(cmd.Context(), root)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		for _, d := range diags {
			fmt.Printf("%s:%d: diagnostic: %s\n", d.FilePath, d.Line, d.Message)
		}
		for _, issue := range result.Issues {
			fmt.Printf("%s:%d: %s: [%s] %s\n",
				issue.FilePath, issue.Line, issue.Severity, issue.Rule, issue.Message)
		}
		fmt.Printf("%d files checked: %d errors, %d warnings\n",
			result.Files, result.ErrorCount, result.WarningCount)

		if !result.Valid {
			return fmt.Errorf("validation found %d errors", result.ErrorCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
