package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/knowgraph/knowgraph/internal/query"
)

var (
	statsJSON bool
	statsRoot string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate counts over the graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(statsRoot)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		stats, err := query.NewEngine(s).Stats()
		if err != nil {
			return fmt.Errorf("stats failed: %w", err)
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		fmt.Printf("Entities:     %d\n", stats.Entities)
		fmt.Printf("Dependencies: %d\n", stats.Dependencies)
		fmt.Printf("Links:        %d\n", stats.Links)
		printBreakdown("By type", stats.ByType)
		printBreakdown("By owner", stats.ByOwner)
		printBreakdown("By language", stats.ByLanguage)
		return nil
	},
}

func printBreakdown(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-24s %d\n", k, counts[k])
	}
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "emit JSON")
	statsCmd.Flags().StringVar(&statsRoot, "root", ".", "indexed root whose database to query")
	rootCmd.AddCommand(statsCmd)
}
