package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knowgraph/knowgraph/internal/query"
	"github.com/knowgraph/knowgraph/internal/store"
)

var (
	searchType     string
	searchOwner    string
	searchTags     []string
	searchLanguage string
	searchOrigin   string
	searchLimit    int
	searchJSON     bool
	searchRoot     string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search entities in the graph",
	Long: `Search the committed graph. The positional query is matched
case-insensitively against entity names, descriptions, and tags; flags
add exact filters that compose with AND semantics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := ""
		if len(args) > 0 {
			text = args[0]
		}

		s, err := openStore(searchRoot)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		engine := query.NewEngine(s)
		entities, err := engine.Search(store.SearchParams{
			Query:    text,
			Type:     searchType,
			Owner:    searchOwner,
			Tags:     searchTags,
			Language: searchLanguage,
			Origin:   searchOrigin,
			Limit:    searchLimit,
		})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entities)
		}

		if len(entities) == 0 {
			fmt.Println("No entities matched.")
			return nil
		}
		for _, e := range entities {
			fmt.Printf("%-40s %-12s %-16s %s:%d\n", e.ID, e.Type, e.Owner, e.FilePath, e.Line)
			if e.Description != "" {
				fmt.Printf("    %s\n", e.Description)
			}
		}
		fmt.Printf("%d entities\n", len(entities))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "", "entity type filter")
	searchCmd.Flags().StringVar(&searchOwner, "owner", "", "owner filter")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "required tag (repeatable)")
	searchCmd.Flags().StringVar(&searchLanguage, "language", "", "source language filter")
	searchCmd.Flags().StringVar(&searchOrigin, "origin", "", "origin filter (file or a connector origin)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "max results (default 50)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit JSON")
	searchCmd.Flags().StringVar(&searchRoot, "root", ".", "indexed root whose database to query")
	rootCmd.AddCommand(searchCmd)
}
