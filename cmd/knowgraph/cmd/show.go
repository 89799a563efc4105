package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knowgraph/knowgraph/internal/query"
)

var (
	showJSON bool
	showRoot string
)

var showCmd = &cobra.Command{
	Use:   "show <entity-id>",
	Short: "Show one entity with its resolved dependencies and links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(showRoot)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		engine := query.NewEngine(s)
		detail, err := engine.Get(args[0])
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}
		if detail == nil {
			return fmt.Errorf("entity not found: %s", args[0])
		}

		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(detail)
		}

		e := detail.Entity
		fmt.Printf("%s (%s)\n", e.Name, e.Type)
		fmt.Printf("  id:       %s\n", e.ID)
		fmt.Printf("  location: %s:%d [%s]\n", e.FilePath, e.Line, e.Language)
		if e.Description != "" {
			fmt.Printf("  desc:     %s\n", e.Description)
		}
		if e.Owner != "" {
			fmt.Printf("  owner:    %s\n", e.Owner)
		}
		if e.Status != "" {
			fmt.Printf("  status:   %s\n", e.Status)
		}
		if len(e.Tags) > 0 {
			fmt.Printf("  tags:     %v\n", e.Tags)
		}
		if e.BusinessGoal != "" {
			fmt.Printf("  goal:     %s\n", e.BusinessGoal)
		}

		for _, d := range detail.Dependencies {
			state := "dangling"
			if d.Resolved {
				state = d.Target.ID
			}
			fmt.Printf("  %s %s -> %s (%s)\n", d.Direction, d.Edge.Type, d.Edge.TargetID, state)
		}
		for _, l := range detail.Links {
			fmt.Printf("  link: %s %s\n", l.URL, l.Title)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "emit JSON")
	showCmd.Flags().StringVar(&showRoot, "root", ".", "indexed root whose database to query")
	rootCmd.AddCommand(showCmd)
}
