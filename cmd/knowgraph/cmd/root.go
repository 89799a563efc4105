package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knowgraph/knowgraph/internal/config"
	"github.com/knowgraph/knowgraph/internal/store"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "knowgraph",
	Short: "Extract annotation metadata from source comments into a queryable graph",
	Long: `knowgraph scans source trees for structured metadata annotations
(ownership, lifecycle status, tags, business context, dependencies)
embedded in comments, and assembles them into an entity-relationship
graph backed by SQLite.

The graph answers questions like "what code serves business goal X"
or "what depends on entity Y" via search, stats, and an MCP server
for AI-agent clients.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./knowgraph.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// openStore opens the graph database for a root directory: the configured
// db_path when set, otherwise a per-root database in the cache directory.
func openStore(root string) (*store.Store, error) {
	if cfg.DBPath != "" {
		return store.OpenPath(cfg.DBPath)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return store.Open(projectName(abs))
}

// projectName derives a stable database name from an absolute path.
func projectName(absPath string) string {
	cleaned := filepath.ToSlash(filepath.Clean(absPath))
	name := strings.TrimLeft(strings.ReplaceAll(cleaned, "/", "-"), "-")
	if name == "" {
		return "root"
	}
	return name
}
