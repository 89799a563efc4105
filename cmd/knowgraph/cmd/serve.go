package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/knowgraph/knowgraph/internal/indexer"
	"github.com/knowgraph/knowgraph/internal/tools"
	"github.com/knowgraph/knowgraph/internal/watcher"
)

var (
	serveRoot  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the graph to MCP clients over stdio",
	Long: `Expose the graph as MCP tools (search_entities, get_entity,
get_graph_stats, index_root, validate_root) over stdio, for AI-agent
clients. With --watch, a background poller re-indexes the root
incrementally whenever source files change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(serveRoot)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		srv := tools.NewServer(s, cfg)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if serveWatch {
			opts := &indexer.DiscoverOptions{Include: cfg.Include, Exclude: cfg.Exclude}
			w := watcher.New(serveRoot, opts, func(ctx context.Context, root string) error {
				_, err := srv.RunIndex(ctx, root, indexer.ModeIncremental)
				return err
			})
			go w.Run(ctx)
			slog.Info("serve.watch", "root", serveRoot)
		}

		return srv.MCPServer().Run(ctx, &mcp.StdioTransport{})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveRoot, "root", ".", "indexed root to serve and watch")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "re-index incrementally on file changes")
	rootCmd.AddCommand(serveCmd)
}
