package tools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/knowgraph/knowgraph/internal/indexer"
)

func (s *Server) handleIndexRoot(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	root := getStringArg(args, "root")
	if root == "" {
		return errResult("root is required"), nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errResult(fmt.Sprintf("invalid path: %v", err)), nil
	}

	mode := indexer.ModeIncremental
	if getBoolArg(args, "full") {
		mode = indexer.ModeFull
	}

	summary, err := s.RunIndex(ctx, absRoot, mode)
	if err != nil {
		return errResult(fmt.Sprintf("indexing failed: %v", err)), nil
	}
	return jsonResult(summary), nil
}

// RunIndex runs one indexing pass against the server's store. Runs are
// serialized; watcher-triggered passes and tool calls share the same mutex
// so the store never sees two concurrent runs.
func (s *Server) RunIndex(ctx context.Context, root string, mode indexer.Mode) (*indexer.Summary, error) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	ix := indexer.New(s.store, s.cfg)
	return ix.Run(ctx, root, mode)
}

func (s *Server) handleValidateRoot(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	root := getStringArg(args, "root")
	if root == "" {
		return errResult("root is required"), nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errResult(fmt.Sprintf("invalid path: %v", err)), nil
	}

	ix := indexer.New(s.store, s.cfg)
	result, diags, err := ix.Validate(ctx, absRoot)
	if err != nil {
		return errResult(fmt.Sprintf("validation failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"validation":  result,
		"diagnostics": diags,
	}), nil
}
