package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/knowgraph/knowgraph/internal/store"
)

func (s *Server) handleSearchEntities(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	params := store.SearchParams{
		Query:    getStringArg(args, "query"),
		Type:     getStringArg(args, "type"),
		Owner:    getStringArg(args, "owner"),
		Tags:     getStringSliceArg(args, "tags"),
		Language: getStringArg(args, "language"),
		Origin:   getStringArg(args, "origin"),
		Limit:    getIntArg(args, "limit", 0),
	}

	entities, err := s.query.Search(params)
	if err != nil {
		return errResult("search failed: " + err.Error()), nil
	}

	return jsonResult(map[string]any{
		"count":    len(entities),
		"entities": entities,
	}), nil
}

func (s *Server) handleGetEntity(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	id := getStringArg(args, "id")
	if id == "" {
		return errResult("id is required"), nil
	}

	detail, err := s.query.Get(id)
	if err != nil {
		return errResult("get failed: " + err.Error()), nil
	}
	if detail == nil {
		return errResult("entity not found: " + id), nil
	}
	return jsonResult(detail), nil
}

func (s *Server) handleGetGraphStats(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.query.Stats()
	if err != nil {
		return errResult("stats failed: " + err.Error()), nil
	}
	return jsonResult(stats), nil
}
