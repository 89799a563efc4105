// Package tools exposes the annotation graph over MCP: entity search,
// entity detail, graph statistics, and index/validate runs.
package tools

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/knowgraph/knowgraph/internal/config"
	"github.com/knowgraph/knowgraph/internal/query"
	"github.com/knowgraph/knowgraph/internal/store"
)

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp     *mcp.Server
	store   *store.Store
	query   *query.Engine
	cfg     *config.Config
	indexMu sync.Mutex // serializes index runs against the watcher
}

// NewServer creates an MCP server with all tools registered.
func NewServer(s *store.Store, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	srv := &Server{
		store: s,
		query: query.NewEngine(s),
		cfg:   cfg,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "knowgraph",
				Version: "0.1.0",
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "search_entities",
		Description: "Search annotated entities in the knowledge graph. Filters compose with AND semantics: free-text query over name/description/tags, plus exact filters on type, owner, tags, language, and origin.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "Case-insensitive substring matched against name, description, and tags"
				},
				"type": {
					"type": "string",
					"description": "Entity type filter (e.g. 'service', 'function', 'module')"
				},
				"owner": {
					"type": "string",
					"description": "Owning team or person"
				},
				"tags": {
					"type": "array",
					"items": {"type": "string"},
					"description": "Entity must carry every listed tag"
				},
				"language": {
					"type": "string",
					"description": "Source language (e.g. 'go', 'python')"
				},
				"origin": {
					"type": "string",
					"description": "Where the entity came from: 'file' or a connector origin like 'wiki'"
				},
				"limit": {
					"type": "integer",
					"description": "Max results (default 50)"
				}
			}
		}`),
	}, s.handleSearchEntities)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_entity",
		Description: "Get one entity by id with its resolved dependency edges (outbound and inbound, dangling targets marked) and external links.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {
					"type": "string",
					"description": "Entity id, e.g. 'services/billing.go::billing'"
				}
			},
			"required": ["id"]
		}`),
	}, s.handleGetEntity)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_graph_stats",
		Description: "Return aggregate counts over the graph: entities, dependencies, links, and per-type/per-owner/per-language breakdowns.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleGetGraphStats)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "index_root",
		Description: "Index a directory tree: extract annotations from source comments and commit entities, dependencies, and links to the graph. Incremental by default via content fingerprints.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"root": {
					"type": "string",
					"description": "Absolute path to the directory to index"
				},
				"full": {
					"type": "boolean",
					"description": "Re-parse every file instead of skipping unchanged ones (default: false)"
				}
			},
			"required": ["root"]
		}`),
	}, s.handleIndexRoot)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "validate_root",
		Description: "Parse and audit a directory tree's annotations without writing anything: reports missing required fields, invalid statuses, and malformed annotation blocks.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"root": {
					"type": "string",
					"description": "Absolute path to the directory to validate"
				}
			},
			"required": ["root"]
		}`),
	}, s.handleValidateRoot)
}

// jsonResult marshals data to JSON and returns it as a tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

func getStringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

func getIntArg(args map[string]any, key string, defaultVal int) int {
	v, ok := args[key]
	if !ok {
		return defaultVal
	}
	f, ok := v.(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

func getBoolArg(args map[string]any, key string) bool {
	v, ok := args[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		return false
	}
	return b
}

func getStringSliceArg(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
