// Package model defines the records shared by the annotation parsers, the
// validation engine, the indexer, and the graph store.
package model

import "time"

// Entity is one annotated code construct, persisted in the graph store.
type Entity struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Owner         string         `json:"owner,omitempty"`
	Status        string         `json:"status,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Language      string         `json:"language,omitempty"`
	FilePath      string         `json:"file_path"`
	Line          int            `json:"line"`
	Signature     string         `json:"signature,omitempty"`
	BusinessGoal  string         `json:"business_goal,omitempty"`
	FunnelStage   string         `json:"funnel_stage,omitempty"`
	RevenueImpact string         `json:"revenue_impact,omitempty"`
	Origin        string         `json:"origin,omitempty"`
	Properties    map[string]any `json:"properties,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
}

// OriginFile marks entities extracted from source files; connector-fed
// entities carry the connector's own origin tag instead.
const OriginFile = "file"

// DependencyEdge is a directed, typed relationship declared by an annotation.
// TargetID holds the identifier exactly as declared: either a full entity id
// or a bare name that resolution matches against entity names.
type DependencyEdge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Type     string `json:"type"`
}

// ExternalLink is an outward reference from an entity to non-code material.
type ExternalLink struct {
	EntityID string `json:"entity_id"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Diagnostic records a malformed annotation encountered during parsing.
// Diagnostics are advisory: the rest of the file is still parsed.
type Diagnostic struct {
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// ParseResult is the transient output of parsing one source, consumed by the
// validation engine and the indexer. It is never persisted as-is.
type ParseResult struct {
	Source      string // file path or connector source identifier
	Language    string
	Origin      string
	Entities    []*Entity
	Edges       []*DependencyEdge
	Links       []*ExternalLink
	Diagnostics []Diagnostic
}

// FileFingerprint is the stored content hash for one indexed source.
type FileFingerprint struct {
	Path   string `json:"path"`
	Hash   string `json:"hash"`
	SeenAt string `json:"seen_at"`
}

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue is one rule finding for one entity.
type ValidationIssue struct {
	FilePath string   `json:"file_path"`
	Line     int      `json:"line"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationResult aggregates issues across one or more files.
type ValidationResult struct {
	Files        int               `json:"files"`
	ErrorCount   int               `json:"error_count"`
	WarningCount int               `json:"warning_count"`
	Valid        bool              `json:"valid"`
	Issues       []ValidationIssue `json:"issues,omitempty"`
}

// GraphStats holds aggregate counts over the committed graph.
type GraphStats struct {
	Entities     int            `json:"entities"`
	Dependencies int            `json:"dependencies"`
	Links        int            `json:"links"`
	ByType       map[string]int `json:"by_type,omitempty"`
	ByOwner      map[string]int `json:"by_owner,omitempty"`
	ByLanguage   map[string]int `json:"by_language,omitempty"`
}

// ResolvedDependency is a dependency edge annotated with query-time
// resolution state. Target is nil when the edge is dangling.
type ResolvedDependency struct {
	Edge      DependencyEdge `json:"edge"`
	Direction string         `json:"direction"` // "outbound" or "inbound"
	Resolved  bool           `json:"resolved"`
	Target    *Entity        `json:"target,omitempty"`
}

// Now returns the current time in ISO 8601 format, the timestamp format used
// for all persisted records.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
