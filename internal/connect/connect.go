// Package connect ingests entities from external systems (issue trackers,
// wikis) through the same contract as file-based parsing: a producer turns
// (sourceIdentifier, content) into a ParseResult, and the ingestor reconciles
// it against the store with the same replace/remove primitives, keyed by
// source identifier instead of file path.
package connect

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/knowgraph/knowgraph/internal/model"
	"github.com/knowgraph/knowgraph/internal/store"
	"github.com/knowgraph/knowgraph/internal/validate"
)

// Document is one unit of external content to ingest.
type Document struct {
	// SourceID identifies the document within the producer's system,
	// e.g. "payments/billing". The ingestor prefixes it with the
	// producer's origin scheme before storage.
	SourceID string
	Content  []byte
}

// Producer supplies annotated documents from one external system.
type Producer interface {
	// Origin names the system, e.g. "wiki" or "jira". It tags every
	// emitted entity and prefixes every stored source identifier.
	Origin() string
	// Fetch lists the system's current documents. The returned set is
	// authoritative: previously ingested documents missing from it are
	// removed from the graph.
	Fetch(ctx context.Context) ([]Document, error)
	// Parse turns one document into entities, edges, and links. The
	// given source identifier is canonical and must be used as the
	// entity id prefix.
	Parse(sourceID string, content []byte) (*model.ParseResult, error)
}

// Ingestor reconciles producer output against the graph store.
type Ingestor struct {
	store  *store.Store
	engine *validate.Engine
}

func NewIngestor(s *store.Store, engine *validate.Engine) *Ingestor {
	if engine == nil {
		engine = validate.DefaultEngine()
	}
	return &Ingestor{store: s, engine: engine}
}

// Summary reports the outcome of one ingestion run.
type Summary struct {
	Origin      string                  `json:"origin"`
	Fetched     int                     `json:"fetched"`
	Ingested    int                     `json:"ingested"`
	Failed      int                     `json:"failed"`
	Removed     int                     `json:"removed"`
	Entities    int                     `json:"entities"`
	Diagnostics []model.Diagnostic      `json:"diagnostics,omitempty"`
	Validation  *model.ValidationResult `json:"validation,omitempty"`
}

// Ingest fetches a producer's documents and reconciles them with the store.
// Per-document failures are recorded and never abort the run. Documents the
// producer stopped reporting are removed, matching the file indexer's
// deletion sweep within this producer's origin.
func (in *Ingestor) Ingest(ctx context.Context, p Producer) (*Summary, error) {
	origin := p.Origin()
	slog.Info("connect.start", "origin", origin)

	docs, err := p.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", origin, err)
	}

	summary := &Summary{Origin: origin, Fetched: len(docs)}
	var issues []model.ValidationIssue
	currentSet := make(map[string]bool, len(docs))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sourceID := CanonicalSourceID(origin, doc.SourceID)
		currentSet[sourceID] = true

		res, err := p.Parse(sourceID, doc.Content)
		if err != nil {
			summary.Failed++
			slog.Warn("connect.doc.err", "source", sourceID, "err", err)
			continue
		}
		for _, ent := range res.Entities {
			ent.Origin = origin
		}

		hash := contentHash(doc.Content)
		if err := in.store.ReplaceSource(sourceID, hash, res.Entities, res.Edges, res.Links); err != nil {
			summary.Failed++
			slog.Warn("connect.commit.err", "source", sourceID, "err", err)
			continue
		}
		summary.Ingested++
		summary.Entities += len(res.Entities)
		summary.Diagnostics = append(summary.Diagnostics, res.Diagnostics...)
		issues = append(issues, in.engine.Evaluate(res)...)
	}

	removed, err := in.sweep(origin, currentSet)
	if err != nil {
		return nil, err
	}
	summary.Removed = removed

	v := validate.Aggregate(issues, summary.Ingested)
	summary.Validation = &v

	slog.Info("connect.done", "origin", origin,
		"ingested", summary.Ingested, "failed", summary.Failed,
		"removed", summary.Removed, "entities", summary.Entities)
	return summary, nil
}

// sweep removes sources under this origin's scheme that the producer no
// longer reports. Other origins and file-based sources are untouched.
func (in *Ingestor) sweep(origin string, current map[string]bool) (int, error) {
	manifest, err := in.store.AllFingerprints()
	if err != nil {
		return 0, err
	}
	prefix := origin + "://"
	removed := 0
	for path := range manifest {
		if !strings.HasPrefix(path, prefix) || current[path] {
			continue
		}
		if err := in.store.RemoveSource(path); err != nil {
			return removed, err
		}
		slog.Info("connect.removed", "source", path)
		removed++
	}
	return removed, nil
}

// CanonicalSourceID prefixes a producer-local identifier with the origin
// scheme, so connector sources never collide with file paths.
func CanonicalSourceID(origin, sourceID string) string {
	prefix := origin + "://"
	if strings.HasPrefix(sourceID, prefix) {
		return sourceID
	}
	return prefix + sourceID
}

func contentHash(content []byte) string {
	h := xxh3.New()
	_, _ = h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
