// Package indexer orchestrates annotation extraction: discover source files,
// parse them in parallel, validate the results, and commit them to the graph
// store one source at a time.
package indexer

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/knowgraph/knowgraph/internal/annotate"
	"github.com/knowgraph/knowgraph/internal/config"
	"github.com/knowgraph/knowgraph/internal/model"
	"github.com/knowgraph/knowgraph/internal/store"
	"github.com/knowgraph/knowgraph/internal/validate"
)

// Mode selects how much of the tree a run re-processes.
type Mode string

const (
	// ModeFull re-parses every discovered file.
	ModeFull Mode = "full"
	// ModeIncremental skips files whose content hash matches the stored
	// fingerprint.
	ModeIncremental Mode = "incremental"
)

// Indexer runs annotation extraction over a directory tree.
type Indexer struct {
	store    *store.Store
	cfg      *config.Config
	registry *annotate.Registry
	engine   *validate.Engine
}

// New builds an indexer from a store and configuration.
func New(s *store.Store, cfg *config.Config) *Indexer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Indexer{
		store:    s,
		cfg:      cfg,
		registry: annotate.DefaultRegistry(cfg.Markers),
		engine:   cfg.Engine(),
	}
}

// Summary reports the outcome of one indexing run.
type Summary struct {
	Root        string                  `json:"root"`
	Mode        Mode                    `json:"mode"`
	Scanned     int                     `json:"scanned"`
	Parsed      int                     `json:"parsed"`
	Skipped     int                     `json:"skipped"`
	Failed      int                     `json:"failed"`
	Removed     int                     `json:"removed"`
	Entities    int                     `json:"entities"`
	Edges       int                     `json:"edges"`
	Links       int                     `json:"links"`
	Diagnostics []model.Diagnostic      `json:"diagnostics,omitempty"`
	Validation  *model.ValidationResult `json:"validation,omitempty"`
	Elapsed     time.Duration           `json:"-"`
}

// fileOutcome is the per-file result of the parallel parse stage.
type fileOutcome struct {
	File    FileInfo
	Hash    string
	Result  *model.ParseResult
	Skipped bool
	Err     error
}

// Run indexes a directory tree. Per-file failures are recorded in the
// summary and never abort the run; the returned error covers run-level
// failures only (bad root, store errors, cancellation).
func (ix *Indexer) Run(ctx context.Context, root string, mode Mode) (*Summary, error) {
	start := time.Now()
	if mode == "" {
		mode = ModeIncremental
	}
	slog.Info("index.start", "root", root, "mode", mode)

	files, err := Discover(ctx, root, &DiscoverOptions{
		Include: ix.cfg.Include,
		Exclude: ix.cfg.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	slog.Info("index.discovered", "files", len(files))

	manifest := map[string]string{}
	if mode == ModeIncremental {
		if manifest, err = ix.store.AllFingerprints(); err != nil {
			return nil, err
		}
	}

	outcomes, err := ix.parseStage(ctx, files, manifest)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Root: root, Mode: mode, Scanned: len(files)}
	var issues []model.ValidationIssue
	validated := 0

	// Commit stage: serialized, one transaction per source.
	for _, o := range outcomes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if o.Skipped {
			summary.Skipped++
			continue
		}
		if o.Err != nil {
			summary.Failed++
			slog.Warn("index.file.err", "path", o.File.RelPath, "err", o.Err)
			continue
		}

		res := o.Result
		if err := ix.store.ReplaceSource(o.File.RelPath, o.Hash,
			res.Entities, res.Edges, res.Links); err != nil {
			summary.Failed++
			slog.Warn("index.commit.err", "path", o.File.RelPath, "err", err)
			continue
		}
		summary.Parsed++
		summary.Entities += len(res.Entities)
		summary.Edges += len(res.Edges)
		summary.Links += len(res.Links)
		summary.Diagnostics = append(summary.Diagnostics, res.Diagnostics...)
		issues = append(issues, ix.engine.Evaluate(res)...)
		validated++
	}

	// Only a full run treats a missing file as deleted; incremental runs
	// leave unseen sources alone.
	if mode == ModeFull {
		removed, err := ix.sweepDeleted(files)
		if err != nil {
			return nil, err
		}
		summary.Removed = removed
	}

	v := validate.Aggregate(issues, validated)
	summary.Validation = &v
	summary.Elapsed = time.Since(start)

	slog.Info("index.done",
		"parsed", summary.Parsed, "skipped", summary.Skipped,
		"failed", summary.Failed, "removed", summary.Removed,
		"entities", summary.Entities, "elapsed", summary.Elapsed)
	return summary, nil
}

// Validate parses and audits a tree without touching the store. Fingerprints
// are ignored so every file is checked.
func (ix *Indexer) Validate(ctx context.Context, root string) (*model.ValidationResult, []model.Diagnostic, error) {
	files, err := Discover(ctx, root, &DiscoverOptions{
		Include: ix.cfg.Include,
		Exclude: ix.cfg.Exclude,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("discover %s: %w", root, err)
	}

	outcomes, err := ix.parseStage(ctx, files, nil)
	if err != nil {
		return nil, nil, err
	}

	var issues []model.ValidationIssue
	var diags []model.Diagnostic
	checked := 0
	for _, o := range outcomes {
		if o.Skipped || o.Err != nil {
			continue
		}
		issues = append(issues, ix.engine.Evaluate(o.Result)...)
		diags = append(diags, o.Result.Diagnostics...)
		checked++
	}
	v := validate.Aggregate(issues, checked)
	return &v, diags, nil
}

// parseStage hashes and parses files in parallel. Parsing is CPU-bound and
// touches no shared state; all store writes happen afterwards.
func (ix *Indexer) parseStage(ctx context.Context, files []FileInfo, manifest map[string]string) ([]*fileOutcome, error) {
	outcomes := make([]*fileOutcome, len(files))

	numWorkers := runtime.NumCPU()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = ix.parseOne(f, manifest)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (ix *Indexer) parseOne(f FileInfo, manifest map[string]string) *fileOutcome {
	o := &fileOutcome{File: f}

	content, err := os.ReadFile(f.Path)
	if err != nil {
		o.Err = err
		return o
	}
	o.Hash = contentHash(content)

	if stored, ok := manifest[f.RelPath]; ok && stored == o.Hash {
		o.Skipped = true
		return o
	}

	res, err := ix.registry.Parse(f.RelPath, content)
	if err != nil {
		if errors.Is(err, annotate.ErrUnsupported) {
			o.Skipped = true
			return o
		}
		o.Err = err
		return o
	}
	o.Result = res
	return o
}

// sweepDeleted removes stored sources that no longer exist on disk, using
// the fingerprint manifest as the record of what was indexed.
func (ix *Indexer) sweepDeleted(current []FileInfo) (int, error) {
	manifest, err := ix.store.AllFingerprints()
	if err != nil {
		return 0, err
	}
	currentSet := make(map[string]bool, len(current))
	for _, f := range current {
		currentSet[f.RelPath] = true
	}
	removed := 0
	for path := range manifest {
		if currentSet[path] {
			continue
		}
		// Connector-fed sources are keyed by scheme-prefixed identifiers
		// and are reconciled by their connector, not the file sweep.
		if strings.Contains(path, "://") {
			continue
		}
		if err := ix.store.RemoveSource(path); err != nil {
			return removed, err
		}
		slog.Info("index.removed", "path", path)
		removed++
	}
	return removed, nil
}

func contentHash(content []byte) string {
	h := xxh3.New()
	_, _ = h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
