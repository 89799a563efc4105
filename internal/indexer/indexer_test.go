package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/knowgraph/knowgraph/internal/config"
	"github.com/knowgraph/knowgraph/internal/store"
)

const billingSrc = `package demo

// @knowgraph
// type: service
// name: billing
// description: Handles invoices
// owner: platform-team
// status: stable
// tags:
//   - payments
// dependencies:
//   calls:
//     - ledger
func Billing() {}
`

const ledgerSrc = `package demo

// @knowgraph
// type: service
// name: ledger
// description: Double-entry ledger
// owner: platform-team
// status: stable
// tags:
//   - payments
func Ledger() {}
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newIndexer(t *testing.T) (*Indexer, *store.Store) {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s, config.Default()), s
}

func TestRunFullIndexesTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "billing.go", billingSrc)
	writeFile(t, root, "sub/ledger.go", ledgerSrc)
	writeFile(t, root, "notes.txt", "not source")

	ix, s := newIndexer(t)
	summary, err := ix.Run(context.Background(), root, ModeFull)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Scanned != 2 || summary.Parsed != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Entities != 2 || summary.Edges != 1 {
		t.Errorf("entities=%d edges=%d", summary.Entities, summary.Edges)
	}

	ent, err := s.GetByID("billing.go::billing")
	if err != nil {
		t.Fatal(err)
	}
	if ent == nil || ent.Owner != "platform-team" {
		t.Errorf("entity = %+v", ent)
	}
	if fp, _ := s.GetFingerprint("billing.go"); fp == nil {
		t.Error("fingerprint not written")
	}
}

func TestRunIncrementalSkipsUnchanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "billing.go", billingSrc)
	writeFile(t, root, "sub/ledger.go", ledgerSrc)

	ix, _ := newIndexer(t)
	if _, err := ix.Run(context.Background(), root, ModeFull); err != nil {
		t.Fatal(err)
	}

	summary, err := ix.Run(context.Background(), root, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 2 || summary.Parsed != 0 {
		t.Errorf("no-op run: %+v", summary)
	}
}

func TestRunIncrementalPicksUpChanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "billing.go", billingSrc)
	writeFile(t, root, "sub/ledger.go", ledgerSrc)

	ix, s := newIndexer(t)
	if _, err := ix.Run(context.Background(), root, ModeFull); err != nil {
		t.Fatal(err)
	}

	changed := `package demo

// @knowgraph
// type: service
// name: billing
// description: Handles invoices and refunds
// owner: billing-team
// status: stable
// tags:
//   - payments
func Billing() {}
`
	writeFile(t, root, "billing.go", changed)

	summary, err := ix.Run(context.Background(), root, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Parsed != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v", summary)
	}

	ent, err := s.GetByID("billing.go::billing")
	if err != nil {
		t.Fatal(err)
	}
	if ent.Owner != "billing-team" {
		t.Errorf("owner = %s, change not applied", ent.Owner)
	}
	// The dependency group was removed from the annotation.
	edges, err := s.EdgesBySourceID(ent.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 0 {
		t.Errorf("stale edges: %+v", edges)
	}
}

func TestRunRemovesDeletedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "billing.go", billingSrc)
	writeFile(t, root, "sub/ledger.go", ledgerSrc)

	ix, s := newIndexer(t)
	if _, err := ix.Run(context.Background(), root, ModeFull); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(filepath.Join(root, "sub/ledger.go")); err != nil {
		t.Fatal(err)
	}

	// Incremental runs leave unseen sources alone; deletion is a full-run
	// decision.
	incSummary, err := ix.Run(context.Background(), root, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if incSummary.Removed != 0 {
		t.Errorf("incremental removed = %d, want 0", incSummary.Removed)
	}

	summary, err := ix.Run(context.Background(), root, ModeFull)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Removed != 1 {
		t.Errorf("removed = %d, want 1", summary.Removed)
	}
	if ent, _ := s.GetByID("sub/ledger.go::ledger"); ent != nil {
		t.Error("deleted file's entity survived")
	}
	if fp, _ := s.GetFingerprint("sub/ledger.go"); fp != nil {
		t.Error("deleted file's fingerprint survived")
	}
	// billing's edge to the removed entity stays as a dangling declaration.
	edges, err := s.EdgesBySourceID("billing.go::billing")
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 1 {
		t.Errorf("edges = %+v", edges)
	}
}

func TestRunRecordsValidationIssues(t *testing.T) {
	root := t.TempDir()
	// Missing owner and tags, and a status outside the enumeration.
	writeFile(t, root, "bad.go", `package demo

// @knowgraph
// type: service
// name: sketchy
// description: Not fully annotated
// status: yolo
func Sketchy() {}
`)

	ix, _ := newIndexer(t)
	summary, err := ix.Run(context.Background(), root, ModeFull)
	if err != nil {
		t.Fatal(err)
	}
	v := summary.Validation
	if v == nil {
		t.Fatal("no validation result")
	}
	if v.ErrorCount != 1 {
		t.Errorf("errors = %d, want 1 (bad status)", v.ErrorCount)
	}
	if v.WarningCount != 2 {
		t.Errorf("warnings = %d, want 2 (owner, tags)", v.WarningCount)
	}
	if v.Valid {
		t.Error("result marked valid despite status error")
	}
}

func TestRunContinuesPastMalformedAnnotations(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bad.go", `package demo

// @knowgraph
// type: [unclosed
func Broken() {}
`)
	writeFile(t, root, "good.go", billingSrc)

	ix, s := newIndexer(t)
	summary, err := ix.Run(context.Background(), root, ModeFull)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.Diagnostics) == 0 {
		t.Error("malformed annotation produced no diagnostic")
	}
	if ent, _ := s.GetByID("good.go::billing"); ent == nil {
		t.Error("healthy file not indexed alongside the broken one")
	}
}

func TestDiscoverHonorsExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", "package a\n")
	writeFile(t, root, "gen/skip.go", "package b\n")
	writeFile(t, root, "node_modules/dep.js", "// vendored\n")

	files, err := Discover(context.Background(), root, &DiscoverOptions{
		Exclude: []string{"gen/**"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.go" {
		t.Errorf("files = %+v", files)
	}
}

func TestDiscoverHonorsIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".kgignore", "# generated\nskip.go\n")
	writeFile(t, root, "keep.go", "package a\n")
	writeFile(t, root, "skip.go", "package a\n")

	files, err := Discover(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.go" {
		t.Errorf("files = %+v", files)
	}
}
