// Package watcher polls an indexed root for file changes and triggers
// incremental re-index runs. Polling is adaptive: the interval grows with
// the size of the tree.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/knowgraph/knowgraph/internal/indexer"
)

const (
	baseInterval = 1 * time.Second
	maxInterval  = 60 * time.Second
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// IndexFunc is called when the watched tree has changed.
type IndexFunc func(ctx context.Context, root string) error

// Watcher polls one root directory for changes.
type Watcher struct {
	root     string
	opts     *indexer.DiscoverOptions
	indexFn  IndexFunc
	snapshot map[string]fileSnapshot
	interval time.Duration
	nextPoll time.Time
}

// New creates a Watcher over root. opts mirror the indexer's discovery
// filters so the watcher sees exactly the files the indexer would.
func New(root string, opts *indexer.DiscoverOptions, indexFn IndexFunc) *Watcher {
	return &Watcher{root: root, opts: opts, indexFn: indexFn}
}

// Run blocks until ctx is cancelled, polling whenever the adaptive interval
// has elapsed.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(baseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Now().Before(w.nextPoll) {
				continue
			}
			w.poll(ctx)
		}
	}
}

// poll captures a snapshot of the tree and compares it with the previous
// one. The first poll only records the baseline; later polls trigger the
// index callback on any change.
func (w *Watcher) poll(ctx context.Context) {
	if _, err := os.Stat(w.root); err != nil {
		slog.Warn("watcher.root_gone", "root", w.root)
		w.nextPoll = time.Now().Add(maxInterval)
		return
	}

	snap, err := w.captureSnapshot(ctx)
	if err != nil {
		slog.Warn("watcher.snapshot", "root", w.root, "err", err)
		w.nextPoll = time.Now().Add(w.interval)
		return
	}

	interval := pollInterval(len(snap))

	if w.snapshot == nil {
		slog.Debug("watcher.baseline", "root", w.root, "files", len(snap))
		w.snapshot = snap
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return
	}

	if snapshotsEqual(w.snapshot, snap) {
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return
	}

	slog.Info("watcher.changed", "root", w.root, "files", len(snap))
	if err := w.indexFn(ctx, w.root); err != nil {
		slog.Warn("watcher.index", "root", w.root, "err", err)
		// Keep the old snapshot so the change is retried next cycle.
		w.nextPoll = time.Now().Add(interval)
		return
	}

	w.snapshot = snap
	w.interval = pollInterval(len(snap))
	w.nextPoll = time.Now().Add(w.interval)
}

func (w *Watcher) captureSnapshot(ctx context.Context) (map[string]fileSnapshot, error) {
	files, err := indexer.Discover(ctx, w.root, w.opts)
	if err != nil {
		return nil, err
	}
	snap := make(map[string]fileSnapshot, len(files))
	for _, f := range files {
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			continue
		}
		snap[f.RelPath] = fileSnapshot{modTime: info.ModTime(), size: info.Size()}
	}
	return snap, nil
}

func snapshotsEqual(a, b map[string]fileSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for path, aSnap := range a {
		bSnap, ok := b[path]
		if !ok {
			return false
		}
		if !aSnap.modTime.Equal(bSnap.modTime) || aSnap.size != bSnap.size {
			return false
		}
	}
	return true
}

// pollInterval computes the adaptive interval from file count.
// 1s base + 1s per 500 files, capped at 60s.
func pollInterval(fileCount int) time.Duration {
	ms := 1000 + (fileCount/500)*1000
	if ms > 60000 {
		ms = 60000
	}
	return time.Duration(ms) * time.Millisecond
}
