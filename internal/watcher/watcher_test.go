package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestSnapshotsEqual(t *testing.T) {
	now := time.Now()

	a := map[string]fileSnapshot{
		"main.go": {modTime: now, size: 100},
		"util.go": {modTime: now, size: 200},
	}
	b := map[string]fileSnapshot{
		"main.go": {modTime: now, size: 100},
		"util.go": {modTime: now, size: 200},
	}
	if !snapshotsEqual(a, b) {
		t.Error("identical snapshots should be equal")
	}

	c := map[string]fileSnapshot{
		"main.go": {modTime: now, size: 101},
		"util.go": {modTime: now, size: 200},
	}
	if snapshotsEqual(a, c) {
		t.Error("different size should not be equal")
	}

	d := map[string]fileSnapshot{
		"main.go": {modTime: now.Add(time.Second), size: 100},
		"util.go": {modTime: now, size: 200},
	}
	if snapshotsEqual(a, d) {
		t.Error("different mtime should not be equal")
	}

	e := map[string]fileSnapshot{
		"main.go": {modTime: now, size: 100},
	}
	if snapshotsEqual(a, e) {
		t.Error("different file count should not be equal")
	}

	if !snapshotsEqual(map[string]fileSnapshot{}, map[string]fileSnapshot{}) {
		t.Error("both empty should be equal")
	}
}

func TestPollInterval(t *testing.T) {
	tests := []struct {
		files    int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{499, 1 * time.Second},
		{500, 2 * time.Second},
		{2000, 5 * time.Second},
		{50000, 60 * time.Second},
	}
	for _, tt := range tests {
		got := pollInterval(tt.files)
		if got != tt.expected {
			t.Errorf("pollInterval(%d) = %v, want %v", tt.files, got, tt.expected)
		}
	}
}

func TestWatcherTriggersOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	goFile := filepath.Join(tmpDir, "main.go")
	if err := os.WriteFile(goFile, []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var indexCount atomic.Int32
	w := New(tmpDir, nil, func(context.Context, string) error {
		indexCount.Add(1)
		return nil
	})
	ctx := context.Background()

	// First poll captures the baseline without indexing.
	w.poll(ctx)
	if indexCount.Load() != 0 {
		t.Errorf("first poll should not trigger index, got %d", indexCount.Load())
	}

	// No changes: still no index.
	w.nextPoll = time.Time{}
	w.poll(ctx)
	if indexCount.Load() != 0 {
		t.Errorf("no-change poll should not trigger index, got %d", indexCount.Load())
	}

	now := time.Now().Add(time.Second)
	if err := os.Chtimes(goFile, now, now); err != nil {
		t.Fatal(err)
	}
	w.nextPoll = time.Time{}
	w.poll(ctx)
	if indexCount.Load() != 1 {
		t.Errorf("changed file should trigger index, got %d", indexCount.Load())
	}
}

func TestWatcherNewFileTriggersIndex(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "main.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var indexCount atomic.Int32
	w := New(tmpDir, nil, func(context.Context, string) error {
		indexCount.Add(1)
		return nil
	})
	ctx := context.Background()

	w.poll(ctx)

	if err := os.WriteFile(filepath.Join(tmpDir, "util.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	w.nextPoll = time.Time{}
	w.poll(ctx)
	if indexCount.Load() != 1 {
		t.Errorf("new file should trigger index, got %d", indexCount.Load())
	}
}

func TestWatcherRetriesAfterIndexError(t *testing.T) {
	tmpDir := t.TempDir()
	goFile := filepath.Join(tmpDir, "main.go")
	if err := os.WriteFile(goFile, []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	fail := true
	var indexCount atomic.Int32
	w := New(tmpDir, nil, func(context.Context, string) error {
		indexCount.Add(1)
		if fail {
			return os.ErrDeadlineExceeded
		}
		return nil
	})
	ctx := context.Background()

	w.poll(ctx) // baseline

	now := time.Now().Add(time.Second)
	if err := os.Chtimes(goFile, now, now); err != nil {
		t.Fatal(err)
	}
	w.nextPoll = time.Time{}
	w.poll(ctx) // fails; snapshot kept
	if indexCount.Load() != 1 {
		t.Fatalf("index calls = %d, want 1", indexCount.Load())
	}

	// The change is still pending, so the next poll retries.
	fail = false
	w.nextPoll = time.Time{}
	w.poll(ctx)
	if indexCount.Load() != 2 {
		t.Errorf("index calls = %d, want retry after failure", indexCount.Load())
	}
}

func TestWatcherSkipsMissingRoot(t *testing.T) {
	var indexCount atomic.Int32
	w := New("/nonexistent/path", nil, func(context.Context, string) error {
		indexCount.Add(1)
		return nil
	})
	w.poll(context.Background())
	if indexCount.Load() != 0 {
		t.Errorf("should not index missing root, got %d", indexCount.Load())
	}
}

func TestWatcherCancellation(t *testing.T) {
	w := New(t.TempDir(), nil, func(context.Context, string) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
}
