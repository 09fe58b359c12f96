package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWatchReportsDebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "inventory.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(watched, []byte("groups: {}\n"), 0o644))

	var calls atomic.Int32
	changed := make(chan string, 4)
	w := New([]string{watched}, func(path string) {
		calls.Add(1)
		changed <- path
	}, WithDebounce(100*time.Millisecond), WithLogger(zaptest.NewLogger(t)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("groups: {}\n"), 0o644))
	}

	select {
	case path := <-changed:
		abs, _ := filepath.Abs(watched)
		assert.Equal(t, abs, path)
	case <-time.After(2 * time.Second):
		t.Fatal("expected change notification")
	}

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
