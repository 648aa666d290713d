package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStateWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	w, err := newStateWatcher(path, zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.db"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	select {
	case _, ok := <-w.Changes():
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled for state file write")
	}

	require.NoError(t, w.Close(true))
	// Drains any coalesced signal; ends because Close closes the channel.
	for range w.Changes() {
	}
}

func TestStateWatcherSignalsOnRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	w, err := newStateWatcher(path, zap.NewNop())
	require.NoError(t, err)
	w.Start(context.Background())
	defer func() { require.NoError(t, w.Close(true)) }()

	tmp := filepath.Join(dir, ".state-1.json")
	require.NoError(t, os.WriteFile(tmp, []byte("{}"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled for atomic replace")
	}
}

func TestStateWatcherMissingDir(t *testing.T) {
	_, err := newStateWatcher(filepath.Join(t.TempDir(), "nope", "state.json"), zap.NewNop())
	require.Error(t, err)
}
