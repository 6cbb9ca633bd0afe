package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherForwardsCreateAndUpdateAndDelete(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, ".adnify", nil, nil)
	require.NoError(t, err)

	events := make(chan Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, func(e Event) { events <- e }, nil))
	defer w.Stop()

	path := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a"), 0o644))

	ev := waitFor(t, events, path)
	assert.Contains(t, []EventType{EventCreate, EventUpdate}, ev.Type)

	require.NoError(t, os.Remove(path))
	ev = waitFor(t, events, path)
	assert.Equal(t, EventDelete, ev.Type)
}

func TestWatcherIgnoresStateDirAndNodeModules(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".adnify"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))

	w, err := New(root, ".adnify", nil, nil)
	require.NoError(t, err)

	events := make(chan Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, func(e Event) { events <- e }, nil))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, ".adnify", "ignored.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "ignored.js"), []byte("x"), 0o644))

	select {
	case ev := <-events:
		t.Fatalf("expected no event from ignored paths, got %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCallsBothOnChangeAndOnNotify(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, ".adnify", nil, nil)
	require.NoError(t, err)

	changes := make(chan Event, 16)
	notifies := make(chan Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, func(e Event) { changes <- e }, func(e Event) { notifies <- e }))
	defer w.Stop()

	path := filepath.Join(root, "b.go")
	require.NoError(t, os.WriteFile(path, []byte("package b"), 0o644))

	waitFor(t, changes, path)
	waitFor(t, notifies, path)
}

func waitFor(t *testing.T, ch chan Event, path string) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Path == path {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event on %s", path)
		}
	}
}
