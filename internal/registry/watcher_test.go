package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitReload(t *testing.T, w *Watcher) ReloadEvent {
	t.Helper()
	select {
	case ev, ok := <-w.Reloads():
		require.True(t, ok, "reload channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return ReloadEvent{}
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := cardsDir(t)
	r, errs := Open(dir)
	require.Empty(t, errs)

	w, err := NewWatcher(r, dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeCard(t, dir, "cy.yaml", "code: cy\nfamily: celtic\n")

	ev := waitReload(t, w)
	require.True(t, ev.OK(), "%v", ev.Errors)
	assert.Equal(t, "cy.yaml", filepath.Base(ev.Trigger))

	_, ok := r.Lookup("cy")
	assert.True(t, ok)
}

func TestWatcher_RejectedReloadKeepsSnapshot(t *testing.T) {
	dir := cardsDir(t)
	r, errs := Open(dir)
	require.Empty(t, errs)
	before := r.Current()

	w, err := NewWatcher(r, dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeCard(t, dir, "zz.yaml", "code: zz\nfamily: martian\n")

	ev := waitReload(t, w)
	assert.False(t, ev.OK())
	assert.Same(t, before, ev.Snapshot)
	assert.Same(t, before, r.Current())
}

func TestWatcher_IgnoresNonCardFiles(t *testing.T) {
	dir := cardsDir(t)
	r, errs := Open(dir)
	require.Empty(t, errs)

	w, err := NewWatcher(r, dir, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case ev := <-w.Reloads():
		t.Fatalf("unexpected reload: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ContextCancelClosesChannel(t *testing.T) {
	dir := cardsDir(t)
	w, err := NewWatcher(New(), dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case _, ok := <-w.Reloads():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit")
	}
	w.Stop()
}

func TestWatcher_Lifecycle(t *testing.T) {
	dir := cardsDir(t)

	// Stop without Start still releases the fsnotify watcher.
	w, err := NewWatcher(New(), dir)
	require.NoError(t, err)
	w.Stop()
	w.Stop()
	assert.ErrorIs(t, w.Start(context.Background()), ErrWatcherStopped)

	w, err = NewWatcher(New(), dir)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()), "second Start is a no-op")
	w.Stop()

	w, err = NewWatcher(New(), filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Error(t, w.Start(context.Background()))
	w.Stop()
}
