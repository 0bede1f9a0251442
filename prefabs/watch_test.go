package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	kind, ok := classify("prefabs/drone.yaml")
	assert.True(t, ok)
	assert.Equal(t, ChangePrefab, kind)

	kind, ok = classify("scripts/door.TENGO")
	assert.True(t, ok)
	assert.Equal(t, ChangeScript, kind)

	_, ok = classify("levels/jam.json")
	assert.False(t, ok)
}

func TestWatcherReportsScriptEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "lever.tengo")
	require.NoError(t, os.WriteFile(path, []byte(`hooks := {}`), 0o644))

	select {
	case change := <-w.Events:
		assert.Equal(t, ChangeScript, change.Kind)
		assert.Equal(t, "lever.tengo", filepath.Base(change.Path))
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case change := <-w.Events:
		t.Fatalf("unexpected change %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, open := <-w.Events
	assert.False(t, open)
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
