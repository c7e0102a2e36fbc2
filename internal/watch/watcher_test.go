package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 20 * time.Millisecond

func startWatcher(t *testing.T, path string, onChange func(context.Context) error) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := New(path, testDebounce, onChange)
	go func() { done <- w.Run(ctx) }()
	// Give the watcher time to register before files change.
	time.Sleep(100 * time.Millisecond)
	return cancel, done
}

func TestWatcher_CallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packages.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	calls := make(chan struct{}, 10)
	cancel, done := startWatcher(t, path, func(context.Context) error {
		calls <- struct{}{}
		return nil
	})
	defer cancel()

	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packages.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	calls := make(chan struct{}, 10)
	cancel, _ := startWatcher(t, path, func(context.Context) error {
		calls <- struct{}{}
		return nil
	})
	defer cancel()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("pkg\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	time.Sleep(10 * testDebounce)
	assert.Empty(t, calls)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packages.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	calls := make(chan struct{}, 10)
	cancel, _ := startWatcher(t, path, func(context.Context) error {
		calls <- struct{}{}
		return nil
	})
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(10 * testDebounce)
	assert.Empty(t, calls)
}

func TestWatcher_CallbackErrorsDoNotStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packages.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	calls := make(chan struct{}, 10)
	cancel, done := startWatcher(t, path, func(context.Context) error {
		calls <- struct{}{}
		return errors.New("generation failed")
	})
	defer cancel()

	for i := 0; i < 2; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0o644))
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("change %d not reported", i)
		}
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "packages.txt"), 0, func(context.Context) error { return nil })
	assert.Error(t, w.Run(context.Background()))
}

func TestNew_DefaultDebounce(t *testing.T) {
	w := New("packages.txt", 0, nil)
	assert.Equal(t, DefaultDebounce, w.debounce)
}
