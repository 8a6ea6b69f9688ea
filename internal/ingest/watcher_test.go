package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherInitialScan(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true}, nil)
	require.NoError(t, err)

	// The scan runs before StartWatcher returns, so both paths are buffered.
	got := []string{<-evCh, <-evCh}
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.pdf"),
		filepath.Join(root, "sub", "b.jpg"),
	}, got)
}

func TestWatcherDebouncedBurst(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{root},
		Debounce: 2 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	const n = 100
	want := map[string]struct{}{}
	for i := 0; i < n; i++ {
		path := filepath.Join(root, fmt.Sprintf("resume-%03d.pdf", i))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		want[path] = struct{}{}
	}

	// Every file must come out, no matter how the burst coalesces.
	seen := map[string]struct{}{}
	deadline := time.After(10 * time.Second)
	for len(seen) < n {
		select {
		case p := <-evCh:
			_, ok := want[p]
			require.True(t, ok, "unexpected path %q", p)
			seen[p] = struct{}{}
		case <-deadline:
			t.Fatalf("timed out with %d of %d files emitted", len(seen), n)
		}
	}
}

func TestWatcherShutdownWithPendingDebounce(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	evCh, errCh, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{root},
		Debounce: 50 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	// Land a file so a debounce timer is armed, then shut down before it fires.
	require.NoError(t, os.WriteFile(filepath.Join(root, "late.pdf"), []byte("x"), 0o644))
	time.Sleep(10 * time.Millisecond)
	cancel()

	deadline := time.After(5 * time.Second)
	for open := true; open; {
		select {
		case _, ok := <-evCh:
			open = ok
		case <-deadline:
			t.Fatal("event channel never closed after cancel")
		}
	}
	for open := true; open; {
		select {
		case _, ok := <-errCh:
			open = ok
		case <-deadline:
			t.Fatal("error channel never closed after cancel")
		}
	}

	// The armed timer fires after the channels are closed; give it room to
	// prove it has nothing left to touch.
	time.Sleep(100 * time.Millisecond)
}

func TestWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}
