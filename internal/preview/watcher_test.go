package preview

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shidetake/trackview/internal/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	var loads, applies atomic.Int32
	seg := segment(t, "a", 0, 0, 1)

	w := &Watcher{
		Paths: []string{path},
		Load: func() ([]track.Segment, error) {
			loads.Add(1)
			return []track.Segment{seg}, nil
		},
		Apply:  func([]track.Segment) { applies.Add(1) },
		Delay:  20 * time.Millisecond,
		Logger: log.New(io.Discard, "", 0),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Let the watcher register before touching the file
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool { return applies.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	applied := applies.Load()
	assert.GreaterOrEqual(t, loads.Load(), applied)
}

func TestWatcherKeepsSegmentsOnLoadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	var loads, applies atomic.Int32
	w := &Watcher{
		Paths: []string{path},
		Load: func() ([]track.Segment, error) {
			loads.Add(1)
			return nil, errors.New("broken file")
		},
		Apply:  func([]track.Segment) { applies.Add(1) },
		Delay:  10 * time.Millisecond,
		Logger: log.New(io.Discard, "", 0),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	assert.Eventually(t, func() bool { return loads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(0), applies.Load())
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := &Watcher{
		Paths: []string{filepath.Join(t.TempDir(), "missing", "a.wav")},
		Load:  func() ([]track.Segment, error) { return nil, nil },
		Apply: func([]track.Segment) {},
	}
	assert.Error(t, w.Run(context.Background()))
}

func TestWatcherDropsPendingReloadOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	var loads, applies atomic.Int32
	w := &Watcher{
		Paths: []string{path},
		Load: func() ([]track.Segment, error) {
			loads.Add(1)
			return nil, nil
		},
		Apply:  func([]track.Segment) { applies.Add(1) },
		Delay:  300 * time.Millisecond,
		Logger: log.New(io.Discard, "", 0),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	// Cancel while the reload is still waiting out its delay
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(0), loads.Load())
	assert.Equal(t, int32(0), applies.Load())
}
