package preview

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"github.com/shidetake/trackview/internal/track"
)

// Loader builds a fresh segment set from disk
type Loader func() ([]track.Segment, error)

// Watcher reloads segments when any of the watched files change. Bursts of
// file events collapse into a single reload after Delay.
type Watcher struct {
	Paths  []string
	Load   Loader
	Apply  func([]track.Segment)
	Delay  time.Duration
	Logger *log.Logger
}

// Run watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = log.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	// Watch directories so files replaced by rename are still seen
	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	debounced := debounce.New(w.Delay)
	// Replace any pending reload so nothing fires after Run returns
	defer debounced(func() {})

	reload := func() {
		if ctx.Err() != nil {
			return
		}
		segs, err := w.Load()
		if err != nil {
			logger.Printf("reload failed, keeping previous segments: %v", err)
			return
		}
		if ctx.Err() != nil {
			return
		}
		w.Apply(segs)
		logger.Printf("reloaded %d segments", len(segs))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounced(reload)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watch error: %v", err)
		}
	}
}
