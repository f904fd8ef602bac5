package indihash

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jlrickert/cli-toolkit/mylog"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Path is the file to hash. Its parent directory is watched so that
	// editors replacing the file (rename over) are still noticed.
	Path string

	// Debounce is the quiet period after the last change before the file is
	// hashed again. Zero uses DefaultDebounce.
	Debounce time.Duration

	Session *Session
}

// Watch points opts.Session at the absolute form of opts.Path, computes
// once, and recomputes every time the file changes until ctx ends. The session keeps the
// selection it already had. Watch returns ctx.Err() on cancellation.
func Watch(ctx context.Context, opts WatchOptions) error {
	if strings.TrimSpace(opts.Path) == "" {
		return fmt.Errorf("empty filepath")
	}
	if opts.Session == nil {
		return fmt.Errorf("session is required")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	lg := mylog.LoggerFromContext(ctx)

	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("resolve watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch file: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	watchDir := filepath.Dir(path)
	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	lg.Debug("watching", "path", path, "dir", watchDir, "debounce", debounce.String())

	opts.Session.SetPath(ctx, path)

	var (
		pending     bool
		pendingFrom time.Time
	)
	tick := debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if pending && time.Since(pendingFrom) >= debounce {
				pending = false
				lg.Debug("file changed, recomputing", "path", path)
				opts.Session.Refresh(ctx)
			}
		case event, ok := <-watcher.Events:
			if !ok {
				continue
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Chmod|fsnotify.Remove) != 0 {
				pending = true
				pendingFrom = time.Now()
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				continue
			}
			lg.Warn("file watcher error", "path", path, "err", watchErr)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
