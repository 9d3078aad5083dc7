package usage

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces editor write bursts into one refresh.
const DefaultDebounce = 500 * time.Millisecond

// WatchPayload watches the payload file and invokes refresh after each
// (debounced) change until ctx is done. The watch is attached to the
// parent directory so atomic rename-style writes are observed. Watcher
// errors are logged and ignored; they never stop the loop.
func WatchPayload(ctx context.Context, path string, debounce time.Duration, refresh func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("usage: creating payload watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("usage: watching %s: %w", dir, err)
	}
	base := filepath.Base(path)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("usage: payload watcher: %v", err)
		case <-timer.C:
			refresh()
		}
	}
}
