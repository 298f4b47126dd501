package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/meridian-labs/harvest/internal/logger"
)

// watchDebounce coalesces bursts of filesystem events into one trigger.
const watchDebounce = 2 * time.Second

// Watcher watches a directory tree and emits a trigger when its contents
// change. Rapid event bursts (saves, bulk copies) collapse into a single
// trigger after a quiet period. New subdirectories are watched as they
// appear.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	triggers chan struct{}
	done     chan struct{}
}

// NewWatcher creates a watcher over the given root directory and starts
// delivering triggers immediately.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filesystem: create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		root:     root,
		triggers: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	if err := w.watchTree(root); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.loop()
	return w, nil
}

// Triggers returns the channel that fires after changes settle.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggers
}

// Close stops the watcher and closes the trigger channel.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// watchTree registers the directory and all its subdirectories.
func (w *Watcher) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("filesystem: watch %q: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
		close(w.triggers)
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watchTree(event.Name); err != nil {
						logger.Warn("watching new directory: %v", err)
					}
				}
			}

			logger.Debug("filesystem event: %s", event)
			if debounce == nil {
				debounce = time.AfterFunc(watchDebounce, w.fire)
			} else {
				debounce.Reset(watchDebounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("filesystem watcher: %v", err)
		}
	}
}

func (w *Watcher) fire() {
	select {
	case w.triggers <- struct{}{}:
	default:
		// A trigger is already pending; the next run picks everything up.
	}
}
