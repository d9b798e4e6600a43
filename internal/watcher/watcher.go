// Package watcher re-runs analysis when declaration files change on disk.
// Events are debounced so a burst of writes (editor save, git checkout)
// triggers one re-analysis with the full changed set.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// skippedDirs are never watched; dependency trees generate event storms.
var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// Watcher watches directories recursively and invokes a callback with the
// accumulated changed files after a quiet period.
type Watcher struct {
	fs         *fsnotify.Watcher
	logger     *zap.Logger
	extensions map[string]bool
	debounce   time.Duration

	callback func(files []string)
	cancel   context.CancelFunc
	doneCh   chan struct{}
	stopOnce sync.Once

	mu          sync.Mutex
	accumulated map[string]bool
	timer       *time.Timer
}

// New creates a watcher over root for the given file extensions
// (e.g. []string{".ts", ".d.ts", ".tsx"}).
func New(root string, extensions []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[ext] = true
	}

	w := &Watcher{
		fs:          fs,
		logger:      logger,
		extensions:  extMap,
		debounce:    debounce,
		accumulated: make(map[string]bool),
		doneCh:      make(chan struct{}),
	}
	if err := w.addRecursively(root); err != nil {
		fs.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching. The callback receives the changed file paths once
// per debounce window.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) {
	if callback == nil {
		return
	}
	w.callback = callback
	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
}

// Stop shuts the watcher down and waits for the event loop to exit. It is
// idempotent.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// New directories join the watch set as they appear.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursively(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory",
							zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			if !w.matches(event) {
				continue
			}
			w.mu.Lock()
			w.accumulated[event.Name] = true
			w.mu.Unlock()
			w.resetTimer(fire)

		case <-fire:
			w.flush()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// flush fires the callback with the accumulated change set.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.accumulated) == 0 {
		w.mu.Unlock()
		return
	}
	files := make([]string, 0, len(w.accumulated))
	for file := range w.accumulated {
		files = append(files, file)
	}
	w.accumulated = make(map[string]bool)
	w.mu.Unlock()

	w.callback(files)
}

func (w *Watcher) matches(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	// Check the longest matching suffix first so .d.ts wins over .ts.
	if idx := len(name) - len(".d.ts"); idx > 0 && w.extensions[name[idx:]] {
		return true
	}
	return w.extensions[filepath.Ext(event.Name)]
}

// resetTimer restarts the debounce window, draining any fired timer.
func (w *Watcher) resetTimer(fire chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) addRecursively(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if skippedDirs[info.Name()] {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}
