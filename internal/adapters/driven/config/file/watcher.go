package file

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/lodestone-ai/lodestone/internal/logger"
)

// Watcher invokes a callback when the settings file changes on disk,
// so external edits take effect without restarting the server.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher watches path and calls onChange after every write to it.
// The parent directory is watched rather than the file itself, because
// editors replace files and break inode-level watches.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		done:    make(chan struct{}),
	}

	target := filepath.Base(path)
	go func() {
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				logger.Debug("settings file changed: %s", event.Name)
				onChange()
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("settings watcher: %v", err)
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
