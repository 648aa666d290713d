package tui

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// stateWatcher signals whenever the state file is (re)written. The directory
// is watched rather than the file because Save replaces the file by rename.
type stateWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	log     *zap.Logger
	changes chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newStateWatcher(path string, log *zap.Logger) (*stateWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &stateWatcher{
		watcher: w,
		path:    filepath.Clean(path),
		log:     log,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}, nil
}

// Start forwards relevant events to Changes until ctx ends or Close is called.
func (sw *stateWatcher) Start(ctx context.Context) {
	go sw.run(ctx)
}

func (sw *stateWatcher) run(ctx context.Context) {
	defer close(sw.done)
	defer close(sw.changes)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != sw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Coalesce bursts into one pending signal.
			select {
			case sw.changes <- struct{}{}:
			default:
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.log.Warn("state watcher error", zap.Error(err))
		}
	}
}

// Changes delivers one value per burst of writes to the state file.
func (sw *stateWatcher) Changes() <-chan struct{} {
	return sw.changes
}

// Close stops the watcher and waits for its goroutine, if started.
func (sw *stateWatcher) Close(started bool) error {
	var err error
	sw.once.Do(func() {
		err = sw.watcher.Close()
		if started {
			<-sw.done
		}
	})
	return err
}
