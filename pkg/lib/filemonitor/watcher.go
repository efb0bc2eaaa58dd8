package filemonitor

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

type watcher struct {
	notify       *fsnotify.Watcher
	pathsToWatch []string
	logger       logrus.FieldLogger
	onUpdateFn   func(logrus.FieldLogger, fsnotify.Event)
}

// NewWatch sets up monitoring on a slice of paths and will execute the update function to process each event
func NewWatch(logger logrus.FieldLogger, pathsToWatch []string, onUpdateFn func(logrus.FieldLogger, fsnotify.Event)) (*watcher, error) {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, item := range pathsToWatch {
		// (non-recursive if a directory is added)
		if err := notify.Add(item); err != nil {
			notify.Close()
			return nil, err
		}
		logger.Debugf("monitoring path '%v'", item)
	}

	return &watcher{
		notify:       notify,
		pathsToWatch: pathsToWatch,
		onUpdateFn:   onUpdateFn,
		logger:       logger,
	}, nil
}

// Run processes events until ctx is done. The update function is never
// called concurrently with itself.
func (w *watcher) Run(ctx context.Context) {
	go func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				w.notify.Close() // always returns nil for the error
				w.logger.Debug("terminating watcher")
				return
			case event, ok := <-w.notify.Events:
				if !ok {
					return
				}
				w.logger.Debugf("watcher got event: %v", event)
				if w.onUpdateFn != nil {
					w.onUpdateFn(w.logger, event)
				}
			case err, ok := <-w.notify.Errors:
				if !ok {
					return
				}
				w.logger.Warnf("watcher got error: %v", err)
			}
		}
	}(ctx)
}
