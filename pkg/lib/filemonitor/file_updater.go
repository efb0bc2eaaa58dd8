package filemonitor

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// OnFileChange returns an update func for a watcher that calls reload
// whenever path is written, or created or renamed into place. Events on
// other files of the watched directory are ignored.
func OnFileChange(path string, reload func()) func(logrus.FieldLogger, fsnotify.Event) {
	path = filepath.Clean(path)
	return func(logger logrus.FieldLogger, event fsnotify.Event) {
		if filepath.Clean(event.Name) != path {
			return
		}
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			return
		}
		logger.Debugf("got fs event for %v", event.Name)
		reload()
	}
}

// WatchFile calls reload every time the file at path changes, until ctx
// is done. The parent directory is watched so that editors replacing the
// file atomically are noticed too.
func WatchFile(ctx context.Context, logger logrus.FieldLogger, path string, reload func()) error {
	w, err := NewWatch(logger, []string{filepath.Dir(path)}, OnFileChange(path, reload))
	if err != nil {
		return err
	}
	w.Run(ctx)
	return nil
}
