package filemonitor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestOnFileChange(t *testing.T) {
	type tc struct {
		Name   string
		Event  fsnotify.Event
		Reload bool
	}

	for _, tt := range []tc{
		{Name: "write", Event: fsnotify.Event{Name: "models/pizzas.cnf", Op: fsnotify.Write}, Reload: true},
		{Name: "create", Event: fsnotify.Event{Name: "models/./pizzas.cnf", Op: fsnotify.Create}, Reload: true},
		{Name: "chmod", Event: fsnotify.Event{Name: "models/pizzas.cnf", Op: fsnotify.Chmod}},
		{Name: "remove", Event: fsnotify.Event{Name: "models/pizzas.cnf", Op: fsnotify.Remove}},
		{Name: "other file", Event: fsnotify.Event{Name: "models/linux.cnf", Op: fsnotify.Write}},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			reloaded := false
			OnFileChange("models/pizzas.cnf", func() { reloaded = true })(discard(), tt.Event)
			assert.Equal(t, tt.Reload, reloaded)
		})
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.cnf")
	require.NoError(t, os.WriteFile(path, []byte("p cnf 1 1\n1 0\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads int32
	require.NoError(t, WatchFile(ctx, discard(), path, func() { atomic.AddInt32(&reloads, 1) }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.cnf"), []byte("1 0\n"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("p cnf 1 1\n-1 0\n"), 0644))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&reloads) > 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatchFileMissingDirectory(t *testing.T) {
	err := WatchFile(context.Background(), discard(), filepath.Join(t.TempDir(), "missing", "model.cnf"), func() {})
	assert.Error(t, err)
}
