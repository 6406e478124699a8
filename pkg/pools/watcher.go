package pools

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/corepool/corepool/pkg/topology"
)

// Watcher reapplies the pool assignment whenever the configuration file
// changes. A reload that fails to parse or to satisfy a pool keeps the
// previous assignment.
type Watcher struct {
	path     string
	platform *topology.Platform
	manager  *Manager
	watcher  *fsnotify.Watcher
	logger   logr.Logger
	done     chan struct{}
}

// NewWatcher starts watching the given configuration file and reassigns
// pools on the platform when it is rewritten. Stop releases the watch.
func NewWatcher(path string, platform *topology.Platform, manager *Manager, logger logr.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch pool config %s: %w", path, err)
	}
	w := &Watcher{
		path:     path,
		platform: platform,
		manager:  manager,
		watcher:  fsWatcher,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Info("Pool config changed, reloading", "path", w.path)
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(err, "Pool config watch error", "path", w.path)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	config, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Error(err, "Keeping previous pool assignment")
		return
	}
	if err := w.manager.Reassign(w.platform, config); err != nil {
		w.logger.Error(err, "Keeping previous pool assignment")
	}
}

// Stop ends the watch.
func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}
