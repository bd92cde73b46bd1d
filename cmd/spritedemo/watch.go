// cmd/spritedemo/watch.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"path/filepath"

	"github.com/mmp/spritebatch/log"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads the configuration file whenever it is written and
// delivers each valid configuration on Updates. Invalid edits are logged
// and otherwise ignored.
type ConfigWatcher struct {
	Updates chan *Config

	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
	lg      *log.Logger
}

func NewConfigWatcher(path string, lg *log.Logger) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory rather than the file; editors commonly replace
	// the file on save, which would drop a watch on the file itself.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		Updates: make(chan *Config, 1),
		path:    filepath.Clean(path),
		watcher: w,
		done:    make(chan struct{}),
		lg:      lg,
	}
	go cw.run()
	return cw, nil
}

func (cw *ConfigWatcher) run() {
	defer cw.lg.CatchAndReportCrash()

	for {
		select {
		case e, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path || e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			config, err := LoadConfig(cw.path, cw.lg)
			if err != nil {
				cw.lg.Warnf("%s: not reloading: %v", cw.path, err)
				continue
			}
			cw.lg.Infof("%s: reloaded", cw.path)
			// Only the most recent configuration matters.
			select {
			case <-cw.Updates:
			default:
			}
			cw.Updates <- config

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.lg.Errorf("%s: %v", cw.path, err)

		case <-cw.done:
			return
		}
	}
}

func (cw *ConfigWatcher) Close() error {
	close(cw.done)
	return cw.watcher.Close()
}
