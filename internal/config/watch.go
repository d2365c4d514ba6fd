// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// watchDebounce coalesces editor write bursts into one reload.
const watchDebounce = 500 * time.Millisecond

// Watcher reloads the global configuration when the config file changes
// on disk, so UI preference edits apply without restarting the console.
type Watcher struct {
	fw     *fsnotify.Watcher
	onLoad func(*Config)
	done   chan struct{}
}

// Watch starts watching the config directory. onLoad is invoked (from the
// watcher goroutine) after each successful reload; it may be nil.
func Watch(onLoad func(*Config)) (*Watcher, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); err != nil {
		// Nothing to watch until the directory exists.
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{fw: fw, onLoad: onLoad, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	reload := func() {
		if err := ReloadGlobal(); err != nil {
			return
		}
		if w.onLoad != nil {
			w.onLoad(Global())
		}
	}

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !isConfigEvent(ev) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, reload)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

func isConfigEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := ev.Name
	return hasSuffix(name, "config.toml") || hasSuffix(name, "config.json")
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
