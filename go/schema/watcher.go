// Copyright 2025 Supabase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// Watcher keeps a catalog file loaded and swaps in a fresh immutable
// snapshot whenever the file changes. Compilations read a snapshot via
// Current and are unaffected by later swaps. A reload that fails to
// validate keeps the previous snapshot.
type Watcher struct {
	path    string
	fs      afero.Fs
	logger  *slog.Logger
	current atomic.Pointer[Catalog]
	fw      *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher loads the catalog file once and returns a watcher for it.
// The initial load must succeed.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{path: path, fs: afero.NewOsFs(), logger: logger}
	catalog, err := LoadCatalog(w.fs, path)
	if err != nil {
		return nil, err
	}
	w.current.Store(catalog)
	return w, nil
}

// Current returns the active catalog snapshot.
func (w *Watcher) Current() *Catalog {
	return w.current.Load()
}

// Start begins watching the catalog file for changes. The watch runs
// until the context is cancelled or Close is called. The parent
// directory is watched rather than the file itself so that the common
// editor pattern of replacing the file keeps working.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return err
	}
	w.fw = fw
	w.done = make(chan struct{})
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.reload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("catalog watch error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != filepath.Base(w.path) {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	catalog, err := LoadCatalog(w.fs, w.path)
	if err != nil {
		w.logger.Error("catalog reload failed, keeping previous snapshot",
			"path", w.path, "error", err)
		return
	}
	w.current.Store(catalog)
	w.logger.Info("catalog reloaded",
		"path", w.path,
		"tables", len(catalog.Tables()),
		"relationships", len(catalog.Relationships()))
}

// Close stops the watch and waits for the watch goroutine to exit. Safe
// to call when Start was never called.
func (w *Watcher) Close() error {
	if w.fw == nil {
		return nil
	}
	err := w.fw.Close()
	<-w.done
	return err
}
