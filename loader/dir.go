// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Dir is an FS rooted at a directory on disk that can watch it for changes.
type Dir struct {
	*FS
	root string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closeCh chan struct{}
	wg      sync.WaitGroup
}

func NewDir(root string, opts ...Option) *Dir {
	return &Dir{
		FS:   NewFS(os.DirFS(root), opts...),
		root: root,
	}
}

func (d *Dir) Root() string {
	return d.root
}

// Watch starts invalidating cached clips whose files are written, created,
// renamed or removed below the root. It returns once the watches are in
// place; Close stops it.
func (d *Dir) Watch() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	err = filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", d.root, err)
	}

	d.watcher = w
	d.closeCh = make(chan struct{})
	d.wg.Add(1)
	go d.run(w, d.closeCh)

	d.logger.Info("watching assets", "root", d.root)
	return nil
}

func (d *Dir) run(w *fsnotify.Watcher, closeCh <-chan struct{}) {
	defer d.wg.Done()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			d.handle(w, event)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			d.logger.Warn("asset watcher error", "error", err)
		case <-closeCh:
			return
		}
	}
}

func (d *Dir) handle(w *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.Add(event.Name); err != nil {
				d.logger.Warn("watching new directory", "dir", event.Name, "error", err)
			}
			return
		}
	}

	rel, err := filepath.Rel(d.root, event.Name)
	if err != nil {
		return
	}
	name := filepath.ToSlash(rel)

	d.Invalidate(name)
	d.logger.Debug("asset changed", "file", name, "op", event.Op.String())
}

// Close stops the watcher, if any, and waits for it.
func (d *Dir) Close() error {
	d.mu.Lock()
	w := d.watcher
	d.watcher = nil
	if w != nil {
		close(d.closeCh)
	}
	d.mu.Unlock()

	if w == nil {
		return nil
	}

	err := w.Close()
	d.wg.Wait()
	if errors.Is(err, fsnotify.ErrClosed) {
		return nil
	}
	return err
}
