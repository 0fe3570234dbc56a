package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pipe01/tmplint/internal/workspace"
)

type Watcher struct {
	watchingDirs, watchingFiles map[string]struct{}

	root string
	opts workspace.Options

	watcher *fsnotify.Watcher
}

func NewWatcher(root string, opts workspace.Options) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watchingDirs:  make(map[string]struct{}),
		watchingFiles: make(map[string]struct{}),
		root:          root,
		opts:          opts,
		watcher:       watcher,
	}

	return w, nil
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) WatchFile(path string) error {
	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(w.root, path)
	}
	w.watchingFiles[fullPath] = struct{}{}

	dir := filepath.Dir(fullPath)
	if _, ok := w.watchingDirs[dir]; ok {
		return nil
	}

	err := w.watcher.Add(dir)
	if err != nil {
		return err
	}

	w.watchingDirs[dir] = struct{}{}

	return nil
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			fname, _ := filepath.Abs(event.Name)

			if _, ok := w.watchingFiles[fname]; !ok {
				continue
			}

			w.fileModified(fname)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watcher error: %s", err)
		}
	}
}

func (w *Watcher) fileModified(fullPath string) {
	relPath, err := filepath.Rel(w.root, fullPath)
	if err != nil {
		relPath = fullPath
	}

	log.Infof("file %q modified, checking...", relPath)

	ws := workspace.New(w.root, w.opts)

	if err := ws.Check(relPath); err != nil {
		report(os.Stdout, relPath, err)
		return
	}

	log.Infof("file %q is valid", relPath)
}

func watchFiles(ctx context.Context, root string, opts workspace.Options) error {
	root, _ = filepath.Abs(root)

	watcher, err := NewWatcher(root, opts)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	files, err := workspace.New(root, opts).Discover(*paths)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}

	for _, f := range files {
		err = watcher.WatchFile(f)
		if err != nil {
			return fmt.Errorf("watch file %q: %w", f, err)
		}
	}

	// Report the current state before waiting for changes
	if _, err := checkAll(ctx, root, opts); err != nil {
		return err
	}

	log.Noticef("watching %d files for changes...", len(files))

	watcher.eventLoop(ctx)
	return nil
}
