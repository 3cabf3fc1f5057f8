package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

type templateCache interface {
	ClearCachedTemplates()
}

// watchTemplates clears cache whenever a file under dir changes, until ctx
// is done. Bursts of changes within watchDebounce of each other clear the
// cache once.
func watchTemplates(ctx context.Context, log *slog.Logger, dir string, cache templateCache) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	go watchLoop(ctx, log, watcher, cache)
	return nil
}

func watchLoop(ctx context.Context, log *slog.Logger, watcher *fsnotify.Watcher, cache templateCache) {
	defer watcher.Close()

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				// new directories need watching too
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.WarnContext(ctx, "error watching new directory", "path", event.Name, "error", err)
					}
				}
			}
			log.DebugContext(ctx, "template changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(watchDebounce)
		case <-timer.C:
			log.InfoContext(ctx, "templates changed, clearing template cache")
			cache.ClearCachedTemplates()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WarnContext(ctx, "error watching templates", "error", err)
		}
	}
}
