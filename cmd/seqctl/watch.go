package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/librescoot/sequential"
	"github.com/librescoot/sequential/binding"
)

// watchDefinition hot-swaps the panels of b whenever the definition file is
// rewritten. The directory is watched so editors that replace the file are seen.
// The returned function stops watching and waits for the watcher to exit.
func watchDefinition(ctx context.Context, path string, b *binding.Binding, logger *slog.Logger) (func(), error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				reload(abs, b, logger)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("definition watch error", "error", err)
			}
		}
	}()

	return func() {
		w.Close()
		<-done
	}, nil
}

func reload(path string, b *binding.Binding, logger *slog.Logger) {
	def, err := sequential.LoadDefinition(path)
	if err != nil {
		// Partially written files are common; the next write event retries
		logger.Warn("definition reload failed", "path", path, "error", err)
		return
	}

	b.UpdatePanels(def.Panels())
	logger.Info("definition reloaded", "path", path, "panels", len(def.Panels()))
}
