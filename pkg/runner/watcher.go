// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gptizer/gptizer/pkg/errors"
	"github.com/gptizer/gptizer/pkg/observability"
)

// DefaultDebounce is used when the configured debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// ResultFunc receives the outcome of every run in watch mode.
type ResultFunc func(res *Result, err error)

// Watch runs once, then again after each burst of changes to files the run
// would list. A failed run is handed to onResult and watching continues.
// It returns when ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, onResult ResultFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.FilesystemError("start file watcher", err).WithPath(r.root)
	}
	defer watcher.Close()

	if err := r.addDirs(watcher, r.root); err != nil {
		return err
	}

	emit := func() {
		res, err := r.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		if onResult != nil {
			onResult(res, err)
		}
	}
	emit()

	debounce := r.cfg.Watch.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !r.relevant(watcher, event) {
				continue
			}
			r.log.Debug("change detected",
				observability.String("path", event.Name),
				observability.String("op", event.Op.String()))
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true

		case <-timer.C:
			pending = false
			emit()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("file watcher error", observability.Err(err))
		}
	}
}

// relevant reports whether event should trigger a run. New directories are
// added to the watch set as a side effect.
func (r *Runner) relevant(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if inside(r.outputDir, event.Name) {
		return false
	}
	rel, err := filepath.Rel(r.root, event.Name)
	if err != nil || escapesRoot(rel) {
		return false
	}

	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if r.lister.SkipDir(rel) {
			return false
		}
		if err := r.addDirs(watcher, event.Name); err != nil {
			r.log.Warn("cannot watch new directory", observability.Err(err))
		}
		return true
	}

	// a removed directory may have held listed files
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if filepath.Ext(event.Name) == "" {
			return !r.lister.SkipDir(rel)
		}
	}
	return r.lister.Matches(rel)
}

// addDirs watches dir and every directory below it that listing would visit.
func (r *Runner) addDirs(watcher *fsnotify.Watcher, dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.root {
			if inside(r.outputDir, path) {
				return filepath.SkipDir
			}
			rel, err := filepath.Rel(r.root, path)
			if err != nil {
				return err
			}
			if r.lister.SkipDir(rel) {
				return filepath.SkipDir
			}
		}
		return watcher.Add(path)
	})
	if err != nil {
		return errors.FilesystemError("watch directory", err).WithPath(dir)
	}
	return nil
}

func inside(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// escapesRoot reports whether a filepath.Rel result points outside its base.
// Names that merely start with two dots, such as "..notes.md", do not.
func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
