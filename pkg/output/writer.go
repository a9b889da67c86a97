// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package output persists framed bundles and reports what was written.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gptizer/gptizer/pkg/errors"
	"github.com/gptizer/gptizer/pkg/tokenizer"
)

// Written describes one persisted bundle.
type Written struct {
	Index  int // 1-based
	Path   string
	Bytes  int64
	Tokens int
}

// Writer writes bundle i to <dir>/<prefix>_<i+1>.txt.
type Writer struct {
	dir     string
	prefix  string
	clean   bool
	counter tokenizer.Counter
}

// NewWriter creates a Writer. counter measures each written file for the
// report; it may be nil, in which case Tokens is left at zero.
func NewWriter(dir, prefix string, clean bool, counter tokenizer.Counter) *Writer {
	return &Writer{
		dir:     dir,
		prefix:  prefix,
		clean:   clean,
		counter: counter,
	}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// FileName returns the path for the 0-based bundle index i.
func (w *Writer) FileName(i int) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%d.txt", w.prefix, i+1))
}

// Write persists framed in order, replacing existing files. Nothing is
// written, and the directory is not created, when framed is empty.
//
// Every bundle is staged to a temp file and measured before any target is
// replaced, so a failure while writing or counting leaves earlier output
// untouched.
func (w *Writer) Write(ctx context.Context, framed []string) ([]Written, error) {
	if len(framed) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, errors.WriteError("create output directory", err).WithPath(w.dir)
	}

	staged := make([]string, 0, len(framed))
	discard := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}

	written := make([]Written, 0, len(framed))
	for i, content := range framed {
		if err := ctx.Err(); err != nil {
			discard()
			return nil, err
		}

		path := w.FileName(i)
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			discard()
			return nil, errors.WriteError("output path is a directory", nil).WithPath(path)
		}

		tmp, err := stageFile(path, []byte(content))
		if err != nil {
			discard()
			return nil, errors.WriteError("write bundle", err).WithPath(path)
		}
		staged = append(staged, tmp)

		rec := Written{Index: i + 1, Path: path, Bytes: int64(len(content))}
		if w.counter != nil {
			n, err := w.counter.Count(content)
			if err != nil {
				discard()
				return nil, errors.TokenizationError("count written bundle", err).WithPath(path)
			}
			rec.Tokens = n
		}
		written = append(written, rec)
	}

	for i, tmp := range staged {
		if err := os.Rename(tmp, written[i].Path); err != nil {
			for _, rest := range staged[i:] {
				os.Remove(rest)
			}
			return nil, errors.WriteError("replace bundle", err).WithPath(written[i].Path)
		}
	}

	if w.clean {
		if err := w.removeStale(len(framed)); err != nil {
			return written, err
		}
	}
	return written, nil
}

// removeStale deletes numbered files above keep left by earlier runs.
func (w *Writer) removeStale(keep int) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return errors.WriteError("list output directory", err).WithPath(w.dir)
	}

	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(w.prefix) + `_(\d+)\.txt$`)
	for _, e := range entries {
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= keep {
			continue
		}
		p := filepath.Join(w.dir, e.Name())
		if err := os.Remove(p); err != nil {
			return errors.WriteError("remove stale bundle", err).WithPath(p)
		}
	}
	return nil
}

// stageFile writes data to a temp file next to path and returns its name.
func stageFile(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
