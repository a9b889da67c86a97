// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gptizer/gptizer/pkg/bundle"
	"github.com/gptizer/gptizer/pkg/errors"
	"github.com/gptizer/gptizer/pkg/observability"
	"github.com/gptizer/gptizer/pkg/perf"
)

// Run executes the pipeline once. Any failure aborts the run before
// output is written; a failed tree render is only logged.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	metrics := observability.NewMetrics()
	r.metrics.Store(metrics)
	r.cacheWarned.Store(false)

	log := observability.WithRunID(r.log)
	log.Debug("starting run", observability.String("output_dir", r.outputDir))

	files, err := r.lister.List(ctx, r.root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Info("no matching files")
		return &Result{Empty: true}, nil
	}
	log.Debug("listed files", observability.Int("count", len(files)))

	items, err := perf.Map(ctx, files, r.item, perf.Workers(r.cfg.Global.Workers))
	if err != nil {
		return nil, unwrapIndex(err)
	}
	for _, it := range items {
		metrics.RecordFile(it.Tokens)
	}

	capacity := r.cfg.Bundle.ContextLength
	bundles, err := bundle.PackWithObserver(items, capacity, func(index int, it bundle.Item) {
		metrics.RecordOversized()
		log.Warn("file exceeds context length, bundled alone",
			observability.String("path", it.Path),
			observability.Int("tokens", it.Tokens),
			observability.Int("capacity", capacity),
			observability.Int("bundle", index+1))
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordBundles(len(bundles))

	treeText, err := r.tree.Render(ctx, r.root, files)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.IsFatal(err) {
			return nil, err
		}
		log.Warn("directory tree unavailable", observability.Err(err))
		treeText = ""
	}

	framed := bundle.Frame(bundles, treeText, r.cfg.BundleMessages())
	res := &Result{
		Files:   files,
		Bundles: bundles,
		Framed:  framed,
	}

	if r.dryRun {
		for i, text := range framed {
			path := r.writer.FileName(i)
			res.Planned = append(res.Planned, path)
			metrics.RecordBytes(int64(len(text)))
			if r.reporter != nil {
				n, err := r.counter.Count(text)
				if err != nil {
					return nil, errors.TokenizationError("count framed bundle", err).WithPath(path)
				}
				r.reporter.Planned(path, n)
			}
		}
	} else {
		written, err := r.writer.Write(ctx, framed)
		if err != nil {
			return nil, err
		}
		res.Written = written
		for _, w := range written {
			metrics.RecordBytes(w.Bytes)
			log.Debug("wrote bundle", observability.String("path", w.Path), observability.Int("tokens", w.Tokens))
			if r.reporter != nil {
				r.reporter.Created(w)
			}
		}
	}

	metrics.RecordDuration(time.Since(start))
	res.Stats = metrics.Snapshot()
	log.Info("run complete",
		observability.Int("files", res.Stats.Files),
		observability.Int("bundles", res.Stats.Bundles),
		observability.Int("tokens", res.Stats.Tokens),
		observability.Int("oversized", res.Stats.Oversized))
	return res, nil
}

// item annotates and counts one file.
func (r *Runner) item(_ context.Context, path string) (bundle.Item, error) {
	text, err := r.annotator.Annotate(path)
	if err != nil {
		return bundle.Item{}, err
	}
	n, err := r.counter.Count(text)
	if err != nil {
		return bundle.Item{}, errors.TokenizationError("count tokens", err).WithPath(path)
	}
	return bundle.Item{Path: path, Text: text, Tokens: n}, nil
}

// unwrapIndex drops the perf.IndexError wrapper so callers see the typed
// error, which already names the file.
func unwrapIndex(err error) error {
	var ie *perf.IndexError
	if stderrors.As(err, &ie) {
		return ie.Err
	}
	return err
}
