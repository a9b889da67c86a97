// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package runner wires listing, annotation, counting, packing, framing and
// writing into a single bundling run.
package runner

import (
	"path/filepath"
	"sync/atomic"

	"github.com/gptizer/gptizer/pkg/annotate"
	"github.com/gptizer/gptizer/pkg/bundle"
	"github.com/gptizer/gptizer/pkg/config"
	"github.com/gptizer/gptizer/pkg/errors"
	"github.com/gptizer/gptizer/pkg/filelist"
	"github.com/gptizer/gptizer/pkg/observability"
	"github.com/gptizer/gptizer/pkg/output"
	"github.com/gptizer/gptizer/pkg/tokenizer"
	"github.com/gptizer/gptizer/pkg/tree"
)

// Options contains the collaborators of a Runner.
type Options struct {
	// Root is the directory to bundle.
	Root string
	// Config must already be validated.
	Config *config.Config
	// Counter is the token oracle.
	Counter tokenizer.Counter
	// Tree renders the directory tree; nil renders nothing.
	Tree tree.Renderer
	// Logger defaults to a no-op logger.
	Logger observability.Logger
	// Reporter, when set, is told about every written file.
	Reporter *output.Reporter
	// DryRun packs and frames without writing.
	DryRun bool
}

// Result describes one completed run.
type Result struct {
	// Empty is set when no file matched; nothing else is populated.
	Empty bool

	Files   []string
	Bundles []bundle.Bundle
	Framed  []string
	Written []output.Written

	// Planned holds the target paths of a dry run.
	Planned []string

	Stats observability.Snapshot
}

// Runner executes bundling runs for one root.
type Runner struct {
	root      string
	outputDir string
	cfg       *config.Config
	counter   tokenizer.Counter
	tree      tree.Renderer
	log       observability.Logger
	reporter  *output.Reporter
	dryRun    bool

	lister    *filelist.Lister
	annotator *annotate.Annotator
	writer    *output.Writer

	// metrics of the run in progress, read by the cache hook
	metrics atomic.Pointer[observability.Metrics]
	// set once the current run has reported a cache write failure
	cacheWarned atomic.Bool
}

// New creates a Runner.
func New(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, errors.ConfigError("runner requires a configuration", nil)
	}
	if opts.Counter == nil {
		return nil, errors.ConfigError("runner requires a token counter", nil)
	}
	if opts.Root == "" {
		return nil, errors.ConfigError("no directory provided", nil)
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.FilesystemError("resolve root", err).WithPath(opts.Root)
	}
	cfg := opts.Config

	outDir := cfg.OutputDirFor(root)

	annotator, err := annotate.New(root, cfg.Bundle.CommentPrefix)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = observability.NewNop()
	}
	renderer := opts.Tree
	if renderer == nil {
		renderer = tree.None{}
	}

	r := &Runner{
		root:      root,
		outputDir: outDir,
		cfg:       cfg,
		counter:   opts.Counter,
		tree:      renderer,
		log:       log.With(observability.String("root", root)),
		reporter:  opts.Reporter,
		dryRun:    opts.DryRun,
		lister: filelist.NewLister(filelist.Options{
			Extensions:  cfg.Files.Extensions,
			IgnoredDirs: cfg.Files.IgnoredDirs,
			Exclude:     cfg.Files.Exclude,
			SkipHidden:  cfg.Files.SkipHidden,
			SkipPaths:   []string{outDir},
		}),
		annotator: annotator,
		writer:    output.NewWriter(outDir, cfg.Output.Prefix, cfg.Output.Clean, opts.Counter),
	}
	r.metrics.Store(observability.NewMetrics())

	if cached, ok := opts.Counter.(*tokenizer.Cached); ok {
		cached.OnLookup(func(hit bool) {
			r.metrics.Load().RecordCacheHit(hit)
		}).OnStoreError(func(err error) {
			if r.cacheWarned.CompareAndSwap(false, true) {
				r.log.Warn("token cache write failed", observability.Err(err))
			}
		})
	}
	return r, nil
}

// Root returns the absolute root directory.
func (r *Runner) Root() string {
	return r.root
}

// OutputDir returns the absolute output directory.
func (r *Runner) OutputDir() string {
	return r.outputDir
}
