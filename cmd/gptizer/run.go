// Package main provides the gptizer CLI application.
package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gptizer/gptizer/pkg/config"
	"github.com/gptizer/gptizer/pkg/observability"
	"github.com/gptizer/gptizer/pkg/output"
	"github.com/gptizer/gptizer/pkg/runner"
	"github.com/gptizer/gptizer/pkg/tokenizer"
	"github.com/gptizer/gptizer/pkg/tree"
)

// runFlags holds the flags for the run command
type runFlags struct {
	dir           string
	contextLength int
	outputDir     string
	tokenizer     string
	tree          string
	workers       int
	clean         bool
	watch         bool
	dryRun        bool
}

func newRunCmd(g *globalFlags) *cobra.Command {
	opts := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Annotate, bundle and write a directory",
		Long: `Annotate every supported file under --dir, pack them in order into
bundles of at most --context-length tokens and write them to
<dir>/gptizer_op/op_<n>.txt.

A file larger than the context length on its own is written as a bundle by
itself and reported as a warning.`,
		Example: `  gptizer run -d ./myproject
  gptizer run -d . -c 8000 --tokenizer estimate --tree builtin
  gptizer run -d . --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, g, opts)
		},
	}

	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	dirFlag(fs, &opts.dir, "")
	fs.IntVarP(&opts.contextLength, "context-length", "c", 0, "Maximum tokens per output file (default 4096)")
	fs.StringVar(&opts.outputDir, "output-dir", "", "Output directory, relative to --dir unless absolute")
	fs.StringVar(&opts.tokenizer, "tokenizer", "", "Token counter: tiktoken or estimate")
	fs.StringVar(&opts.tree, "tree", "", "Directory tree: auto, exec, builtin or none")
	fs.IntVarP(&opts.workers, "workers", "j", 0, "Files annotated and counted concurrently")
	fs.BoolVar(&opts.clean, "clean", false, "Remove stale numbered files from earlier runs")
	fs.BoolVarP(&opts.watch, "watch", "w", false, "Re-run whenever a source file changes")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Show the bundles that would be written without writing them")
	cmd.Flags().AddFlagSet(fs)
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}

// applyRunFlags copies flags the user set onto cfg.
func applyRunFlags(cfg *config.Config, fs *pflag.FlagSet, opts *runFlags) {
	if fs.Changed("context-length") {
		cfg.Bundle.ContextLength = opts.contextLength
	}
	if fs.Changed("output-dir") {
		cfg.Output.Dir = opts.outputDir
	}
	if fs.Changed("tokenizer") {
		cfg.Tokenizer.Kind = opts.tokenizer
	}
	if fs.Changed("tree") {
		cfg.Tree.Mode = opts.tree
	}
	if fs.Changed("workers") {
		cfg.Global.Workers = opts.workers
	}
	if fs.Changed("clean") {
		cfg.Output.Clean = opts.clean
	}
}

func runRun(cmd *cobra.Command, g *globalFlags, opts *runFlags) error {
	if err := checkDir(opts.dir); err != nil {
		return err
	}

	cfg, err := loadConfig(g, opts.dir, func(c *config.Config) error {
		applyRunFlags(c, cmd.Flags(), opts)
		return nil
	})
	if err != nil {
		return err
	}

	log := observability.NewLogger(cfg.Global.LogLevel)

	counter, err := tokenizer.New(cfg.Tokenizer, cfg.Global.CacheDir)
	if err != nil {
		return err
	}
	renderer, err := tree.New(cfg.Tree.Mode, cfg.TreeIgnore(opts.dir))
	if err != nil {
		return err
	}

	reporter := output.NewReporter(cmd.OutOrStdout())
	r, err := runner.New(runner.Options{
		Root:     opts.dir,
		Config:   cfg,
		Counter:  counter,
		Tree:     renderer,
		Logger:   log,
		Reporter: reporter,
		DryRun:   opts.dryRun,
	})
	if err != nil {
		return err
	}

	if opts.watch {
		log.Info("watching for changes", observability.String("root", r.Root()))
		return r.Watch(cmd.Context(), func(res *runner.Result, err error) {
			if err != nil {
				log.Error("run failed", observability.Err(err))
				return
			}
			report(reporter, res)
		})
	}

	res, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}
	report(reporter, res)
	return nil
}

func report(reporter *output.Reporter, res *runner.Result) {
	if res.Empty {
		reporter.NoFiles()
		return
	}
	reporter.Summary(res.Stats)
}
