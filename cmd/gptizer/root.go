// Package main provides the gptizer CLI application.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gptizer/gptizer/pkg/config"
	"github.com/gptizer/gptizer/pkg/errors"
	"github.com/gptizer/gptizer/pkg/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	config   string
	logLevel string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gptizer",
		Short: "Pack a codebase into token-limited text files",
		Long: `gptizer annotates every source file under a directory with its path,
packs the annotated files in order into bundles that fit a model's context
length, and writes each bundle to its own text file ready to paste into a
chat, with a directory tree on the first one.`,
		Version:       version.FullString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.config, "config", "", "Path to a config file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCmd(g),
		newTreeCmd(g),
		newCountCmd(g),
		newConfigCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

// dirFlag registers the --dir/-d flag.
func dirFlag(fs *pflag.FlagSet, dst *string, def string) {
	fs.StringVarP(dst, "dir", "d", def, "Directory to search for files")
}

// checkDir verifies dir exists and is a directory.
func checkDir(dir string) error {
	if dir == "" {
		return errors.ConfigError("no directory provided", nil)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return errors.ConfigError("directory does not exist", err).WithPath(dir)
	}
	if !info.IsDir() {
		return errors.ConfigError("not a directory", nil).WithPath(dir)
	}
	return nil
}

// loadConfig layers files and environment for root, applies the global
// flags and overrides, then validates. Flags always win.
func loadConfig(g *globalFlags, root string, overrides func(*config.Config) error) (*config.Config, error) {
	loader := config.NewLoader().WithProjectRoot(root)
	if g.config != "" {
		loader = loader.WithConfigFile(g.config)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Global.LogLevel = g.logLevel
	}
	if overrides != nil {
		if err := overrides(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
