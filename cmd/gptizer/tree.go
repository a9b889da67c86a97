// Package main provides the gptizer CLI application.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gptizer/gptizer/pkg/config"
	"github.com/gptizer/gptizer/pkg/filelist"
	"github.com/gptizer/gptizer/pkg/tree"
)

func newTreeCmd(g *globalFlags) *cobra.Command {
	var dir, mode string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the directory tree placed in the first bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkDir(dir); err != nil {
				return err
			}
			cfg, err := loadConfig(g, dir, func(c *config.Config) error {
				if cmd.Flags().Changed("tree") {
					c.Tree.Mode = mode
				}
				return nil
			})
			if err != nil {
				return err
			}

			files, err := filelist.NewLister(filelist.Options{
				Extensions:  cfg.Files.Extensions,
				IgnoredDirs: cfg.Files.IgnoredDirs,
				Exclude:     cfg.Files.Exclude,
				SkipHidden:  cfg.Files.SkipHidden,
				SkipPaths:   []string{cfg.OutputDirFor(dir)},
			}).List(cmd.Context(), dir)
			if err != nil {
				return err
			}

			renderer, err := tree.New(cfg.Tree.Mode, cfg.TreeIgnore(dir))
			if err != nil {
				return err
			}
			text, err := renderer.Render(cmd.Context(), absPath(dir), files)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	dirFlag(cmd.Flags(), &dir, ".")
	cmd.Flags().StringVar(&mode, "tree", "", "Directory tree: auto, exec, builtin or none")
	return cmd
}
