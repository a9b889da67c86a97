// Package main provides the gptizer CLI application.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gptizer/gptizer/pkg/config"
	"github.com/gptizer/gptizer/pkg/errors"
	"github.com/gptizer/gptizer/pkg/tokenizer"
)

func newCountCmd(g *globalFlags) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "count [files...]",
		Short: "Count tokens in files, or stdin when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, ".", func(c *config.Config) error {
				if cmd.Flags().Changed("tokenizer") {
					c.Tokenizer.Kind = kind
				}
				return nil
			})
			if err != nil {
				return err
			}

			counter, err := tokenizer.New(cfg.Tokenizer, cfg.Global.CacheDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.FilesystemError("read stdin", err)
				}
				n, err := counter.Count(string(data))
				if err != nil {
					return errors.TokenizationError("count stdin", err)
				}
				fmt.Fprintln(out, n)
				return nil
			}

			total := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return errors.FilesystemError("read file", err).WithPath(path)
				}
				n, err := counter.Count(string(data))
				if err != nil {
					return errors.TokenizationError("count file", err).WithPath(path)
				}
				total += n
				fmt.Fprintf(out, "%8s  %s\n", humanize.Comma(int64(n)), path)
			}
			if len(args) > 1 {
				fmt.Fprintf(out, "%8s  total\n", humanize.Comma(int64(total)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "tokenizer", "", "Token counter: tiktoken or estimate")
	return cmd
}
