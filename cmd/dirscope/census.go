package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/CageChen/dirscope/internal/census"
	"github.com/CageChen/dirscope/internal/cli"
	"github.com/CageChen/dirscope/internal/config"
)

func newCensusCmd(overrides *config.Overrides) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "census [path]",
		Short: "Count files under a directory by size bucket",
		Long: heredoc.Doc(`
			Walk a directory tree once and print the number of files in each
			size bucket, the directories visited and the directories that could
			not be read. Interrupt with Ctrl-C to abort the walk.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			allowed := []string{"table", "json"}
			if !slices.Contains(allowed, output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", output, allowed)
			}

			o := *overrides
			if len(args) == 1 {
				o.StartDir = args[0]
			}
			cfg, err := config.Load(o)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runCensus(ctx, cfg, output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: json or table")

	return cmd
}

func runCensus(ctx context.Context, cfg *config.Config, output string, stdout io.Writer) error {
	lister := listerFor(cfg)

	enableProgress := output != "json" && isatty.IsTerminal(os.Stderr.Fd())

	opts := census.Options{ProgressInterval: cfg.ProgressInterval}
	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")

		opts.Progress = func(p census.Progress) {
			fmt.Fprintf(os.Stderr, "\r\033[2KScanning… %s directories, %s files\r",
				humanize.Comma(p.Directories), humanize.Comma(p.Files))
		}
	}

	start := time.Now()
	acc, err := census.NewEngine(lister, opts).Census(ctx, cfg.StartDir)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	result := cli.NewResult(lister.DisplayName(cfg.StartDir), acc, time.Since(start))
	if output == "json" {
		return cli.PrintJSON(result, stdout)
	}
	return cli.PrintTable(result, stdout)
}
