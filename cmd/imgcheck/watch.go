package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/imgcheck/internal/reporter"
	"github.com/fenilsonani/imgcheck/internal/security"
	"github.com/fenilsonani/imgcheck/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		flags    scanFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-check a directory whenever it changes",
		Long: `Runs a scan, then watches the directory and scans again after each burst of
changes. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := setup(cmd)
			if err != nil {
				return err
			}
			defer closeQuietly(closer)

			if err := flags.apply(cmd, cfg); err != nil {
				return configFailure(err)
			}

			dir, err := security.ValidateScanDirectory(cfg.Directory)
			if err != nil {
				return configFailure(err)
			}
			cfg.Directory = dir

			r := flags.newRunner(cfg, logger, cmd.ErrOrStderr())
			out := cmd.OutOrStdout()

			scanFn := func(ctx context.Context) error {
				report, err := r.scan(ctx)
				if report == nil {
					return err
				}
				if werr := reporter.WriteProblems(cmd.ErrOrStderr(), report); werr != nil {
					return werr
				}
				fmt.Fprintf(out, "%s %s\n", report.FinishedAt.Format(time.TimeOnly), reporter.SummaryLine(report))
				return err
			}

			svc := watcher.NewService(dir, scanFn, logger)
			if debounce > 0 {
				svc.SetDebounce(debounce)
			}

			if err := svc.Start(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-scanning (default 500ms)")
	return cmd
}
