package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/imgcheck/internal/history"
	"github.com/fenilsonani/imgcheck/internal/reporter"
	"github.com/fenilsonani/imgcheck/internal/security"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit   int
		dir     string
		changes bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scan runs",
		Long: `Lists scans recorded with --record or history.enabled, newest first. With
--changes, compares the two most recent runs of --dir file by file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, closer, err := setup(cmd)
			if err != nil {
				return err
			}
			defer closeQuietly(closer)

			path, err := cfg.HistoryPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded yet.")
				return nil
			}

			if dir != "" {
				resolved, err := security.ValidateScanDirectory(dir)
				if err != nil {
					return configFailure(err)
				}
				dir = resolved
			}

			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			if changes {
				if dir == "" {
					return configFailure(fmt.Errorf("--changes requires --dir"))
				}
				runs, err := store.Recent(cmd.Context(), dir, 2)
				if err != nil {
					return err
				}
				if len(runs) < 2 {
					fmt.Fprintln(cmd.OutOrStdout(), "Need at least two recorded scans of this directory.")
					return nil
				}
				diff, err := store.Changes(cmd.Context(), runs[1].ID, runs[0].ID)
				if err != nil {
					return err
				}
				return reporter.WriteChanges(cmd.OutOrStdout(), diff)
			}

			runs, err := store.Recent(cmd.Context(), dir, limit)
			if err != nil {
				return err
			}
			return reporter.WriteHistory(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&dir, "dir", "", "only list runs of this directory")
	cmd.Flags().BoolVar(&changes, "changes", false, "show files whose outcome changed between the last two runs")
	return cmd
}
