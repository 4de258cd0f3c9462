package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/imgcheck/internal/config"
	"github.com/fenilsonani/imgcheck/internal/history"
	"github.com/fenilsonani/imgcheck/internal/progress"
	"github.com/fenilsonani/imgcheck/internal/reporter"
	"github.com/fenilsonani/imgcheck/internal/scanner"
	"github.com/fenilsonani/imgcheck/internal/ui"
	"github.com/fenilsonani/imgcheck/pkg/utils"
)

// scanFlags are the check options shared by scan, report and watch
type scanFlags struct {
	dir          string
	checkFormat  bool
	checkSize    string
	workers      int
	warnings     bool
	duplicates   bool
	exclude      []string
	showProgress bool
	record       bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dir, "dir", "", "directory to check (overrides config)")
	cmd.Flags().BoolVar(&f.checkFormat, "check-format", true, "skip files whose extension is not allowed")
	cmd.Flags().StringVar(&f.checkSize, "check-size", "", "require images to be exactly WxH pixels, e.g. 224x224")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "number of files checked in parallel (0 = auto)")
	cmd.Flags().BoolVar(&f.warnings, "warnings", false, "report decoder warnings instead of suppressing them")
	cmd.Flags().BoolVar(&f.duplicates, "duplicates", false, "flag files with identical content")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "glob patterns of entries to leave out")
	cmd.Flags().BoolVar(&f.showProgress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().BoolVar(&f.record, "record", false, "record the run in the scan history")
}

// apply overrides configuration with the flags the user actually set
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("dir") {
		cfg.Directory = f.dir
	}
	if flags.Changed("check-format") {
		cfg.CheckExtensions = f.checkFormat
	}
	if flags.Changed("check-size") {
		dims, err := utils.ParseDimensions(f.checkSize)
		if err != nil {
			return fmt.Errorf("invalid --check-size: %w", err)
		}
		cfg.CheckDimensions = true
		cfg.ExpectedSize = dims
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("warnings") {
		cfg.SuppressDecoderWarnings = !f.warnings
	}
	if flags.Changed("duplicates") {
		cfg.DetectDuplicates = f.duplicates
	}
	if flags.Changed("exclude") {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, f.exclude...)
	}
	if flags.Changed("record") {
		cfg.History.Enabled = f.record
	}

	return cfg.Validate()
}

// newRunner builds the runner for one command invocation
func (f *scanFlags) newRunner(cfg *config.Config, logger *slog.Logger, stderr io.Writer) *runner {
	return &runner{cfg: cfg, logger: logger, stderr: stderr, showProgress: f.showProgress}
}

// runner performs scans for one command invocation
type runner struct {
	cfg          *config.Config
	logger       *slog.Logger
	stderr       io.Writer
	showProgress bool
}

func (r *runner) scan(ctx context.Context) (*scanner.ScanReport, error) {
	scnr := scanner.New(r.logger)
	if r.cfg.Workers > 0 {
		scnr.SetWorkers(r.cfg.Workers)
	}

	if r.showProgress {
		live := ui.NewLiveProgress(r.stderr)
		if live.Enabled() {
			pr := progress.NewReporter()
			scnr.SetProgressReporter(pr)
			stop := live.Follow(pr)
			defer stop()
		}
	}

	report, err := scnr.Scan(ctx, scanner.NewTarget(r.cfg))
	if err != nil && report == nil {
		return nil, err
	}

	if r.cfg.History.Enabled {
		r.record(report)
	}

	return report, err
}

// record stores the report in the history database. Failures are logged and
// never change the scan outcome.
func (r *runner) record(report *scanner.ScanReport) {
	path, err := r.cfg.HistoryPath()
	if err != nil {
		r.logger.Warn("cannot resolve history path", "error", err)
		return
	}

	store, err := history.Open(path)
	if err != nil {
		r.logger.Warn("cannot open history", "path", path, "error", err)
		return
	}
	defer store.Close()

	// Recorded even when the scan itself was cancelled
	if err := store.Record(context.Background(), report); err != nil {
		r.logger.Warn("cannot record scan", "path", path, "error", err)
		return
	}
	r.logger.Debug("scan recorded", "path", path, "scan_id", report.ID)
}

// scanErr maps a Scan error to the command result
func scanErr(err error) error {
	switch {
	case scanner.IsConfigError(err):
		return configFailure(err)
	case errors.Is(err, context.Canceled):
		return &exitError{code: exitFailures, err: errors.New("scan cancelled")}
	default:
		return err
	}
}

func newScanCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Check every file in a dataset directory",
		Long: `Checks every entry of a directory. Problem files are listed on stderr and a
one-line summary is printed on stdout. The exit status is 0 when no file
failed, 1 when at least one did and 2 for configuration errors.`,
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

			r := flags.newRunner(cfg, logger, cmd.ErrOrStderr())
			report, err := r.scan(cmd.Context())
			if report == nil {
				return scanErr(err)
			}

			if werr := reporter.WriteProblems(cmd.ErrOrStderr(), report); werr != nil {
				return werr
			}
			if werr := reporter.WriteWarnings(cmd.ErrOrStderr(), report); werr != nil {
				return werr
			}
			fmt.Fprintln(cmd.OutOrStdout(), reporter.SummaryLine(report))

			if err != nil {
				return scanErr(err)
			}
			if report.Summary.Failed > 0 {
				return &exitError{code: exitFailures}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		flags      scanFlags
		outputFmt  string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a detailed report",
		Long:  `Checks a dataset directory and renders the full report as a summary, table, JSON or YAML.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := reporter.ParseFormat(outputFmt)
			if err != nil {
				return configFailure(err)
			}

			cfg, logger, closer, err := setup(cmd)
			if err != nil {
				return err
			}
			defer closeQuietly(closer)

			if err := flags.apply(cmd, cfg); err != nil {
				return configFailure(err)
			}

			r := flags.newRunner(cfg, logger, cmd.ErrOrStderr())
			report, err := r.scan(cmd.Context())
			if report == nil {
				return scanErr(err)
			}

			if outputFile != "" {
				if err := reporter.SaveToFile(report, outputFile, format); err != nil {
					return fmt.Errorf("failed to save report: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", outputFile)
			} else if err := reporter.New(cmd.OutOrStdout(), format).Report(report); err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}

			if err != nil {
				return scanErr(err)
			}
			if report.Summary.Failed > 0 {
				return &exitError{code: exitFailures}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")
	cmd.Flags().StringVar(&outputFile, "file", "", "save report to file")
	return cmd
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
