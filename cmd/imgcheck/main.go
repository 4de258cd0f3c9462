package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/imgcheck/internal/config"
	"github.com/fenilsonani/imgcheck/internal/logging"
	"github.com/fenilsonani/imgcheck/internal/scanner"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Exit codes
const (
	exitOK          = 0
	exitFailures    = 1
	exitConfigError = 2
)

var (
	configPath string
	verbose    bool
	logLevel   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to a process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintln(stderr, "Error:", exit.err)
		}
		return exit.code
	}

	fmt.Fprintln(stderr, "Error:", err)
	if scanner.IsConfigError(err) {
		return exitConfigError
	}
	return exitFailures
}

// exitError carries a specific exit code out of a command. A nil err means
// the command already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func configFailure(err error) error {
	return &exitError{code: exitConfigError, err: err}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "imgcheck",
		Short: "Image dataset integrity checker",
		Long: `imgcheck validates a directory of training images: every file must decode,
optionally carry an allowed extension and optionally match an expected size.
It only reads files and never modifies them.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Flag parse errors are usage problems, not scan failures
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return configFailure(err)
	})

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output (debug logging)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newScanCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newConfigCmd())

	return root
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}

// setup loads configuration and builds the logger shared by a command
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, configFailure(fmt.Errorf("failed to load config: %w", err))
	}

	switch {
	case verbose:
		cfg.Logging.Level = "debug"
	case logLevel != "":
		if !logging.ValidLevel(logLevel) {
			return nil, nil, nil, configFailure(fmt.Errorf("invalid log level %q", logLevel))
		}
		cfg.Logging.Level = logLevel
	}

	logger, closer := logging.New(cfg.Logging, cmd.ErrOrStderr())
	return cfg, logger, closer, nil
}
