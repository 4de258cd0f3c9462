package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fenilsonani/imgcheck/internal/config"
	"github.com/fenilsonani/imgcheck/internal/logging"
	"github.com/fenilsonani/imgcheck/internal/progress"
)

// Scanner validates image directories
type Scanner struct {
	logger           *slog.Logger
	workerCount      int
	keepPartial      bool
	progressReporter *progress.Reporter
}

// New creates a new Scanner. A nil logger discards all output.
func New(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.Discard()
	}

	return &Scanner{
		logger:           logger.With("component", "scanner"),
		workerCount:      DefaultWorkerCount(),
		keepPartial:      true,
		progressReporter: progress.NewReporter(),
	}
}

// DefaultWorkerCount picks a worker count from the CPU count
func DefaultWorkerCount() int {
	workerCount := runtime.NumCPU()
	if workerCount < 4 {
		workerCount = 4 // Decoding is partly I/O bound
	}
	if workerCount > 16 {
		workerCount = 16
	}
	return workerCount
}

// SetWorkers sets the number of files checked at once. Values below 1 select
// DefaultWorkerCount.
func (s *Scanner) SetWorkers(n int) {
	if n < 1 {
		n = DefaultWorkerCount()
	}
	s.workerCount = n
}

// SetKeepPartial controls whether a cancelled scan returns the records
// finished so far (true) or no report at all (false)
func (s *Scanner) SetKeepPartial(keep bool) {
	s.keepPartial = keep
}

// SetProgressReporter sets a custom progress reporter
func (s *Scanner) SetProgressReporter(pr *progress.Reporter) {
	s.progressReporter = pr
}

// GetProgressReporter returns the scanner's progress reporter
func (s *Scanner) GetProgressReporter() *progress.Reporter {
	return s.progressReporter
}

// NewTarget builds a ScanTarget from configuration
func NewTarget(cfg *config.Config) ScanTarget {
	return ScanTarget{
		Directory:               cfg.Directory,
		CheckExtensions:         cfg.CheckExtensions,
		AllowedExtensions:       append([]string(nil), cfg.AllowedExtensions...),
		CheckDimensions:         cfg.CheckDimensions,
		ExpectedSize:            cfg.ExpectedSize,
		SuppressDecoderWarnings: cfg.SuppressDecoderWarnings,
		ExcludePatterns:         append([]string(nil), cfg.ExcludePatterns...),
		DetectDuplicates:        cfg.DetectDuplicates,
	}
}

// Scan checks every entry of target.Directory and returns a report with one
// record per entry in filename order.
//
// Only a *ConfigError is returned for problems with the target; per-file
// problems are recorded in the report. If ctx is cancelled, no new files are
// started, in-flight files finish, and ctx.Err() is returned together with
// the partial report (or a nil report when partial results are discarded).
func (s *Scanner) Scan(ctx context.Context, target ScanTarget) (*ScanReport, error) {
	plan, err := target.plan()
	if err != nil {
		return nil, err
	}

	report := &ScanReport{
		ID:        uuid.NewString(),
		Directory: plan.dir,
		StartedAt: time.Now(),
	}

	logger := s.logger.With("scan_id", report.ID, "directory", plan.dir)
	s.reportProgress(&progress.ScanProgress{
		Phase:     progress.PhaseListing,
		Directory: plan.dir,
		StartTime: report.StartedAt,
	})

	entries, err := os.ReadDir(plan.dir)
	if err != nil {
		return nil, &ConfigError{Field: "directory", Err: fmt.Errorf("failed to list directory: %w", err)}
	}

	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	sort.Strings(names)

	logger.Info("scan started", "entries", len(names), "workers", s.workerCount)

	sink := newWarningSink(plan.suppressWarnings, logger)
	coll := newCollector(len(names))

	var g errgroup.Group
	g.SetLimit(s.workerCount)

	for _, name := range names {
		// Go blocks while all workers are busy, so this check runs between files
		if ctx.Err() != nil {
			break
		}

		name := name // per-iteration copy (go 1.21 loop semantics)
		g.Go(func() error {
			rec := plan.check(name, sink)
			if rec.Issue == IssueDecodeError {
				logger.Debug("decode failed", "file", name, "error", rec.Error)
			}

			done, failed := coll.add(rec)
			s.reportProgress(&progress.ScanProgress{
				Phase:       progress.PhaseChecking,
				Directory:   plan.dir,
				CurrentFile: name,
				FilesDone:   done,
				FilesTotal:  len(names),
				Failed:      failed,
				StartTime:   report.StartedAt,
			})
			return nil
		})
	}

	// Workers never return errors
	_ = g.Wait()

	report.Records = coll.sorted()
	if plan.detectDuplicates {
		markDuplicates(report.Records)
	}
	report.tally(len(names) - len(report.Records))
	report.FinishedAt = time.Now()

	if sink.Suppressed() > 0 {
		logger.Debug("decoder warnings suppressed", "count", sink.Suppressed())
	}

	// A cancellation that arrives after the last file was started changes nothing
	if err := ctx.Err(); err != nil && report.Summary.Unprocessed > 0 {
		report.Cancelled = true
		logger.Warn("scan cancelled",
			"processed", len(report.Records),
			"unprocessed", report.Summary.Unprocessed)
		s.reportProgress(&progress.ScanProgress{
			Phase:     progress.PhaseError,
			Directory: plan.dir,
			FilesDone: len(report.Records),
			StartTime: report.StartedAt,
			Error:     err,
		})

		if !s.keepPartial {
			return nil, err
		}
		return report, err
	}

	logger.Info("scan finished",
		"total", report.Summary.Total,
		"passed", report.Summary.Passed,
		"failed", report.Summary.Failed,
		"skipped", report.Summary.Skipped,
		"duration", report.Duration())

	s.reportProgress(&progress.ScanProgress{
		Phase:      progress.PhaseComplete,
		Directory:  plan.dir,
		FilesDone:  len(report.Records),
		FilesTotal: len(names),
		Failed:     report.Summary.Failed,
		StartTime:  report.StartedAt,
	})

	return report, nil
}

func (s *Scanner) reportProgress(p *progress.ScanProgress) {
	if s.progressReporter != nil {
		s.progressReporter.Update(p)
	}
}
