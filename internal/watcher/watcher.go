// Package watcher re-validates a dataset directory whenever its contents
// change.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fenilsonani/imgcheck/internal/logging"
)

// ScanFunc runs one validation pass over the watched directory
type ScanFunc func(ctx context.Context) error

// Service watches a single directory and coalesces bursts of file events
// into one scan.
type Service struct {
	dir      string
	scanFn   ScanFunc
	logger   *slog.Logger
	debounce time.Duration

	scans atomic.Int64
	ready chan struct{}
}

// NewService creates a watcher for dir. A nil logger discards output.
func NewService(dir string, scanFn ScanFunc, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		dir:      filepath.Clean(dir),
		scanFn:   scanFn,
		logger:   logger.With("component", "watcher"),
		debounce: 500 * time.Millisecond,
		ready:    make(chan struct{}),
	}
}

// SetDebounce overrides the default debounce interval
func (s *Service) SetDebounce(d time.Duration) {
	s.debounce = d
}

// Scans returns how many scans have been triggered so far
func (s *Service) Scans() int64 {
	return s.scans.Load()
}

// Ready is closed once the directory is being watched and the initial scan
// has finished.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Start runs an initial scan, then blocks re-scanning on changes until ctx
// is canceled. Scan failures are logged and do not stop the watcher.
func (s *Service) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close() //nolint:errcheck

	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}

	s.logger.Info("watching directory", "path", s.dir, "debounce", s.debounce)
	s.runScan(ctx, "initial")
	close(s.ready)

	// Starts stopped; reset on each relevant event
	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	defer debounceTimer.Stop()
	scanPending := false

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("watcher stopping")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !s.relevant(ev) {
				continue
			}
			s.logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(s.debounce)
			scanPending = true

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("fsnotify error", "error", err)

		case <-debounceTimer.C:
			if scanPending {
				scanPending = false
				s.runScan(ctx, "change")
			}
		}
	}
}

// relevant keeps events on direct children of the watched directory.
// Chmod alone never changes what a scan sees.
func (s *Service) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return filepath.Dir(ev.Name) == s.dir
}

func (s *Service) runScan(ctx context.Context, trigger string) {
	s.scans.Add(1)
	if err := s.scanFn(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("scan failed", "trigger", trigger, "error", err)
	}
}
