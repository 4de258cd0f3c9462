package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Phase represents the current phase of a scan
type Phase string

const (
	PhaseListing  Phase = "listing"
	PhaseChecking Phase = "checking"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// ScanProgress is a snapshot of a running scan
type ScanProgress struct {
	Phase       Phase
	Directory   string
	CurrentFile string
	FilesDone   int
	FilesTotal  int
	Failed      int
	StartTime   time.Time
	Error       error
}

// Fraction returns completed work in [0, 1]
func (p *ScanProgress) Fraction() float64 {
	if p == nil || p.FilesTotal == 0 {
		return 0
	}
	return float64(p.FilesDone) / float64(p.FilesTotal)
}

// Reporter provides thread-safe progress reporting
type Reporter struct {
	current   *ScanProgress
	mu        sync.RWMutex
	listeners []chan *ScanProgress
}

// NewReporter creates a new progress reporter
func NewReporter() *Reporter {
	return &Reporter{
		listeners: make([]chan *ScanProgress, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (r *Reporter) Subscribe() <-chan *ScanProgress {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan *ScanProgress, 10)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (r *Reporter) Unsubscribe(ch <-chan *ScanProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Update stores a snapshot and notifies listeners without blocking
func (r *Reporter) Update(update *ScanProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Sends happen under the lock so Unsubscribe cannot close a channel mid-send
	r.current = update
	for _, listener := range r.listeners {
		select {
		case listener <- update:
		default:
			// Slow listener, drop
		}
	}
}

// Current returns the latest snapshot
func (r *Reporter) Current() *ScanProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// FormatScanProgress returns a human-readable scan progress string
func FormatScanProgress(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseListing:
		return fmt.Sprintf("Listing %s...", p.Directory)
	case PhaseChecking:
		return fmt.Sprintf("Checking %d/%d files (%d failed) [%s]",
			p.FilesDone,
			p.FilesTotal,
			p.Failed,
			FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Checked %d files in %s (started %s)",
			p.FilesDone,
			FormatDuration(elapsed),
			humanize.Time(p.StartTime))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
