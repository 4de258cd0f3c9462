package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"

	"github.com/fenilsonani/imgcheck/internal/progress"
)

// LiveProgress draws a single, self-overwriting progress line for a scan.
// It is non-interactive and only enabled when the output is a terminal.
type LiveProgress struct {
	mu         sync.Mutex
	out        io.Writer
	bar        bubblesprogress.Model
	termWidth  int
	enabled    bool
	lastUpdate time.Time
	drawn      bool
}

// NewLiveProgress creates a progress line writing to out. When out is not a
// terminal the display stays disabled.
func NewLiveProgress(out io.Writer) *LiveProgress {
	width := 80
	enabled := false
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		enabled = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	barWidth := width / 3
	if barWidth > 40 {
		barWidth = 40
	}

	return &LiveProgress{
		out:       out,
		bar:       bubblesprogress.New(bubblesprogress.WithDefaultGradient(), bubblesprogress.WithWidth(barWidth)),
		termWidth: width,
		enabled:   enabled,
	}
}

// Enabled reports whether anything will be drawn
func (lp *LiveProgress) Enabled() bool {
	return lp.enabled
}

// Follow renders updates from reporter until Stop is called or the channel
// closes. It returns immediately when disabled.
func (lp *LiveProgress) Follow(reporter *progress.Reporter) (stop func()) {
	if !lp.enabled {
		return func() {}
	}

	updates := reporter.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for p := range updates {
			lp.Update(p)
		}
	}()

	return func() {
		reporter.Unsubscribe(updates)
		<-done
		lp.Clear()
	}
}

// Update redraws the line, throttled to avoid flicker
func (lp *LiveProgress) Update(p *progress.ScanProgress) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled || p == nil {
		return
	}

	now := time.Now()
	if p.Phase == progress.PhaseChecking && now.Sub(lp.lastUpdate) < 100*time.Millisecond {
		return
	}
	lp.lastUpdate = now

	fmt.Fprintf(lp.out, "\r\033[K%s", lp.Render(p))
	lp.drawn = true
}

// Render returns the progress line without terminal control sequences
func (lp *LiveProgress) Render(p *progress.ScanProgress) string {
	text := truncate(progress.FormatScanProgress(p), lp.termWidth-lp.bar.Width-2)
	return fmt.Sprintf("%s %s", lp.bar.ViewAs(p.Fraction()), text)
}

// Clear erases the progress line
func (lp *LiveProgress) Clear() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.drawn {
		fmt.Fprint(lp.out, "\r\033[K")
		lp.drawn = false
	}
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
