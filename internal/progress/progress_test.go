package progress

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSubscribeReceivesUpdates(t *testing.T) {
	r := NewReporter()
	ch := r.Subscribe()

	update := &ScanProgress{Phase: PhaseChecking, FilesDone: 1, FilesTotal: 4}
	r.Update(update)

	select {
	case got := <-ch:
		if got != update {
			t.Errorf("expected the published snapshot, got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}

	if r.Current() != update {
		t.Error("Current should return the latest snapshot")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	r := NewReporter()
	ch := r.Subscribe()
	r.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed")
	}

	// Publishing after unsubscribe must not panic
	r.Update(&ScanProgress{Phase: PhaseComplete})
}

func TestUpdateDoesNotBlockOnFullListener(t *testing.T) {
	r := NewReporter()
	_ = r.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			r.Update(&ScanProgress{FilesDone: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Update blocked on a listener that never reads")
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		name string
		p    *ScanProgress
		want float64
	}{
		{"nil", nil, 0},
		{"empty dir", &ScanProgress{}, 0},
		{"half", &ScanProgress{FilesDone: 2, FilesTotal: 4}, 0.5},
		{"done", &ScanProgress{FilesDone: 3, FilesTotal: 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Fraction(); got != tt.want {
				t.Errorf("Fraction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatScanProgress(t *testing.T) {
	start := time.Now()

	tests := []struct {
		name     string
		p        *ScanProgress
		contains string
	}{
		{"nil", nil, "Initializing"},
		{"listing", &ScanProgress{Phase: PhaseListing, Directory: "/data"}, "Listing /data"},
		{"checking", &ScanProgress{Phase: PhaseChecking, FilesDone: 2, FilesTotal: 5, Failed: 1, StartTime: start}, "2/5 files (1 failed)"},
		{"complete", &ScanProgress{Phase: PhaseComplete, FilesDone: 5, StartTime: start}, "Checked 5 files"},
		{"error", &ScanProgress{Phase: PhaseError, Error: errors.New("boom")}, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatScanProgress(tt.p)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("FormatScanProgress() = %q, want substring %q", got, tt.contains)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "2s"},
		{90 * time.Second, "1m30s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h2m3s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
