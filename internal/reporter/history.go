package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/fenilsonani/imgcheck/internal/history"
	"github.com/fenilsonani/imgcheck/internal/ui/styles"
)

// WriteHistory renders recorded runs as a table, newest first
func WriteHistory(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No scans recorded yet.")
		return err
	}

	fmt.Fprintf(w, "%-36s | %-16s | %6s | %6s | %6s | %7s | %s\n", "ID", "Started", "Total", "Passed", "Failed", "Skipped", "Directory")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 110))

	for _, run := range runs {
		started := humanize.Time(run.StartedAt)
		if run.Cancelled {
			started += "*"
		}
		if _, err := fmt.Fprintf(w, "%-36s | %-16s | %6d | %6d | %6d | %7d | %s\n",
			run.ID, started, run.Total, run.Passed, run.Failed, run.Skipped, run.Directory); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, styles.DimStyle.Render("* cancelled before every file was checked"))
	return err
}

// WriteChanges lists files whose outcome differs between two runs
func WriteChanges(w io.Writer, changes []history.Change) error {
	if len(changes) == 0 {
		_, err := fmt.Fprintln(w, "No changes since the previous scan.")
		return err
	}

	for _, c := range changes {
		var line string
		switch {
		case c.Added:
			line = fmt.Sprintf("+ %s (%s)", c.Name, c.Current)
		case c.Removed:
			line = fmt.Sprintf("- %s (was %s)", c.Name, c.Previous)
		default:
			line = fmt.Sprintf("~ %s: %s -> %s", c.Name, c.Previous, c.Current)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
