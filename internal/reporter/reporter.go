package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/imgcheck/internal/scanner"
	"github.com/fenilsonani/imgcheck/internal/ui/styles"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat converts a flag value to an OutputFormat
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatSummary, "":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (want summary, table, json or yaml)", s)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report renders a scan report
func (r *Reporter) Report(report *scanner.ScanReport) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(report)
	case FormatJSON:
		return r.reportJSON(report)
	case FormatYAML:
		return r.reportYAML(report)
	case FormatSummary:
		return r.reportSummary(report)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// SummaryLine returns the one-line result printed after a scan
func SummaryLine(report *scanner.ScanReport) string {
	s := report.Summary
	line := fmt.Sprintf("total=%d passed=%d skipped=%d failed=%d", s.Total, s.Passed, s.Skipped, s.Failed)
	if s.Duplicates > 0 {
		line += fmt.Sprintf(" duplicates=%d", s.Duplicates)
	}
	if report.Cancelled {
		line += fmt.Sprintf(" unprocessed=%d (cancelled)", s.Unprocessed)
	}
	return line
}

// WriteProblems writes one line per failed or skipped file
func WriteProblems(w io.Writer, report *scanner.ScanReport) error {
	for _, rec := range report.Problems() {
		tag := "FAIL"
		if rec.Issue.IsSkip() {
			tag = "SKIP"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", styles.Tag(tag), rec.UserMessage()); err != nil {
			return err
		}
	}
	return nil
}

// WriteWarnings writes one line per decoder warning. Records only carry
// warnings when they were not suppressed.
func WriteWarnings(w io.Writer, report *scanner.ScanReport) error {
	for _, rec := range report.Records {
		for _, msg := range rec.Warnings {
			if _, err := fmt.Fprintf(w, "%s %s: %s\n", styles.Tag("WARN"), rec.Name, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// reportSummary generates a summary report
func (r *Reporter) reportSummary(report *scanner.ScanReport) error {
	s := report.Summary

	fmt.Fprintf(r.writer, "%s\n", styles.TitleStyle.Render("=== Dataset Check Summary ==="))
	fmt.Fprintf(r.writer, "Directory: %s\n", report.Directory)
	fmt.Fprintf(r.writer, "Files: %d (%s)\n", s.Total, humanize.IBytes(uint64(s.TotalBytes)))
	fmt.Fprintf(r.writer, "Passed: %d  Failed: %d  Skipped: %d\n", s.Passed, s.Failed, s.Skipped)

	fmt.Fprintf(r.writer, "\nBreakdown by Issue:\n")
	grouped := scanner.GroupByIssue(report.Records)
	for _, issue := range []scanner.Issue{
		scanner.IssueDecodeError,
		scanner.IssueDimensionMismatch,
		scanner.IssueUnsupportedFormat,
		scanner.IssueNotAFile,
		scanner.IssueExcluded,
	} {
		if recs, ok := grouped[issue]; ok {
			fmt.Fprintf(r.writer, "  %s: %d\n", issue, len(recs))
		}
	}
	if len(grouped) == 0 {
		fmt.Fprintf(r.writer, "  none\n")
	}

	if s.Duplicates > 0 {
		fmt.Fprintf(r.writer, "\nDuplicates: %d\n", s.Duplicates)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(r.writer, "Warnings: %d\n", s.Warnings)
	}
	if report.Cancelled {
		fmt.Fprintf(r.writer, "\nScan cancelled, %d entries not processed\n", s.Unprocessed)
	}

	fmt.Fprintf(r.writer, "\nDuration: %s\n", report.Duration().Round(time.Millisecond))
	return nil
}

// reportTable generates a table report
func (r *Reporter) reportTable(report *scanner.ScanReport) error {
	fmt.Fprintf(r.writer, "%-40s | %-8s | %-9s | %-6s | %-11s | %s\n", "File", "Status", "Decodable", "Format", "Size", "Issue")
	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 110))

	for _, rec := range report.Records {
		name := shortenName(rec.Name, 40)

		dims := "-"
		if rec.Decodable {
			dims = fmt.Sprintf("%dx%d", rec.Width, rec.Height)
		}

		issue := ""
		if rec.Issue != scanner.IssueNone {
			issue = rec.Issue.String()
			if rec.Error != "" {
				issue += ": " + rec.Error
			}
		}

		fmt.Fprintf(r.writer, "%-40s | %-8s | %-9t | %-6s | %-11s | %s\n",
			name,
			statusLabel(rec),
			rec.Decodable,
			rec.Format,
			dims,
			issue)
	}

	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 110))
	fmt.Fprintf(r.writer, "%s\n", SummaryLine(report))

	return nil
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(report *scanner.ScanReport) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(report *scanner.ScanReport) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(report)
}

// shortenName keeps the tail of names longer than width runes, where the
// extension and any numbering usually sit
func shortenName(name string, width int) string {
	runes := []rune(name)
	if len(runes) <= width {
		return name
	}
	return "..." + string(runes[len(runes)-(width-3):])
}

func statusLabel(rec scanner.FileRecord) string {
	switch {
	case rec.Skipped():
		return "skipped"
	case rec.Passed():
		return "passed"
	default:
		return "failed"
	}
}

// SaveToFile saves the report to a file
func SaveToFile(report *scanner.ScanReport, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return New(file, format).Report(report)
}
