package scanner

import (
	"time"

	"github.com/fenilsonani/imgcheck/pkg/utils"
)

// Status is the terminal state of a file in a scan
type Status string

const (
	StatusPending Status = "pending"
	StatusSkipped Status = "skipped"
	StatusChecked Status = "checked"
)

// ScanTarget is a directory plus the checks to run on it. A target is not
// modified by a scan.
type ScanTarget struct {
	Directory               string
	CheckExtensions         bool
	AllowedExtensions       []string
	CheckDimensions         bool
	ExpectedSize            utils.Dimensions
	SuppressDecoderWarnings bool
	ExcludePatterns         []string
	DetectDuplicates        bool
}

// FileRecord is the outcome of checking one directory entry
type FileRecord struct {
	Name          string   `json:"name" yaml:"name"`
	Status        Status   `json:"status" yaml:"status"`
	Issue         Issue    `json:"issue,omitempty" yaml:"issue,omitempty"`
	FormatAllowed bool     `json:"format_allowed" yaml:"format_allowed"`
	Decodable     bool     `json:"decodable" yaml:"decodable"`
	SizeMatch     *bool    `json:"size_match" yaml:"size_match"` // nil when not applicable
	Error         string   `json:"error,omitempty" yaml:"error,omitempty"`
	Format        string   `json:"format,omitempty" yaml:"format,omitempty"`
	Width         int      `json:"width,omitempty" yaml:"width,omitempty"`
	Height        int      `json:"height,omitempty" yaml:"height,omitempty"`
	Size          int64    `json:"size" yaml:"size"`
	Warnings      []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Hash          string   `json:"hash,omitempty" yaml:"hash,omitempty"`
	DuplicateOf   string   `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`
}

// Skipped reports whether the file was set aside without being checked
func (r *FileRecord) Skipped() bool {
	return r.Status == StatusSkipped
}

// Passed reports whether a checked file decoded and matched the expected size
// (when that check applies)
func (r *FileRecord) Passed() bool {
	if r.Status != StatusChecked || !r.Decodable {
		return false
	}
	return r.SizeMatch == nil || *r.SizeMatch
}

// Failed reports whether a checked file did not pass
func (r *FileRecord) Failed() bool {
	return r.Status == StatusChecked && !r.Passed()
}

// Summary holds aggregate counts for a report
type Summary struct {
	Total             int   `json:"total" yaml:"total"`
	Passed            int   `json:"passed" yaml:"passed"`
	Failed            int   `json:"failed" yaml:"failed"`
	Skipped           int   `json:"skipped" yaml:"skipped"`
	DecodeErrors      int   `json:"decode_errors" yaml:"decode_errors"`
	UnsupportedFormat int   `json:"unsupported_format" yaml:"unsupported_format"`
	SizeMismatches    int   `json:"size_mismatches" yaml:"size_mismatches"`
	Duplicates        int   `json:"duplicates" yaml:"duplicates"`
	Warnings          int   `json:"warnings" yaml:"warnings"`
	Unprocessed       int   `json:"unprocessed" yaml:"unprocessed"`
	TotalBytes        int64 `json:"total_bytes" yaml:"total_bytes"`
}

// ScanReport is the ordered result of validating one directory
type ScanReport struct {
	ID         string       `json:"id" yaml:"id"`
	Directory  string       `json:"directory" yaml:"directory"`
	StartedAt  time.Time    `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time    `json:"finished_at" yaml:"finished_at"`
	Cancelled  bool         `json:"cancelled" yaml:"cancelled"`
	Records    []FileRecord `json:"records" yaml:"records"`
	Summary    Summary      `json:"summary" yaml:"summary"`
}

// Duration returns how long the scan took
func (r *ScanReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Problems returns the failed and skipped records in report order
func (r *ScanReport) Problems() []FileRecord {
	problems := make([]FileRecord, 0)
	for _, rec := range r.Records {
		if rec.Failed() || rec.Skipped() {
			problems = append(problems, rec)
		}
	}
	return problems
}

// OK reports whether no file failed
func (r *ScanReport) OK() bool {
	return r.Summary.Failed == 0
}

// tally recomputes the summary from the records
func (r *ScanReport) tally(unprocessed int) {
	s := Summary{Total: len(r.Records), Unprocessed: unprocessed}

	for i := range r.Records {
		rec := &r.Records[i]
		s.TotalBytes += rec.Size
		s.Warnings += len(rec.Warnings)

		if rec.DuplicateOf != "" {
			s.Duplicates++
		}

		switch {
		case rec.Skipped():
			s.Skipped++
		case rec.Passed():
			s.Passed++
		default:
			s.Failed++
		}

		switch rec.Issue {
		case IssueDecodeError:
			s.DecodeErrors++
		case IssueUnsupportedFormat:
			s.UnsupportedFormat++
		case IssueDimensionMismatch:
			s.SizeMismatches++
		}
	}

	r.Summary = s
}
