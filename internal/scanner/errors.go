package scanner

import (
	"errors"
	"fmt"
)

// ConfigError reports an unusable scan target. It is the only error Scan
// returns before processing files.
type ConfigError struct {
	Field string
	Err   error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid scan configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid scan configuration (%s): %v", e.Field, e.Err)
}

// Unwrap returns the underlying cause
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is or wraps a ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// Issue categorizes why a file did not pass
type Issue string

const (
	IssueNone              Issue = ""
	IssueDecodeError       Issue = "decode_error"
	IssueUnsupportedFormat Issue = "unsupported_format"
	IssueDimensionMismatch Issue = "dimension_mismatch"
	IssueNotAFile          Issue = "not_a_file"
	IssueExcluded          Issue = "excluded"
)

// String returns a human-readable issue
func (i Issue) String() string {
	switch i {
	case IssueNone:
		return "OK"
	case IssueDecodeError:
		return "Cannot decode image"
	case IssueUnsupportedFormat:
		return "Unsupported format"
	case IssueDimensionMismatch:
		return "Dimension mismatch"
	case IssueNotAFile:
		return "Not a regular file"
	case IssueExcluded:
		return "Excluded by pattern"
	default:
		return "Unspecified issue"
	}
}

// IsSkip reports whether the issue ends a file in the Skipped state
func (i Issue) IsSkip() bool {
	switch i {
	case IssueUnsupportedFormat, IssueNotAFile, IssueExcluded:
		return true
	}
	return false
}

// UserMessage returns a one-line description of a record's problem
func (r *FileRecord) UserMessage() string {
	switch r.Issue {
	case IssueNone:
		return fmt.Sprintf("ok: %s", r.Name)
	case IssueUnsupportedFormat:
		return fmt.Sprintf("skipping unsupported file: %s", r.Name)
	case IssueNotAFile:
		return fmt.Sprintf("skipping non-file entry: %s", r.Name)
	case IssueExcluded:
		return fmt.Sprintf("skipping excluded file: %s", r.Name)
	case IssueDecodeError:
		return fmt.Sprintf("error processing %s: %s", r.Name, r.Error)
	case IssueDimensionMismatch:
		return fmt.Sprintf("wrong size %s: %s", r.Name, r.Error)
	default:
		return fmt.Sprintf("%s: %s", r.Name, r.Issue)
	}
}

// GroupByIssue groups records by issue, leaving out records without one
func GroupByIssue(records []FileRecord) map[Issue][]FileRecord {
	grouped := make(map[Issue][]FileRecord)
	for _, rec := range records {
		if rec.Issue == IssueNone {
			continue
		}
		grouped[rec.Issue] = append(grouped[rec.Issue], rec)
	}
	return grouped
}
