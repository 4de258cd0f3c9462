package scanner

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigErrorMessage(t *testing.T) {
	cause := errors.New("directory does not exist: /data")
	err := &ConfigError{Field: "directory", Err: cause}

	if !strings.Contains(err.Error(), "(directory)") || !strings.Contains(err.Error(), "/data") {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ConfigError should unwrap to its cause")
	}

	wrapped := fmt.Errorf("scan failed: %w", err)
	if !IsConfigError(wrapped) {
		t.Error("IsConfigError should see through wrapping")
	}
	if IsConfigError(errors.New("other")) {
		t.Error("plain errors are not configuration errors")
	}

	noField := &ConfigError{Err: cause}
	if strings.Contains(noField.Error(), "()") {
		t.Errorf("empty field should not be rendered: %s", noField.Error())
	}
}

func TestIssueString(t *testing.T) {
	tests := []struct {
		issue    Issue
		expected string
		skip     bool
	}{
		{IssueNone, "OK", false},
		{IssueDecodeError, "Cannot decode image", false},
		{IssueUnsupportedFormat, "Unsupported format", true},
		{IssueDimensionMismatch, "Dimension mismatch", false},
		{IssueNotAFile, "Not a regular file", true},
		{IssueExcluded, "Excluded by pattern", true},
		{Issue("bogus"), "Unspecified issue", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.issue), func(t *testing.T) {
			if got := tt.issue.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
			if got := tt.issue.IsSkip(); got != tt.skip {
				t.Errorf("IsSkip() = %v, want %v", got, tt.skip)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		rec      FileRecord
		contains string
	}{
		{FileRecord{Name: "c.txt", Issue: IssueUnsupportedFormat}, "skipping unsupported file: c.txt"},
		{FileRecord{Name: "d.jpg", Issue: IssueDecodeError, Error: "unexpected EOF"}, "error processing d.jpg: unexpected EOF"},
		{FileRecord{Name: "b.png", Issue: IssueDimensionMismatch, Error: "got 100x100, want 224x224"}, "b.png: got 100x100"},
		{FileRecord{Name: "sub", Issue: IssueNotAFile}, "non-file entry: sub"},
		{FileRecord{Name: "t.jpg", Issue: IssueExcluded}, "excluded file: t.jpg"},
		{FileRecord{Name: "a.jpg"}, "ok: a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.rec.Name, func(t *testing.T) {
			if got := tt.rec.UserMessage(); !strings.Contains(got, tt.contains) {
				t.Errorf("UserMessage() = %q, want substring %q", got, tt.contains)
			}
		})
	}
}

func TestGroupByIssue(t *testing.T) {
	records := []FileRecord{
		{Name: "a", Issue: IssueNone},
		{Name: "b", Issue: IssueDecodeError},
		{Name: "c", Issue: IssueDecodeError},
		{Name: "d", Issue: IssueUnsupportedFormat},
	}

	grouped := GroupByIssue(records)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}
	if len(grouped[IssueDecodeError]) != 2 {
		t.Errorf("expected 2 decode errors, got %d", len(grouped[IssueDecodeError]))
	}
	if _, ok := grouped[IssueNone]; ok {
		t.Error("records without an issue should not be grouped")
	}
}

func TestRecordClassification(t *testing.T) {
	match, mismatch := true, false

	tests := []struct {
		name    string
		rec     FileRecord
		passed  bool
		failed  bool
		skipped bool
	}{
		{"decoded, no size check", FileRecord{Status: StatusChecked, Decodable: true}, true, false, false},
		{"decoded, size match", FileRecord{Status: StatusChecked, Decodable: true, SizeMatch: &match}, true, false, false},
		{"decoded, size mismatch", FileRecord{Status: StatusChecked, Decodable: true, SizeMatch: &mismatch}, false, true, false},
		{"not decodable", FileRecord{Status: StatusChecked}, false, true, false},
		{"skipped", FileRecord{Status: StatusSkipped, Issue: IssueUnsupportedFormat}, false, false, true},
		{"pending", FileRecord{Status: StatusPending}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Passed(); got != tt.passed {
				t.Errorf("Passed() = %v, want %v", got, tt.passed)
			}
			if got := tt.rec.Failed(); got != tt.failed {
				t.Errorf("Failed() = %v, want %v", got, tt.failed)
			}
			if got := tt.rec.Skipped(); got != tt.skipped {
				t.Errorf("Skipped() = %v, want %v", got, tt.skipped)
			}
		})
	}
}

func TestNormalizeExtension(t *testing.T) {
	tests := map[string]string{
		".jpg":   ".jpg",
		"JPG":    ".jpg",
		" .PNG ": ".png",
		"..gif":  ".gif",
		".":      "",
		"":       "",
	}

	for input, want := range tests {
		if got := NormalizeExtension(input); got != want {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMarkDuplicates(t *testing.T) {
	records := []FileRecord{
		{Name: "a", Hash: "h1"},
		{Name: "b", Hash: "h2"},
		{Name: "c", Hash: "h1"},
		{Name: "d"},
		{Name: "e"},
	}

	markDuplicates(records)

	if records[0].DuplicateOf != "" || records[1].DuplicateOf != "" {
		t.Error("first occurrences should not be marked")
	}
	if records[2].DuplicateOf != "a" {
		t.Errorf("c should duplicate a, got %q", records[2].DuplicateOf)
	}
	if records[3].DuplicateOf != "" || records[4].DuplicateOf != "" {
		t.Error("records without a hash are never duplicates")
	}
}
