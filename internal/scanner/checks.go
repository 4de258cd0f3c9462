package scanner

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Decoders registered with image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/fenilsonani/imgcheck/internal/security"
	"github.com/fenilsonani/imgcheck/pkg/utils"
)

// checkPlan is a validated, normalized ScanTarget
type checkPlan struct {
	dir              string
	checkExtensions  bool
	allowed          map[string]struct{}
	checkDimensions  bool
	expected         utils.Dimensions
	suppressWarnings bool
	exclude          []string
	detectDuplicates bool
}

// plan validates the target and returns ConfigError for anything unusable
func (t ScanTarget) plan() (*checkPlan, error) {
	dir, err := security.ValidateScanDirectory(t.Directory)
	if err != nil {
		return nil, &ConfigError{Field: "directory", Err: err}
	}

	p := &checkPlan{
		dir:              dir,
		checkExtensions:  t.CheckExtensions,
		allowed:          make(map[string]struct{}, len(t.AllowedExtensions)),
		checkDimensions:  t.CheckDimensions,
		expected:         t.ExpectedSize,
		suppressWarnings: t.SuppressDecoderWarnings,
		exclude:          t.ExcludePatterns,
		detectDuplicates: t.DetectDuplicates,
	}

	for _, ext := range t.AllowedExtensions {
		norm := NormalizeExtension(ext)
		if norm == "" {
			return nil, configErrorf("allowed_extensions", "invalid extension %q", ext)
		}
		p.allowed[norm] = struct{}{}
	}
	if p.checkExtensions && len(p.allowed) == 0 {
		return nil, configErrorf("allowed_extensions", "no extensions allowed while the extension check is enabled")
	}

	if p.checkDimensions && !p.expected.Valid() {
		return nil, configErrorf("expected_size", "width and height must be > 0, got %s", p.expected)
	}

	for _, pattern := range p.exclude {
		if err := security.ValidateGlobPattern(pattern); err != nil {
			return nil, &ConfigError{Field: "exclude_patterns", Err: err}
		}
	}

	return p, nil
}

// NormalizeExtension lowercases ext and ensures a single leading dot.
// It returns "" for input with no usable suffix.
func NormalizeExtension(ext string) string {
	ext = strings.Trim(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}

func (p *checkPlan) extensionAllowed(name string) bool {
	_, ok := p.allowed[strings.ToLower(filepath.Ext(name))]
	return ok
}

func (p *checkPlan) excluded(name string) bool {
	for _, pattern := range p.exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// check runs the enabled checks on one entry. It never returns an error:
// every problem ends up in the record.
func (p *checkPlan) check(name string, sink *warningSink) FileRecord {
	rec := FileRecord{
		Name:          name,
		Status:        StatusPending,
		FormatAllowed: p.extensionAllowed(name),
	}

	path := filepath.Join(p.dir, name)

	info, statErr := os.Stat(path)
	if statErr == nil {
		rec.Size = info.Size()
		if info.IsDir() {
			return skip(rec, IssueNotAFile)
		}
	}

	if p.excluded(name) {
		return skip(rec, IssueExcluded)
	}

	if p.checkExtensions && !rec.FormatAllowed {
		return skip(rec, IssueUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return decodeFailed(rec, err)
	}
	if statErr != nil {
		rec.Size = int64(len(data))
	}

	img, format, err := decode(data)
	if err != nil {
		return decodeFailed(rec, err)
	}

	bounds := img.Bounds()
	rec.Decodable = true
	rec.Format = format
	rec.Width = bounds.Dx()
	rec.Height = bounds.Dy()

	rec.Warnings = sink.collect(name, decoderWarnings(name, format, img))

	if p.checkDimensions {
		match := rec.Width == p.expected.Width && rec.Height == p.expected.Height
		rec.SizeMatch = &match
		if !match {
			rec.Issue = IssueDimensionMismatch
			rec.Error = fmt.Sprintf("got %dx%d, want %s", rec.Width, rec.Height, p.expected)
		}
	}

	if p.detectDuplicates {
		rec.Hash = utils.HashBytes(data)
	}

	rec.Status = StatusChecked
	return rec
}

// decode fully parses data as an image. A panicking decoder is reported as an
// error so one file cannot stop the scan.
func decode(data []byte) (img image.Image, format string, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, format, err = nil, "", fmt.Errorf("decoder panic: %v", r)
		}
	}()

	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty file")
	}

	return image.Decode(bytes.NewReader(data))
}

func skip(rec FileRecord, issue Issue) FileRecord {
	rec.Status = StatusSkipped
	rec.Issue = issue
	return rec
}

func decodeFailed(rec FileRecord, err error) FileRecord {
	rec.Status = StatusChecked
	rec.Decodable = false
	rec.Issue = IssueDecodeError
	rec.Error = err.Error()
	return rec
}
