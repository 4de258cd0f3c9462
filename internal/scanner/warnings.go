package scanner

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// formatByExtension maps file suffixes to the decoder name image.Decode reports
var formatByExtension = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
	".webp": "webp",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
}

// decoderWarnings lists non-fatal oddities of a decoded image
func decoderWarnings(name, format string, img image.Image) []string {
	var warnings []string

	ext := strings.ToLower(filepath.Ext(name))
	if want, ok := formatByExtension[ext]; ok && want != format {
		warnings = append(warnings, fmt.Sprintf("content is %s but extension is %s", format, ext))
	}

	switch img.(type) {
	case *image.CMYK:
		warnings = append(warnings, "CMYK color model, most training pipelines expect RGB")
	case *image.Gray, *image.Gray16:
		warnings = append(warnings, "grayscale image, most training pipelines expect RGB")
	}

	return warnings
}

// warningSink receives decoder warnings for the duration of one scan. When
// suppressed, warnings are counted and dropped.
type warningSink struct {
	suppress   bool
	logger     *slog.Logger
	suppressed atomic.Int64
}

func newWarningSink(suppress bool, logger *slog.Logger) *warningSink {
	return &warningSink{suppress: suppress, logger: logger}
}

// collect returns the warnings to attach to a record
func (w *warningSink) collect(name string, warnings []string) []string {
	if len(warnings) == 0 {
		return nil
	}

	if w.suppress {
		w.suppressed.Add(int64(len(warnings)))
		return nil
	}

	// Callers render record warnings themselves; the log only traces them
	for _, msg := range warnings {
		w.logger.Debug("decoder warning", "file", name, "warning", msg)
	}
	return warnings
}

// Suppressed returns how many warnings were dropped
func (w *warningSink) Suppressed() int64 {
	return w.suppressed.Load()
}
