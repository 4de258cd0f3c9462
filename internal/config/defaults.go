package config

import (
	"github.com/fenilsonani/imgcheck/internal/logging"
	"github.com/fenilsonani/imgcheck/pkg/utils"
)

// DefaultExtensions are the image suffixes accepted when no list is configured
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		CheckExtensions:   true,
		AllowedExtensions: append([]string(nil), DefaultExtensions...),
		CheckDimensions:   false,
		// Common CNN input size, only used once check_dimensions is enabled
		ExpectedSize:            utils.Dimensions{Width: 224, Height: 224},
		SuppressDecoderWarnings: true,
		ExcludePatterns:         []string{},
		DetectDuplicates:        false,
		Workers:                 0, // Auto
		Logging:                 logging.DefaultConfig(),
		History: HistoryConfig{
			Enabled: false,
		},
	}
}
