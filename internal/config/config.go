package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fenilsonani/imgcheck/internal/logging"
	"github.com/fenilsonani/imgcheck/internal/security"
	"github.com/fenilsonani/imgcheck/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Directory               string           `yaml:"directory"`
	CheckExtensions         bool             `yaml:"check_extensions"`
	AllowedExtensions       []string         `yaml:"allowed_extensions"`
	CheckDimensions         bool             `yaml:"check_dimensions"`
	ExpectedSize            utils.Dimensions `yaml:"expected_size"`
	SuppressDecoderWarnings bool             `yaml:"suppress_decoder_warnings"`
	ExcludePatterns         []string         `yaml:"exclude_patterns"`
	DetectDuplicates        bool             `yaml:"detect_duplicates"`
	Workers                 int              `yaml:"workers"` // 0 picks a value from the CPU count
	Logging                 logging.Config   `yaml:"logging"`
	History                 HistoryConfig    `yaml:"history"`
}

// HistoryConfig controls where scan runs are recorded
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load loads configuration from a file. Keys missing from the file keep their
// default values.
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration. The directory itself is checked when
// a scan starts, since it is usually supplied on the command line.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	if c.CheckExtensions {
		if len(c.AllowedExtensions) == 0 {
			return fmt.Errorf("allowed_extensions must not be empty when check_extensions is enabled")
		}
		for _, ext := range c.AllowedExtensions {
			if strings.Trim(strings.TrimSpace(ext), ".") == "" {
				return fmt.Errorf("invalid allowed extension %q", ext)
			}
		}
	}

	if c.CheckDimensions && !c.ExpectedSize.Valid() {
		return fmt.Errorf("expected_size must have positive width and height when check_dimensions is enabled, got %s", c.ExpectedSize)
	}

	for _, pattern := range c.ExcludePatterns {
		if err := security.ValidateGlobPattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	if err := c.Logging.Validate(); err != nil {
		return err
	}

	return nil
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "imgcheck", "config.yaml"), nil
}

// HistoryPath returns the configured history database path, falling back to
// the per-user data directory
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".local", "share", "imgcheck", "history.db"), nil
}

// EnsureConfigAt writes the default configuration to configPath unless a file
// is already there
func EnsureConfigAt(configPath string) error {
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		return err
	}
	return Save(GetDefault(), configPath)
}
