package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fenilsonani/imgcheck/pkg/utils"
)

// =============================================================================
// GetDefault Tests
// =============================================================================

func TestGetDefault(t *testing.T) {
	cfg := GetDefault()

	if cfg == nil {
		t.Fatal("GetDefault returned nil")
	}

	if !cfg.CheckExtensions {
		t.Error("expected CheckExtensions to be enabled by default")
	}
	if cfg.CheckDimensions {
		t.Error("expected CheckDimensions to be disabled by default")
	}
	if !cfg.SuppressDecoderWarnings {
		t.Error("expected SuppressDecoderWarnings to be enabled by default")
	}
	if cfg.DetectDuplicates {
		t.Error("expected DetectDuplicates to be disabled by default")
	}
	if cfg.History.Enabled {
		t.Error("expected history to be disabled by default")
	}
}

func TestGetDefaultExtensions(t *testing.T) {
	cfg := GetDefault()

	want := []string{".jpg", ".jpeg", ".png", ".gif"}
	if len(cfg.AllowedExtensions) != len(want) {
		t.Fatalf("expected %d extensions, got %v", len(want), cfg.AllowedExtensions)
	}
	for i, ext := range want {
		if cfg.AllowedExtensions[i] != ext {
			t.Errorf("extension %d: expected %s, got %s", i, ext, cfg.AllowedExtensions[i])
		}
	}

	// Mutating one default must not leak into the next
	cfg.AllowedExtensions[0] = ".bmp"
	if GetDefault().AllowedExtensions[0] != ".jpg" {
		t.Error("GetDefault shares its extension slice between calls")
	}
}

func TestGetDefaultIsValid(t *testing.T) {
	if err := GetDefault().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		errorMsg string
	}{
		{
			name:     "negative workers",
			modify:   func(c *Config) { c.Workers = -1 },
			errorMsg: "workers",
		},
		{
			name:     "empty extension list with check enabled",
			modify:   func(c *Config) { c.AllowedExtensions = nil },
			errorMsg: "allowed_extensions",
		},
		{
			name:     "blank extension",
			modify:   func(c *Config) { c.AllowedExtensions = []string{".jpg", "."} },
			errorMsg: "invalid allowed extension",
		},
		{
			name: "dimension check without size",
			modify: func(c *Config) {
				c.CheckDimensions = true
				c.ExpectedSize = utils.Dimensions{}
			},
			errorMsg: "expected_size",
		},
		{
			name: "dimension check with negative size",
			modify: func(c *Config) {
				c.CheckDimensions = true
				c.ExpectedSize = utils.Dimensions{Width: -1, Height: 10}
			},
			errorMsg: "expected_size",
		},
		{
			name:     "traversal exclude pattern",
			modify:   func(c *Config) { c.ExcludePatterns = []string{"../*.jpg"} },
			errorMsg: "invalid exclude pattern",
		},
		{
			name:     "bad log level",
			modify:   func(c *Config) { c.Logging.Level = "chatty" },
			errorMsg: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestValidateEmptyExtensionsWithCheckDisabled(t *testing.T) {
	cfg := GetDefault()
	cfg.CheckExtensions = false
	cfg.AllowedExtensions = nil

	if err := cfg.Validate(); err != nil {
		t.Errorf("empty extension list should be allowed when the check is off: %v", err)
	}
}

// =============================================================================
// Load / Save Tests
// =============================================================================

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.CheckExtensions || len(cfg.AllowedExtensions) != 4 {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
directory: dataset/train/Dog
check_dimensions: true
expected_size:
  width: 128
  height: 96
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Directory != "dataset/train/Dog" {
		t.Errorf("expected directory from file, got %q", cfg.Directory)
	}
	if !cfg.CheckDimensions {
		t.Error("expected check_dimensions from file")
	}
	if cfg.ExpectedSize != (utils.Dimensions{Width: 128, Height: 96}) {
		t.Errorf("expected 128x96, got %s", cfg.ExpectedSize)
	}
	// Not in the file, so defaults apply
	if !cfg.CheckExtensions {
		t.Error("expected check_extensions default to survive")
	}
	if !cfg.SuppressDecoderWarnings {
		t.Error("expected suppress_decoder_warnings default to survive")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected default log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadDisablesDefaultTrueFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "check_extensions: false\nsuppress_decoder_warnings: false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CheckExtensions {
		t.Error("expected check_extensions=false from file")
	}
	if cfg.SuppressDecoderWarnings {
		t.Error("expected suppress_decoder_warnings=false from file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("expected invalid configuration error, got %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefault()
	cfg.Directory = "/data/cats"
	cfg.AllowedExtensions = []string{".png", ".webp"}
	cfg.ExcludePatterns = []string{"*.tmp"}
	cfg.Workers = 2

	if err := Save(cfg, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Directory != cfg.Directory || loaded.Workers != 2 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if len(loaded.AllowedExtensions) != 2 || loaded.AllowedExtensions[1] != ".webp" {
		t.Errorf("extensions not preserved: %v", loaded.AllowedExtensions)
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := GetDefault()
	cfg.History.Path = "/tmp/custom.db"

	path, err := cfg.HistoryPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/tmp/custom.db" {
		t.Errorf("expected configured path, got %s", path)
	}

	cfg.History.Path = ""
	path, err = cfg.HistoryPath()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("imgcheck", "history.db")) {
		t.Errorf("unexpected default history path: %s", path)
	}
}

func TestEnsureConfigAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := EnsureConfigAt(path); err != nil {
		t.Fatalf("EnsureConfigAt failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.CheckExtensions {
		t.Error("expected default configuration to be written")
	}

	// An existing file is left alone
	custom := []byte("workers: 3\n")
	if err := os.WriteFile(path, custom, 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureConfigAt(path); err != nil {
		t.Fatalf("EnsureConfigAt on existing file failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(custom) {
		t.Errorf("existing config was overwritten: %q", data)
	}
}
