package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateScanDirectory checks that path names an existing, readable directory
// and returns its cleaned absolute form with symlinks resolved.
func ValidateScanDirectory(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("directory is required")
	}

	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("directory contains a null byte: %q", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", path, err)
	}

	// Resolve symlinks so the report names the directory that was actually read
	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("directory does not exist: %s", path)
		}
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	info, err := os.Stat(resolvedPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", path)
	}

	dir, err := os.Open(resolvedPath)
	if err != nil {
		return "", fmt.Errorf("directory is not readable: %w", err)
	}
	dir.Close()

	return filepath.Clean(resolvedPath), nil
}

// ValidateGlobPattern validates that a glob pattern is safe to match against
// file names inside the scanned directory
func ValidateGlobPattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("glob pattern is empty")
	}

	// Patterns are matched against base names only
	if strings.Contains(pattern, "..") || strings.ContainsRune(pattern, filepath.Separator) {
		return fmt.Errorf("glob pattern must match file names, not paths: %s", pattern)
	}

	// Try to match the pattern to ensure it's valid
	_, err := filepath.Match(pattern, "test")
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}

	return nil
}
