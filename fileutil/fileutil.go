// Package fileutil writes query results to disk. Result files are JSON,
// named from a sanitized label plus a timestamp, and written atomically so
// an interrupted save never leaves a partial file.
package fileutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// File permissions
const (
	// DirPermission is the default permission for creating directories (rwxr-x---)
	DirPermission = 0o750
	// FilePermission is the default permission for creating files (rw-r--r--)
	FilePermission = 0o644
)

// labelSanitizer strips anything outside a conservative filename alphabet.
var labelSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)

// timestampLayout matches the original result file naming scheme.
const timestampLayout = "20060102_150405"

// SanitizeLabel reduces a user-supplied label to safe filename characters.
// Empty or fully-stripped labels fall back to "results".
func SanitizeLabel(label string) string {
	s := labelSanitizer.ReplaceAllString(strings.TrimSpace(label), "_")
	s = strings.Trim(s, "._")
	if s == "" {
		return "results"
	}
	return s
}

// SaveResult writes data as indented JSON into dir, named
// "<label>_<timestamp>.json". The directory is created if needed.
// Returns the full path of the written file.
func SaveResult(dir, label string, data interface{}) (string, error) {
	if err := os.MkdirAll(dir, DirPermission); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.json", SanitizeLabel(label), time.Now().Format(timestampLayout))
	path := filepath.Join(dir, name)
	if err := AtomicWriteJSON(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// AtomicWriteJSON writes data as JSON to a file atomically.
// It writes to a temporary file first, then renames it to the target path,
// so the file is never left in a partial state.
func AtomicWriteJSON(path string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return AtomicWriteFile(path, jsonData, FilePermission)
}

// AtomicWriteFile writes raw bytes to a file atomically.
// The temp file is created in the target directory to avoid cross-filesystem
// rename issues and concurrent writers clobbering the same temp name.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Flush before rename; some platforms have delayed write semantics.
	if err := tmpFile.Sync(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Set permissions before the rename so the final file has them from the
	// moment it appears.
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	// Rename is atomic on most filesystems. Retry briefly to ride out
	// transient rename races on Windows.
	var renameErr error
	for attempt := 0; attempt < 5; attempt++ {
		renameErr = os.Rename(tmpPath, path)
		if renameErr == nil {
			break
		}
		if attempt < 4 {
			time.Sleep(time.Duration(20*(attempt+1)) * time.Millisecond)
		}
	}
	if renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", renameErr)
	}
	return nil
}
