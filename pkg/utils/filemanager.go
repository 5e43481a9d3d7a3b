// =============================================================================
// Excel to Tally XML - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter, including:
//   - Cleaning paths typed or pasted at a prompt
//   - File and directory existence checks
//   - Opening input files with lock detection
//   - Atomic output writes (temp file + rename)
//
// OUTPUT STRATEGY:
//   The XML is written to a uuid-named temp file in the destination directory
//   and then renamed over the final name. A failed run never leaves a partial
//   Tally_Import.xml behind, and an existing file is replaced without asking.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFileLocked is returned when the input file is open in another process
// (typically Excel on Windows) or cannot be opened for reading.
var ErrFileLocked = errors.New("file is locked or in use by another process")

// =============================================================================
// PATH HELPERS
// =============================================================================

// CleanPathInput trims whitespace and one layer of surrounding quotes from a
// path, as produced by "Copy as path" in Windows Explorer or drag-and-drop
// into a terminal.
func CleanPathInput(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, `'`} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// =============================================================================
// INPUT
// =============================================================================

// OpenForRead opens an input file for reading. Permission failures and
// Windows sharing/lock violations are reported as ErrFileLocked so callers can
// tell the user to close the file instead of showing a generic read error.
func OpenForRead(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err == nil {
		return file, nil
	}
	if locked := LockedError(path, err); locked != nil {
		return nil, locked
	}
	return nil, err
}

// LockedError returns ErrFileLocked wrapped with path when err is a
// permission failure or a Windows sharing/lock violation, and nil otherwise.
// A byte-range lock only shows up once the file is read, so readers check
// their read errors with it too.
func LockedError(path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) || isLockViolation(err) {
		return fmt.Errorf("%s: %w", path, ErrFileLocked)
	}
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// WriteFileAtomic writes data to dir/name. The data first goes to a temp file
// in the same directory, which is then renamed into place.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the temp file cannot be written or renamed.
func WriteFileAtomic(dir, name string, data []byte) (string, error) {
	finalPath := filepath.Join(dir, name)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.NewString()))

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move output into place: %w", err)
	}

	return finalPath, nil
}
