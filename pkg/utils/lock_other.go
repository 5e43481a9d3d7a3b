//go:build !windows

package utils

// isLockViolation is always false outside Windows; advisory locks there do not
// prevent opening a file for reading.
func isLockViolation(err error) bool {
	return false
}
