//go:build windows

package utils

import (
	"errors"
	"syscall"
)

// Win32 error codes returned when another process holds the file open
// without read sharing, or holds a byte-range lock on it.
const (
	errorSharingViolation syscall.Errno = 32
	errorLockViolation    syscall.Errno = 33
)

func isLockViolation(err error) bool {
	return errors.Is(err, errorSharingViolation) || errors.Is(err, errorLockViolation)
}
