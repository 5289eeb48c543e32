//go:build unix

package tools

import (
	"errors"
	"syscall"
)

// isProcessRunning reports whether pid names a live process. Signal 0
// performs the permission and existence checks without delivering anything.
func isProcessRunning(pid int) bool {
	err := syscall.Kill(pid, syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// Exists, owned by someone else
		return true
	default:
		return false
	}
}
