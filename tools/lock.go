package tools

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	lockFile      = "search/index.lock"
	lockTimeout   = 5 * time.Second
	lockRetryWait = 500 * time.Millisecond
)

// isProcessRunning lives in lock_unix.go and lock_windows.go

func lockPath() string {
	return filepath.Join(dataDir, lockFile)
}

// lockOwner returns the PID recorded in the lock file, 0 when there is no
// lock file, or -1 when its content is not a PID.
func lockOwner() (int, error) {
	data, err := os.ReadFile(lockPath())
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read lock file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return -1, nil
	}
	return pid, nil
}

// acquireLock takes the on-disk index lock for this process. A lock left by
// a dead process or holding garbage is removed; a live owner is waited on
// until lockTimeout.
func acquireLock() error {
	self := os.Getpid()
	if err := os.MkdirAll(filepath.Dir(lockPath()), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	deadline := time.Now().Add(lockTimeout)
	for {
		owner, err := lockOwner()
		if err != nil {
			return err
		}

		switch {
		case owner == self:
			return nil
		case owner == -1 || (owner > 0 && !isProcessRunning(owner)):
			log.Printf("Removing stale index lock (%d)", owner)
			if err := os.Remove(lockPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to remove stale lock: %w", err)
			}
			continue
		case owner > 0:
			if time.Now().After(deadline) {
				return fmt.Errorf("timeout waiting for index lock held by process %d", owner)
			}
			log.Printf("Index locked by process %d, waiting...", owner)
			time.Sleep(lockRetryWait)
			continue
		}

		// O_EXCL so two processes that both saw no lock cannot both win
		f, err := os.OpenFile(lockPath(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create lock file: %w", err)
		}
		_, err = f.WriteString(strconv.Itoa(self))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(lockPath())
			return fmt.Errorf("failed to write lock file: %w", err)
		}

		log.Printf("✓ Index lock acquired (PID %d)", self)
		return nil
	}
}

// releaseLock removes the lock file when this process owns it
func releaseLock() error {
	owner, err := lockOwner()
	if err != nil {
		return err
	}
	if owner == 0 {
		return nil
	}
	if owner > 0 && owner != os.Getpid() {
		log.Printf("Warning: index lock belongs to process %d, leaving it", owner)
		return nil
	}
	if err := os.Remove(lockPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	log.Printf("✓ Index lock released")
	return nil
}
