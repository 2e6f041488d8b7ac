package lock

import "time"

// NewFileLockerWithRetry creates a FileLocker polling at the given interval.
func NewFileLockerWithRetry(d time.Duration) *FileLocker {
	return &FileLocker{retryDelay: d}
}
