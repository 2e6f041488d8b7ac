// Package lock provides advisory file locks guarding cache roots.
package lock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Locker = (*FileLocker)(nil)

// DefaultRetryDelay is the interval between two lock attempts.
const DefaultRetryDelay = 50 * time.Millisecond

// FileLocker implements ports.Locker with flock(2) on the sibling file <root>.lock.
// The lock file is never removed.
type FileLocker struct {
	retryDelay time.Duration
}

// NewFileLocker creates a new FileLocker.
func NewFileLocker() *FileLocker {
	return &FileLocker{retryDelay: DefaultRetryDelay}
}

// Lock acquires an exclusive lock on root.
func (l *FileLocker) Lock(ctx context.Context, root string) (ports.Unlock, error) {
	return l.acquire(ctx, root, true)
}

// RLock acquires a shared lock on root.
func (l *FileLocker) RLock(ctx context.Context, root string) (ports.Unlock, error) {
	return l.acquire(ctx, root, false)
}

func (l *FileLocker) acquire(ctx context.Context, root string, exclusive bool) (ports.Unlock, error) {
	path := domain.LockFile(root)

	//nolint:gosec // The lock file lives next to a user-configured cache root
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, lockError(err, "failed to create lock directory", path)
	}

	fl := flock.New(path, flock.SetPermissions(domain.FilePerm))

	var locked bool
	var err error
	if exclusive {
		locked, err = fl.TryLockContext(ctx, l.retryDelay)
	} else {
		locked, err = fl.TryRLockContext(ctx, l.retryDelay)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Join(domain.ErrLockFailed, ctxErr)
		}
		return nil, lockError(err, "failed to lock", path)
	}
	if !locked {
		return nil, lockError(errors.New("lock not acquired"), "failed to lock", path)
	}

	return func() error {
		if err := fl.Unlock(); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to release cache lock"), "path", path)
		}
		return nil
	}, nil
}

func lockError(err error, msg, path string) error {
	return errors.Join(domain.ErrLockFailed, zerr.With(zerr.Wrap(err, msg), "path", path))
}
