package ports

import "context"

// Unlock releases a lock acquired from a Locker.
type Unlock func() error

// Locker guards a cache root against concurrent use by other processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=locker.go -destination=mocks/mock_locker.go -package=mocks
type Locker interface {
	// Lock acquires an exclusive lock on root, blocking until it is available or ctx is done.
	Lock(ctx context.Context, root string) (Unlock, error)

	// RLock acquires a shared lock on root, blocking until it is available or ctx is done.
	RLock(ctx context.Context, root string) (Unlock, error)
}
