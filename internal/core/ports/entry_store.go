package ports

import (
	"context"

	"go.trai.ch/venvcache/internal/core/domain"
)

// EntryStore is the storage abstraction behind the cache engine.
// Every method takes the cache root explicitly so one store can serve any number of caches.
//
//go:generate go run go.uber.org/mock/mockgen -source=entry_store.go -destination=mocks/mock_entry_store.go -package=mocks
type EntryStore interface {
	// RootExists reports whether the cache root directory exists.
	RootExists(root string) (bool, error)

	// Exists reports whether the entry named by key holds a payload.
	Exists(root string, key domain.CacheKey) (bool, error)

	// Create makes the entry directory. It succeeds if the directory already exists.
	Create(root string, key domain.CacheKey) error

	// CopyIn replaces the entry payload with a full copy of the tree at src.
	CopyIn(ctx context.Context, root string, key domain.CacheKey, src string) error

	// CopyOut replaces the tree at dst with a full copy of the entry payload.
	CopyOut(ctx context.Context, root string, key domain.CacheKey, dst string) error

	// ReadUsage returns the usage record of the entry.
	ReadUsage(root string, key domain.CacheKey) (domain.Usage, error)

	// WriteUsage overwrites the usage record of the entry.
	WriteUsage(root string, key domain.CacheKey, usage domain.Usage) error

	// Delete removes the entry and everything in it.
	Delete(root string, key domain.CacheKey) error

	// Enumerate lists the names of all entry directories under root.
	Enumerate(root string) ([]domain.CacheKey, error)

	// RemoveRoot deletes the cache root recursively. It reports false if there was nothing to remove.
	RemoveRoot(root string) (bool, error)

	// PayloadPath returns the location of the entry payload.
	PayloadPath(root string, key domain.CacheKey) string
}
