package ports

import (
	"context"

	"go.trai.ch/venvcache/internal/core/domain"
)

// KeyDeriver computes cache keys from manifest contents.
//
//go:generate go run go.uber.org/mock/mockgen -source=key_deriver.go -destination=mocks/mock_key_deriver.go -package=mocks
type KeyDeriver interface {
	// DeriveKey hashes every manifest and returns the key naming the matching cache entry.
	// Manifest paths are resolved against workDir but keyed as given.
	// A missing or unreadable manifest fails with domain.ErrConfiguration.
	DeriveKey(ctx context.Context, workDir string, manifests []string) (domain.CacheKey, error)
}
