package fs

import (
	"context"
	_ "crypto/sha256" // registers SHA-256 for go-digest
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/go-git/go-billy/v5"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.KeyDeriver = (*KeyDeriver)(nil)

// KeyDeriver derives cache keys from the content of manifest files.
type KeyDeriver struct {
	fs     billy.Filesystem
	logger ports.Logger
}

// NewKeyDeriver creates a new KeyDeriver reading manifests from fsys.
func NewKeyDeriver(fsys billy.Filesystem, logger ports.Logger) *KeyDeriver {
	return &KeyDeriver{fs: fsys, logger: logger}
}

// DeriveKey hashes every manifest with SHA-256, serializes the path to digest mapping
// in canonical form and returns the SHA-256 of that serialization.
func (k *KeyDeriver) DeriveKey(ctx context.Context, workDir string, manifests []string) (domain.CacheKey, error) {
	if len(manifests) == 0 {
		k.logger.Warn("no requirements lock files defined in the configuration file")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	sums := make([]string, len(manifests))
	errs := make([]error, len(manifests))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, manifest := range manifests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return err
			}

			k.logger.Debug("computing hash for requirements lock file", "path", manifest)
			sum, err := k.ComputeFileDigest(resolve(workDir, manifest))
			if err != nil {
				detail := zerr.Wrap(err, fmt.Sprintf("file %q stated in the configuration file not found", manifest))
				errs[i] = errors.Join(domain.ErrManifestNotFound, detail)
				return errs[i]
			}
			sums[i] = sum.Encoded()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Every manifest is attempted, report the first failure in configuration order.
		for _, e := range errs {
			if e != nil {
				return "", e
			}
		}
		return "", err
	}

	digests := make(map[string]string, len(manifests))
	for i, manifest := range manifests {
		digests[manifest] = sums[i]
	}

	key := domain.CacheKey(digest.SHA256.FromBytes(domain.CanonicalJSON(digests)).Encoded())
	k.logger.Debug("calculated hash of all the lock files", "key", key.String())
	return key, nil
}

// ComputeFileDigest computes the SHA-256 digest of a file's content.
func (k *KeyDeriver) ComputeFileDigest(path string) (digest.Digest, error) {
	f, err := k.fs.Open(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	sum, err := digest.SHA256.FromReader(f)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return sum, nil
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) || workDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(workDir, path)
}
