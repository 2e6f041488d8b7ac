// Package cache implements the cache engine: restore, store, list, trim, erase and status
// of dependency environments keyed by the content of their manifest files.
package cache

import (
	"context"
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine drives the cache protocol on top of the storage, locking and hashing ports.
// It holds no per-invocation state; every operation receives its configuration.
type Engine struct {
	keys     ports.KeyDeriver
	store    ports.EntryStore
	locker   ports.Locker
	trees    ports.TreeInspector
	logger   ports.Logger
	clock    clockwork.Clock
	hostname func() (string, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for usage timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithHostname sets the function reporting the local hostname.
func WithHostname(fn func() (string, error)) Option {
	return func(e *Engine) {
		e.hostname = fn
	}
}

// New creates a new Engine.
func New(
	keys ports.KeyDeriver,
	store ports.EntryStore,
	locker ports.Locker,
	trees ports.TreeInspector,
	logger ports.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		keys:     keys,
		store:    store,
		locker:   locker,
		trees:    trees,
		logger:   logger,
		clock:    clockwork.NewRealClock(),
		hostname: os.Hostname,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Key derives the cache key for the manifests named in cfg.
func (e *Engine) Key(ctx context.Context, cfg domain.Config) (domain.CacheKey, error) {
	return e.keys.DeriveKey(ctx, cfg.WorkDir, cfg.ManifestPaths())
}

// Restore replaces the environment tree with the cached copy for the current manifests.
// A miss returns domain.ErrCacheMiss and touches nothing.
func (e *Engine) Restore(ctx context.Context, cfg domain.Config) (domain.CacheKey, error) {
	key, err := e.Key(ctx, cfg)
	if err != nil {
		return "", err
	}

	root := cfg.ExpandedCachePath()
	exists, err := e.store.Exists(root, key)
	if err != nil {
		return key, err
	}
	if !exists {
		return key, missError(key)
	}

	err = e.withLock(ctx, root, true, func() error {
		exists, err := e.store.Exists(root, key)
		if err != nil {
			return err
		}
		if !exists {
			return missError(key)
		}

		envPath := cfg.ExpandedEnvPath()
		e.logger.Info("restoring virtual environment from cache", "key", key.Short(), "path", envPath)
		if err := e.store.CopyOut(ctx, root, key, envPath); err != nil {
			return err
		}
		return e.touch(root, key)
	})
	return key, err
}

// Store copies the environment tree into the entry for the current manifests,
// replacing any previous payload, and then trims the cache to its configured size.
func (e *Engine) Store(ctx context.Context, cfg domain.Config) (domain.CacheKey, error) {
	key, err := e.Key(ctx, cfg)
	if err != nil {
		return "", err
	}

	envPath := cfg.ExpandedEnvPath()
	isDir, err := e.trees.IsDir(envPath)
	if err != nil {
		return key, err
	}
	if !isDir {
		return key, errors.Join(
			domain.ErrEnvironmentNotFound,
			zerr.With(zerr.New("virtual environment directory does not exist"), "path", envPath),
		)
	}

	root := cfg.ExpandedCachePath()
	err = e.withLock(ctx, root, true, func() error {
		if err := e.store.Create(root, key); err != nil {
			return err
		}

		e.logger.Info("storing virtual environment in cache", "key", key.Short(), "path", envPath)
		if err := e.store.CopyIn(ctx, root, key, envPath); err != nil {
			return err
		}
		if err := e.touch(root, key); err != nil {
			return err
		}

		_, err := e.trim(root, cfg.CacheSize)
		return err
	})
	return key, err
}

// List returns the entries of the cache, most recently used first.
// Entries with an unreadable usage record are skipped with a warning.
func (e *Engine) List(ctx context.Context, cfg domain.Config) ([]domain.Entry, error) {
	root := cfg.ExpandedCachePath()
	exists, err := e.store.RootExists(root)
	if err != nil {
		return nil, err
	}
	if !exists {
		e.logger.Warn("the configured cache has not been used yet", "path", root)
		return []domain.Entry{}, nil
	}

	var entries []domain.Entry
	err = e.withLock(ctx, root, false, func() error {
		keys, err := e.store.Enumerate(root)
		if err != nil {
			return err
		}

		entries = make([]domain.Entry, 0, len(keys))
		for _, key := range keys {
			usage, err := e.store.ReadUsage(root, key)
			if err != nil {
				if errors.Is(err, domain.ErrUsageRecordInvalid) {
					e.logger.Warn("skipping cache entry with invalid usage record", "id", key.String())
					continue
				}
				return err
			}
			entries = append(entries, domain.Entry{ID: key, Hostname: usage.Hostname, Timestamp: usage.Timestamp})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	domain.SortEntries(entries)
	return entries, nil
}

// Trim removes the least recently used entries until at most cfg.CacheSize remain.
// It returns the evicted keys, oldest first.
func (e *Engine) Trim(ctx context.Context, cfg domain.Config) ([]domain.CacheKey, error) {
	root := cfg.ExpandedCachePath()
	exists, err := e.store.RootExists(root)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []domain.CacheKey{}, nil
	}

	var evicted []domain.CacheKey
	err = e.withLock(ctx, root, true, func() error {
		var err error
		evicted, err = e.trim(root, cfg.CacheSize)
		return err
	})
	return evicted, err
}

// trim must be called with the exclusive lock held.
// Entries without a valid usage record rank below every valid entry.
func (e *Engine) trim(root string, size int) ([]domain.CacheKey, error) {
	keys, err := e.store.Enumerate(root)
	if err != nil {
		return nil, err
	}
	if len(keys) <= size {
		return []domain.CacheKey{}, nil
	}

	var valid []domain.Entry
	var invalid []domain.CacheKey
	for _, key := range keys {
		usage, err := e.store.ReadUsage(root, key)
		if err != nil {
			if errors.Is(err, domain.ErrUsageRecordInvalid) {
				e.logger.Warn("cache entry has an invalid usage record, evicting it first", "id", key.String())
				invalid = append(invalid, key)
				continue
			}
			return nil, err
		}
		valid = append(valid, domain.Entry{ID: key, Hostname: usage.Hostname, Timestamp: usage.Timestamp})
	}

	domain.SortEntries(valid)
	slices.SortFunc(invalid, func(a, b domain.CacheKey) int {
		return strings.Compare(b.String(), a.String())
	})

	ranked := make([]domain.CacheKey, 0, len(keys))
	for _, entry := range valid {
		ranked = append(ranked, entry.ID)
	}
	ranked = append(ranked, invalid...)

	evicted := slices.Clone(ranked[size:])
	slices.Reverse(evicted)

	for _, key := range evicted {
		e.logger.Info("removing cached entry to match expected cache size", "id", key.String())
		if err := e.store.Delete(root, key); err != nil {
			return nil, err
		}
	}
	return evicted, nil
}

// Erase deletes the whole cache root.
func (e *Engine) Erase(ctx context.Context, cfg domain.Config) error {
	root := cfg.ExpandedCachePath()
	exists, err := e.store.RootExists(root)
	if err != nil {
		return err
	}
	if !exists {
		e.logger.Warn("no cache found", "path", root)
		return nil
	}

	return e.withLock(ctx, root, true, func() error {
		e.logger.Warn("erasing cache", "path", root)
		_, err := e.store.RemoveRoot(root)
		return err
	})
}

// Status reports whether the current manifests have a cached entry and whether
// the environment tree matches it.
func (e *Engine) Status(ctx context.Context, cfg domain.Config) (domain.Status, error) {
	key, err := e.Key(ctx, cfg)
	if err != nil {
		return domain.Status{}, err
	}
	status := domain.Status{Key: key}

	envPath := cfg.ExpandedEnvPath()
	status.EnvPresent, err = e.trees.IsDir(envPath)
	if err != nil {
		return status, err
	}

	root := cfg.ExpandedCachePath()
	exists, err := e.store.RootExists(root)
	if err != nil || !exists {
		return status, err
	}

	err = e.withLock(ctx, root, false, func() error {
		cached, err := e.store.Exists(root, key)
		if err != nil || !cached {
			return err
		}
		status.Cached = true

		usage, err := e.store.ReadUsage(root, key)
		switch {
		case err == nil:
			status.Usage = &usage
		case errors.Is(err, domain.ErrUsageRecordInvalid):
			e.logger.Warn("cache entry has an invalid usage record", "id", key.String())
		default:
			return err
		}

		if !status.EnvPresent {
			return nil
		}
		envSum, err := e.trees.HashTree(ctx, envPath)
		if err != nil {
			return err
		}
		cachedSum, err := e.trees.HashTree(ctx, e.store.PayloadPath(root, key))
		if err != nil {
			return err
		}
		e.logger.Debug("compared environment fingerprints", "env", envSum, "cached", cachedSum)
		status.InSync = envSum == cachedSum
		return nil
	})
	return status, err
}

// touch records the local host and the current time as the entry's last use.
func (e *Engine) touch(root string, key domain.CacheKey) error {
	host, err := e.hostname()
	if err != nil {
		return zerr.Wrap(err, "failed to determine hostname")
	}
	return e.store.WriteUsage(root, key, domain.Usage{Hostname: host, Timestamp: e.clock.Now().UTC()})
}

// withLock runs fn while holding the lock on root and releases it on every path.
func (e *Engine) withLock(ctx context.Context, root string, exclusive bool, fn func() error) (err error) {
	acquire := e.locker.RLock
	if exclusive {
		acquire = e.locker.Lock
	}

	unlock, err := acquire(ctx, root)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(); uerr != nil {
			err = errors.Join(err, uerr)
		}
	}()

	return fn()
}

func missError(key domain.CacheKey) error {
	return errors.Join(domain.ErrCacheMiss, zerr.With(zerr.New("no entry for the current manifests"), "key", key.String()))
}
