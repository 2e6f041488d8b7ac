package domain

import "go.trai.ch/zerr"

// Configuration errors wrap ErrConfiguration so callers can match the whole category with errors.Is.
var (
	// ErrConfiguration is the category for malformed or missing configuration, including
	// manifest files stated in the configuration that cannot be read.
	ErrConfiguration = zerr.New("configuration error")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = zerr.Wrap(ErrConfiguration, "configuration file not found")

	// ErrConfigExists is returned by init when the configuration file is already present.
	ErrConfigExists = zerr.Wrap(ErrConfiguration, "configuration file already exists")

	// ErrConfigParseFailed is returned when the configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.Wrap(ErrConfiguration, "failed to parse configuration file")

	// ErrConfigSectionMissing is returned when the configuration file has no [virtualenv-cache] table.
	ErrConfigSectionMissing = zerr.Wrap(ErrConfiguration, "configuration file has no [" + ConfigSection + "] table")

	// ErrConfigWriteFailed is returned when init cannot write the configuration file.
	ErrConfigWriteFailed = zerr.New("failed to write configuration file")

	// ErrInvalidCacheSize is returned when cache_size is negative.
	ErrInvalidCacheSize = zerr.Wrap(ErrConfiguration, "cache_size must be a non-negative integer")

	// ErrManifestNotFound is returned when a manifest file listed in the configuration is missing or unreadable.
	ErrManifestNotFound = zerr.Wrap(ErrConfiguration, "manifest file stated in the configuration not found")

	// ErrCacheMiss is returned when no cached environment matches the current manifests.
	ErrCacheMiss = zerr.New("no cached virtual environment found")

	// ErrEnvironmentNotFound is returned when the working environment tree is missing on store.
	ErrEnvironmentNotFound = zerr.New("environment tree not found")

	// ErrUsageRecordInvalid is returned when an entry's usage record is missing or unparseable.
	ErrUsageRecordInvalid = zerr.New("invalid usage record")

	// ErrLockFailed is returned when the advisory cache lock cannot be acquired.
	ErrLockFailed = zerr.New("failed to acquire cache lock")

	// ErrStoreReadFailed is returned when the cache store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache store")

	// ErrStoreWriteFailed is returned when the cache store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache store")

	// ErrCopyFailed is returned when copying an environment tree fails.
	ErrCopyFailed = zerr.New("failed to copy environment tree")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")
)
