package domain

import "path/filepath"

const (
	// PayloadDirName is the name of the payload directory inside a cache entry.
	PayloadDirName = "venv"

	// UsageFileName is the name of the usage record inside a cache entry.
	UsageFileName = "virtualenv-cache-usage.json"

	// LockFileSuffix is appended to the cache root to form the advisory lock file path.
	LockFileSuffix = ".lock"

	// ConfigSection is the name of the configuration table.
	ConfigSection = "virtualenv-cache"

	// DefaultConfigFileName is the configuration file looked up in the work dir.
	DefaultConfigFileName = ".virtualenv_cache.toml"

	// DefaultCacheSize is the number of entries kept when the configuration does not say otherwise.
	DefaultCacheSize = 20

	// DefaultEnvPath is the environment tree location relative to the work dir.
	DefaultEnvPath = ".venv"

	// DefaultCacheBase is the parent of per-project cache roots.
	DefaultCacheBase = "${HOME}/.virtualenv_cache/caches"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// EntryDir returns the directory of the entry named by key under root.
func EntryDir(root string, key CacheKey) string {
	return filepath.Join(root, key.String())
}

// PayloadDir returns the payload directory of the entry named by key under root.
func PayloadDir(root string, key CacheKey) string {
	return filepath.Join(root, key.String(), PayloadDirName)
}

// UsageFile returns the usage record path of the entry named by key under root.
func UsageFile(root string, key CacheKey) string {
	return filepath.Join(root, key.String(), UsageFileName)
}

// LockFile returns the advisory lock file guarding root.
func LockFile(root string) string {
	return filepath.Clean(root) + LockFileSuffix
}

// DefaultCachePath returns the default cache root for a project living in workDir.
func DefaultCachePath(workDir string) string {
	return DefaultCacheBase + "/" + filepath.Base(workDir)
}
