package domain

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Config is the immutable configuration for one invocation.
// It is built once by the config loader and passed by value to the engine.
type Config struct {
	// CacheSize is the maximum number of entries kept after a store.
	CacheSize int
	// CachePath is the cache root as written in the configuration, before expansion.
	CachePath string
	// EnvPath is the environment tree location as written in the configuration, before expansion.
	EnvPath string
	// Manifests lists the manifest files whose content keys the cache.
	Manifests []string
	// WorkDir is the absolute project root that relative paths are resolved against.
	WorkDir string
}

// DefaultConfig returns the configuration used when a project is initialized in workDir.
func DefaultConfig(workDir string) Config {
	return Config{
		CacheSize: DefaultCacheSize,
		CachePath: DefaultCachePath(workDir),
		EnvPath:   DefaultEnvPath,
		Manifests: []string{},
		WorkDir:   workDir,
	}
}

// ManifestPaths returns a copy of the manifest list.
func (c Config) ManifestPaths() []string {
	return slices.Clone(c.Manifests)
}

// ExpandedCachePath returns the cache root with environment variables expanded,
// resolved against the work dir.
func (c Config) ExpandedCachePath() string {
	return c.resolve(ExpandVars(c.CachePath))
}

// ExpandedEnvPath returns the environment tree location with environment variables expanded,
// resolved against the work dir.
func (c Config) ExpandedEnvPath() string {
	return c.resolve(ExpandVars(c.EnvPath))
}

func (c Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.WorkDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(c.WorkDir, p)
}

// ExpandVars replaces $VAR and ${VAR} with the value of the environment variable.
// References to unset variables are left untouched.
func ExpandVars(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '$' || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		if s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				b.WriteString(s[i:])
				break
			}
			name := s[i+2 : i+2+end]
			if val, ok := os.LookupEnv(name); ok && name != "" {
				b.WriteString(val)
			} else {
				b.WriteString(s[i : i+3+end])
			}
			i += 3 + end
			continue
		}

		j := i + 1
		for j < len(s) && isVarChar(s[j]) {
			j++
		}
		name := s[i+1 : j]
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(val)
		} else {
			b.WriteString(s[i:j])
		}
		if j == i+1 {
			j++
			b.WriteByte(s[i+1])
		}
		i = j
	}
	return b.String()
}

func isVarChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
