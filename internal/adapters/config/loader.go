// Package config reads and writes the virtualenv-cache configuration file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// EnvPrefix prefixes the environment variables overriding configuration keys.
const EnvPrefix = "VIRTUALENV_CACHE"

// Configuration keys inside the [virtualenv-cache] table.
const (
	KeyCacheSize = "cache_size"
	KeyCachePath = "cache_path"
	KeyEnvPath   = "virtualenv_path"
	KeyManifests = "requirements_lock_paths"
)

// Loader implements ports.ConfigLoader with viper.
type Loader struct {
	fs     afero.Fs
	logger ports.Logger
}

// NewLoader creates a Loader working on the host filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFs(afero.NewOsFs(), logger)
}

// NewLoaderWithFs creates a Loader working on fsys.
func NewLoaderWithFs(fsys afero.Fs, logger ports.Logger) *Loader {
	return &Loader{fs: fsys, logger: logger}
}

// Load reads the configuration file at configPath.
// Keys missing from the file take their defaults, and VIRTUALENV_CACHE_<KEY>
// environment variables override both.
func (l *Loader) Load(configPath, workDir string) (domain.Config, error) {
	exists, err := afero.Exists(l.fs, configPath)
	if err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to stat configuration file"), "path", configPath)
	}
	if !exists {
		return domain.Config{}, errors.Join(domain.ErrConfigNotFound, pathError("no such file", configPath))
	}

	defaults := domain.DefaultConfig(workDir)

	v := viper.New()
	v.SetFs(l.fs)
	v.SetConfigFile(configPath)
	v.SetConfigType(configType(configPath))

	v.SetDefault(sectionKey(KeyCacheSize), defaults.CacheSize)
	v.SetDefault(sectionKey(KeyCachePath), defaults.CachePath)
	v.SetDefault(sectionKey(KeyEnvPath), defaults.EnvPath)
	v.SetDefault(sectionKey(KeyManifests), defaults.Manifests)

	for _, key := range []string{KeyCacheSize, KeyCachePath, KeyEnvPath, KeyManifests} {
		if err := v.BindEnv(sectionKey(key), envName(key)); err != nil {
			return domain.Config{}, zerr.Wrap(err, "failed to bind environment variable")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return domain.Config{}, errors.Join(
			domain.ErrConfigParseFailed,
			zerr.With(zerr.Wrap(err, "failed to read configuration file"), "path", configPath),
		)
	}

	if !v.InConfig(domain.ConfigSection) {
		return domain.Config{}, errors.Join(domain.ErrConfigSectionMissing, pathError("missing ["+domain.ConfigSection+"] table", configPath))
	}

	size, err := cast.ToIntE(v.Get(sectionKey(KeyCacheSize)))
	if err != nil || size < 0 {
		detail := zerr.With(zerr.New("invalid value"), "value", v.Get(sectionKey(KeyCacheSize)))
		return domain.Config{}, errors.Join(domain.ErrInvalidCacheSize, detail)
	}

	manifests, err := cast.ToStringSliceE(v.Get(sectionKey(KeyManifests)))
	if err != nil {
		return domain.Config{}, errors.Join(
			domain.ErrConfigParseFailed,
			zerr.With(zerr.Wrap(err, KeyManifests+" must be a list of paths"), "path", configPath),
		)
	}

	return domain.Config{
		CacheSize: size,
		CachePath: v.GetString(sectionKey(KeyCachePath)),
		EnvPath:   v.GetString(sectionKey(KeyEnvPath)),
		Manifests: manifests,
		WorkDir:   workDir,
	}, nil
}

// fileSection is the on-disk layout of the [virtualenv-cache] table.
type fileSection struct {
	CacheSize int      `toml:"cache_size" yaml:"cache_size"`
	CachePath string   `toml:"cache_path" yaml:"cache_path"`
	EnvPath   string   `toml:"virtualenv_path" yaml:"virtualenv_path"`
	Manifests []string `toml:"requirements_lock_paths" yaml:"requirements_lock_paths"`
}

type fileDocument struct {
	Section fileSection `toml:"virtualenv-cache" yaml:"virtualenv-cache"`
}

// Create writes the default configuration for workDir to configPath.
// Parent directories are created as needed. An existing file is never overwritten.
func (l *Loader) Create(configPath, workDir string) (domain.Config, error) {
	exists, err := afero.Exists(l.fs, configPath)
	if err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to stat configuration file"), "path", configPath)
	}
	if exists {
		return domain.Config{}, errors.Join(domain.ErrConfigExists, pathError("refusing to overwrite", configPath))
	}

	cfg := domain.DefaultConfig(workDir)

	cachePath := cfg.ExpandedCachePath()
	if inUse, _ := afero.DirExists(l.fs, cachePath); inUse {
		l.logger.Warn("the default cache path is already in use, consider setting a unique cache_path",
			"path", cachePath)
	}

	data, err := marshal(configPath, cfg)
	if err != nil {
		return domain.Config{}, errors.Join(domain.ErrConfigWriteFailed, err)
	}

	if err := l.fs.MkdirAll(filepath.Dir(configPath), domain.DirPerm); err != nil {
		return domain.Config{}, writeError(err, "failed to create configuration directory", configPath)
	}

	f, err := l.fs.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, domain.FilePerm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return domain.Config{}, errors.Join(domain.ErrConfigExists, pathError("refusing to overwrite", configPath))
		}
		return domain.Config{}, writeError(err, "failed to create configuration file", configPath)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return domain.Config{}, writeError(err, "failed to write configuration file", configPath)
	}
	if err := f.Close(); err != nil {
		return domain.Config{}, writeError(err, "failed to close configuration file", configPath)
	}

	l.logger.Info("created configuration file", "path", configPath)
	return cfg, nil
}

func marshal(configPath string, cfg domain.Config) ([]byte, error) {
	doc := fileDocument{Section: fileSection{
		CacheSize: cfg.CacheSize,
		CachePath: cfg.CachePath,
		EnvPath:   cfg.EnvPath,
		Manifests: cfg.ManifestPaths(),
	}}

	if configType(configPath) == "yaml" {
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to encode configuration as YAML")
		}
		return data, nil
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode configuration as TOML")
	}
	return data, nil
}

// configType picks the file format from the extension. TOML is the default.
func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

func sectionKey(key string) string {
	return domain.ConfigSection + "." + key
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

func pathError(msg, path string) error {
	return zerr.With(zerr.New(msg), "path", path)
}

func writeError(err error, msg, path string) error {
	return errors.Join(domain.ErrConfigWriteFailed, zerr.With(zerr.Wrap(err, msg), "path", path))
}
