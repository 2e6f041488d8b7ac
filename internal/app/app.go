// Package app implements the application layer for venvcache.
package app

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/core/ports"
	"go.trai.ch/venvcache/internal/engine/cache"
	"go.trai.ch/zerr"
)

// Log formats accepted by SetLogFormat.
const (
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// Options locate the project and its configuration file.
type Options struct {
	// ConfigPath is the configuration file. Empty means .virtualenv_cache.toml in the work dir.
	// Relative paths are resolved against the work dir.
	ConfigPath string
	// WorkDir is the project root. Empty means the current directory.
	WorkDir string
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	engine       *cache.Engine
	logger       ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, engine *cache.Engine, logger ports.Logger) *App {
	return &App{
		configLoader: loader,
		engine:       engine,
		logger:       logger,
	}
}

// SetVerbose enables debug logging.
func (a *App) SetVerbose(enable bool) {
	a.logger.SetVerbose(enable)
}

// SetLogFormat switches the log output between pretty and JSON.
func (a *App) SetLogFormat(format string) error {
	switch format {
	case LogFormatPretty, "":
		a.logger.SetJSON(false)
	case LogFormatJSON:
		a.logger.SetJSON(true)
	default:
		return zerr.With(zerr.New("unsupported log format"), "format", format)
	}
	return nil
}

// Init writes the default configuration file and returns its location and content.
func (a *App) Init(opts Options) (string, domain.Config, error) {
	configPath, workDir, err := resolve(opts)
	if err != nil {
		return "", domain.Config{}, err
	}

	cfg, err := a.configLoader.Create(configPath, workDir)
	if err != nil {
		return configPath, domain.Config{}, zerr.Wrap(err, "failed to initialize configuration")
	}
	return configPath, cfg, nil
}

// Restore replaces the environment tree with the cached copy for the current manifests.
func (a *App) Restore(ctx context.Context, opts Options) (domain.CacheKey, error) {
	cfg, err := a.load(opts)
	if err != nil {
		return "", err
	}
	return a.engine.Restore(ctx, cfg)
}

// Store saves the environment tree in the cache.
func (a *App) Store(ctx context.Context, opts Options) (domain.CacheKey, error) {
	cfg, err := a.load(opts)
	if err != nil {
		return "", err
	}
	return a.engine.Store(ctx, cfg)
}

// List returns the cached entries, most recently used first.
func (a *App) List(ctx context.Context, opts Options) ([]domain.Entry, error) {
	cfg, err := a.load(opts)
	if err != nil {
		return nil, err
	}
	return a.engine.List(ctx, cfg)
}

// Trim evicts the least recently used entries beyond the configured cache size.
func (a *App) Trim(ctx context.Context, opts Options) ([]domain.CacheKey, error) {
	cfg, err := a.load(opts)
	if err != nil {
		return nil, err
	}
	return a.engine.Trim(ctx, cfg)
}

// Erase deletes the whole cache.
func (a *App) Erase(ctx context.Context, opts Options) error {
	cfg, err := a.load(opts)
	if err != nil {
		return err
	}
	return a.engine.Erase(ctx, cfg)
}

// Status reports how the environment tree relates to the cache.
func (a *App) Status(ctx context.Context, opts Options) (domain.Status, error) {
	cfg, err := a.load(opts)
	if err != nil {
		return domain.Status{}, err
	}
	return a.engine.Status(ctx, cfg)
}

func (a *App) load(opts Options) (domain.Config, error) {
	configPath, workDir, err := resolve(opts)
	if err != nil {
		return domain.Config{}, err
	}

	a.logger.Debug("loading configuration", "path", configPath, "work_dir", workDir)
	cfg, err := a.configLoader.Load(configPath, workDir)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// resolve returns the absolute configuration path and work dir for opts.
func resolve(opts Options) (configPath, workDir string, err error) {
	workDir = opts.WorkDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			return "", "", zerr.Wrap(err, "failed to determine working directory")
		}
	}
	workDir, err = filepath.Abs(workDir)
	if err != nil {
		return "", "", zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "path", opts.WorkDir)
	}

	configPath = opts.ConfigPath
	switch {
	case configPath == "":
		configPath = filepath.Join(workDir, domain.DefaultConfigFileName)
	case !filepath.IsAbs(configPath):
		configPath = filepath.Join(workDir, configPath)
	}
	return filepath.Clean(configPath), workDir, nil
}
