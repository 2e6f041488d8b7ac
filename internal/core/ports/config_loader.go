package ports

import "go.trai.ch/venvcache/internal/core/domain"

// ConfigLoader defines the interface for reading and creating the configuration file.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at configPath.
	// Relative paths in the returned configuration are resolved against workDir.
	Load(configPath, workDir string) (domain.Config, error)

	// Create writes the default configuration for workDir to configPath.
	// It fails with domain.ErrConfigExists if the file is already present.
	Create(configPath, workDir string) (domain.Config, error)
}
