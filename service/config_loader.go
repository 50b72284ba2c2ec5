package service

import (
	"fmt"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/config"
)

// ConfigurationLoaderImpl loads engine configuration for a target project.
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration file: %w", err)
	}
	return cfg, nil
}

// LoadForTarget loads configuration for a target project root, discovering a
// config file upward from the root when no explicit path is given. Falls back
// to defaults when discovery finds nothing or the file cannot be read.
func (c *ConfigurationLoaderImpl) LoadForTarget(configPath string, rootDir string) *config.Config {
	cfg, err := config.LoadConfigWithTarget(configPath, rootDir)
	if err == nil {
		return cfg
	}
	return config.DefaultConfig()
}

// ValidateFormat checks that the requested output format is supported.
func (c *ConfigurationLoaderImpl) ValidateFormat(format domain.OutputFormat) error {
	switch format {
	case domain.OutputFormatText, domain.OutputFormatJSON, "":
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: text, json)", format)
	}
}
