package handlers

import (
	"fmt"

	"github.com/ibm/data-gate-cli/internal/config"
)

// Factory function variables for the configuration file - can be replaced in tests.
var (
	configPath = config.Path

	loadConfigFile = config.Load
)

// loadConfig reads the configuration file and returns it with its path.
func loadConfig() (*config.Config, string, error) {
	path, err := configPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	return cfg, path, nil
}

func saveConfig(cfg *config.Config, path string) error {
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
