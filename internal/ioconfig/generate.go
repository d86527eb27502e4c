package ioconfig

import (
	"os"
	"path/filepath"

	"github.com/gnames/gnrecon/pkg/config"
	"github.com/gnames/gnrecon/pkg/templates"
)

// GenerateDefaultFiles writes the documented gnrecon.yaml and
// batches.yaml templates into the config directory. Existing files
// are never overwritten. Returns the config file path.
func GenerateDefaultFiles(homeDir string) (string, error) {
	configPath := config.ConfigFilePath(homeDir)
	batchesPath := config.BatchesFilePath(homeDir)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", writeError(configPath, err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		err := os.WriteFile(
			configPath, []byte(templates.ConfigYAML), 0644)
		if err != nil {
			return "", writeError(configPath, err)
		}
	}

	if _, err := os.Stat(batchesPath); os.IsNotExist(err) {
		err := os.WriteFile(
			batchesPath, []byte(templates.BatchesYAML), 0644)
		if err != nil {
			return "", writeError(batchesPath, err)
		}
	}

	return configPath, nil
}
