package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths.
var AppName = "gnrecon"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnrecon by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files, including the
// authority response cache. Returns ~/.cache/gnrecon by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// AuthorityCacheDir returns the badger directory for cached authority
// responses.
func AuthorityCacheDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "authority")
}

// RejectsFilePath returns the path of the SQLite manual-review sink.
func RejectsFilePath(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "rejects.sqlite")
}

// ConfigFilePath returns the full path to the gnrecon.yaml file.
// Returns ~/.config/gnrecon/gnrecon.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "gnrecon.yaml")
}

// BatchesFilePath returns the full path to the batches.yaml ingest
// manifest.
func BatchesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "batches.yaml")
}
