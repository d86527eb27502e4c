// Package iobatches reads the ingest manifest from disk and seeds a
// template manifest on first run.
package iobatches

import (
	"os"
	"path/filepath"

	"github.com/gnames/gnrecon/pkg/batches"
	"github.com/gnames/gnrecon/pkg/templates"
	"github.com/gnames/gnsys"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the manifest at path.
func Load(path string) (*batches.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(path, err)
	}
	var m batches.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, parseError(path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, validateError(path, err)
	}
	return &m, nil
}

// EnsureFile writes the template manifest to path when no file exists
// there yet, so the operator has a documented starting point.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := gnsys.MakeDir(filepath.Dir(path)); err != nil {
		return writeError(path, err)
	}
	err := os.WriteFile(path, []byte(templates.BatchesYAML), 0644)
	if err != nil {
		return writeError(path, err)
	}
	return nil
}
