// Package batches describes the ingest manifest: the curated or
// externally-sourced checklist files queued for ingestion.
package batches

import (
	"fmt"
	"strings"
)

// Batch is one delimited checklist file with its provenance.
type Batch struct {
	// ID is a short operator-chosen handle for the batch.
	ID string `yaml:"id"`

	// Path to the delimited text file.
	Path string `yaml:"path"`

	// DatasetName and DatasetID record provenance on every inserted
	// taxon record.
	DatasetName string `yaml:"dataset_name"`
	DatasetID   string `yaml:"dataset_id"`

	// Delimiter of the file; defaults to comma. Tab is spelled
	// "\t" or "tab".
	Delimiter string `yaml:"delimiter"`
}

// Manifest is the content of batches.yaml.
type Manifest struct {
	Batches []Batch `yaml:"batches"`
}

// DelimiterRune resolves the configured delimiter to a rune.
func (b *Batch) DelimiterRune() rune {
	switch strings.ToLower(b.Delimiter) {
	case "", ",", "comma":
		return ','
	case "\t", "tab":
		return '\t'
	case ";", "semicolon":
		return ';'
	case "|", "pipe":
		return '|'
	}
	return []rune(b.Delimiter)[0]
}

// Validate checks the manifest for missing fields and duplicate IDs.
func (m *Manifest) Validate() error {
	if len(m.Batches) == 0 {
		return fmt.Errorf("batches: manifest lists no batches")
	}
	seen := make(map[string]bool, len(m.Batches))
	for i, b := range m.Batches {
		if b.ID == "" {
			return fmt.Errorf("batches: batch %d has no id", i)
		}
		if seen[b.ID] {
			return fmt.Errorf("batches: duplicate batch id %q", b.ID)
		}
		seen[b.ID] = true
		if b.Path == "" {
			return fmt.Errorf("batches: batch %q has no path", b.ID)
		}
	}
	return nil
}

// Find returns the batch with the ID, or nil.
func (m *Manifest) Find(id string) *Batch {
	for i := range m.Batches {
		if m.Batches[i].ID == id {
			return &m.Batches[i]
		}
	}
	return nil
}
