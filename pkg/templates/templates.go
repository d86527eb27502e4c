// Package templates provides embedded YAML configuration templates.
package templates

import _ "embed"

// ConfigYAML contains the default gnrecon.yaml template for
// application configuration.
//
//go:embed gnrecon.yaml
var ConfigYAML string

// BatchesYAML contains the default batches.yaml template for the
// ingest manifest.
//
//go:embed batches.yaml
var BatchesYAML string
