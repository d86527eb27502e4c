// Package main provides the gnrecon CLI application.
// gnrecon reconciles regional species checklists against the GBIF
// backbone and maintains a referentially closed taxon database.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
