package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnrecon/internal/ioexport"
	"github.com/gnames/gnrecon/internal/iostore"
	"github.com/spf13/cobra"
)

var exportOutput string

func getExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Verify invariants and write the name-indexer file",
		Long: `Verify the store and write all taxon records as a fully-quoted
delimited file for the downstream name indexer.

The export refuses to run when any reference is dangling or any
accepted reference is empty; run 'gnrecon reconcile' first.

Examples:
  gnrecon export
  gnrecon export --output /tmp/taxa.csv`,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportOutput, "output", "o", "taxa.csv",
		"path of the export file")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfig()

	op, err := connectOperator(cmd, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	exp := ioexport.New(iostore.New(op))
	n, err := exp.Export(ctx, exportOutput)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Exported %s records to %s\n",
		humanize.Comma(n), exportOutput)
	return nil
}
