package main

import (
	"fmt"

	"github.com/gnames/gnrecon/internal/iobatches"
	"github.com/gnames/gnrecon/internal/ioingest"
	"github.com/gnames/gnrecon/internal/iorejects"
	"github.com/gnames/gnrecon/internal/iostore"
	"github.com/gnames/gnrecon/pkg/batches"
	pkgconfig "github.com/gnames/gnrecon/pkg/config"
	"github.com/spf13/cobra"
)

var (
	batchID     string
	batchesFile string
)

func getIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Import checklist batches into the taxon store",
		Long: `Import checklist batches listed in the batches manifest.

Each row's name is parsed, matched against the authority, and
inserted as a primary taxon record. Names the authority cannot
resolve get locally-minted identifiers; unparseable names and
excluded kingdoms go to the rejects file for curator review.

Examples:
  gnrecon ingest
  gnrecon ingest --batch my-checklist
  gnrecon ingest --batches-file ./batches.yaml --jobs 8`,
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&batchID, "batch", "",
		"ingest only the batch with this id")
	cmd.Flags().StringVar(&batchesFile, "batches-file", "",
		"batches manifest (default: ~/.config/gnrecon/batches.yaml)")
	cmd.Flags().Int("jobs", 0, "concurrent name-parsing workers")
	cmd.Flags().Int("delay", 0, "milliseconds between authority calls")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfig()

	manifestPath := batchesFile
	if manifestPath == "" {
		manifestPath = pkgconfig.BatchesFilePath(cfg.HomeDir)
		if err := iobatches.EnsureFile(manifestPath); err != nil {
			return err
		}
	}
	manifest, err := iobatches.Load(manifestPath)
	if err != nil {
		return err
	}

	var queue []batches.Batch
	if batchID != "" {
		b := manifest.Find(batchID)
		if b == nil {
			return fmt.Errorf(
				"batch %q is not in the manifest %s", batchID, manifestPath)
		}
		queue = []batches.Batch{*b}
	} else {
		queue = manifest.Batches
	}

	op, err := connectOperator(cmd, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	client, closer, err := getClient(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	sink, err := iorejects.New(pkgconfig.RejectsFilePath(cfg.HomeDir))
	if err != nil {
		return err
	}
	defer sink.Close()

	ing := ioingest.New(cfg, iostore.New(op), client, sink)
	defer ing.Close()
	for i := range queue {
		report, err := ing.IngestBatch(ctx, &queue[i])
		if err != nil {
			return err
		}
		fmt.Println(report.Summary())
	}

	fmt.Println("\nNext step: run 'gnrecon reconcile' to repair " +
		"references the batches introduced.")
	return nil
}
