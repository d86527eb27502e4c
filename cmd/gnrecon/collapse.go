package main

import (
	"fmt"
	"strings"

	"github.com/gnames/gnrecon/internal/iocollapse"
	"github.com/gnames/gnrecon/internal/iostore"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/spf13/cobra"
)

var (
	collapseRank   string
	collapseDryRun bool
)

func getCollapseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collapse",
		Short: "Resolve duplicate canonical names at a rank",
		Long: `Resolve groups of records sharing a canonical name at one rank.

A group collapses when the authority confirms exactly one of its
records as canonical: references to the others are repointed at the
survivor and the duplicate rows removed. Groups with zero or several
canonical candidates are reported for manual resolution.

Start with --dry-run to see the impact without changing the store.

Examples:
  gnrecon collapse --rank genus --dry-run
  gnrecon collapse --rank genus`,
		RunE: runCollapse,
	}

	cmd.Flags().StringVar(&collapseRank, "rank", "",
		"rank to collapse at (kingdom ... species), required")
	cmd.Flags().BoolVar(&collapseDryRun, "dry-run", false,
		"analyze without rewriting or deleting")
	cmd.MarkFlagRequired("rank")

	return cmd
}

func runCollapse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfig()

	rank := schema.ParseRank(collapseRank)
	if rank == schema.RankUnknown {
		return fmt.Errorf("unknown rank %q", collapseRank)
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

	col := iocollapse.New(cfg, iostore.New(op), client)
	report, err := col.Collapse(ctx, rank, collapseDryRun)
	if report != nil {
		fmt.Println(report.Summary())
	}
	if err != nil {
		return err
	}

	if len(report.Unresolved) > 0 {
		fmt.Println("\nGroups needing manual resolution:")
		for _, g := range report.Unresolved {
			fmt.Printf("  %s (%d canonical candidates): %s\n",
				g.CanonicalName, g.Candidates,
				strings.Join(g.TaxonIDs, ", "))
		}
	}
	return nil
}
