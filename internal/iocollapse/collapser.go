// Package iocollapse implements duplicate-name collapsing. Duplicate
// canonical names accumulate when batches and the authority mint
// different identifiers for the same taxon; the collapser picks the
// authority's self-consistent record as survivor, repoints every
// reference at it and removes the rest.
package iocollapse

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/config"
	"github.com/gnames/gnrecon/pkg/reconcile"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/gnames/gnrecon/pkg/store"
)

type collapser struct {
	cfg          *config.Config
	st           store.Store
	client       authority.Client
	withProgress bool
}

// New creates a duplicate collapser.
func New(
	cfg *config.Config, st store.Store, client authority.Client,
) reconcile.Collapser {
	return &collapser{
		cfg:          cfg,
		st:           st,
		client:       client,
		withProgress: true,
	}
}

// NewQuiet creates a collapser without progress output.
func NewQuiet(
	cfg *config.Config, st store.Store, client authority.Client,
) reconcile.Collapser {
	return &collapser{cfg: cfg, st: st, client: client}
}

// Collapse resolves duplicate canonical names at one rank. A group
// collapses only when exactly one of its records is the authority's
// canonical record; zero or several candidates leave the group for
// manual resolution. With dryRun the same analysis runs without the
// rewrite and delete.
func (c *collapser) Collapse(
	ctx context.Context, rank schema.Rank, dryRun bool,
) (*reconcile.CollapseReport, error) {
	report := &reconcile.CollapseReport{Rank: rank, DryRun: dryRun}

	groups, err := c.st.DuplicateNames(ctx, rank)
	if err != nil {
		return report, err
	}
	report.Groups = len(groups)
	if len(groups) == 0 {
		slog.Info("no duplicate names", "rank", rank)
		return report, nil
	}

	slog.Info("collapsing duplicate names",
		"rank", rank, "groups", len(groups), "dry_run", dryRun)

	var bar *pb.ProgressBar
	if c.withProgress {
		bar = pb.Full.Start(len(groups))
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	for _, g := range groups {
		if bar != nil {
			bar.Increment()
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := c.collapseGroup(ctx, g, dryRun, report); err != nil {
			slog.Error("group collapse failed",
				"name", g.CanonicalName, "error", err)
			report.Unresolved = append(report.Unresolved,
				reconcile.UnresolvedGroup{
					CanonicalName: g.CanonicalName,
					TaxonIDs:      g.TaxonIDs,
				})
		}
	}

	slog.Info("collapse finished",
		"rank", rank,
		"collapsed", report.Collapsed,
		"rewritten", report.RewrittenRefs,
		"deleted", report.DeletedRows,
		"unresolved", len(report.Unresolved),
	)
	return report, nil
}

// collapseGroup verifies each member of one duplicate group against
// the authority and, when a single canonical survivor emerges,
// repoints and removes the losers.
func (c *collapser) collapseGroup(
	ctx context.Context,
	g store.NameGroup,
	dryRun bool,
	report *reconcile.CollapseReport,
) error {
	var survivor string
	var candidates int

	for _, id := range g.TaxonIDs {
		if schema.IsLocalID(id) {
			// Locally-minted members have no authority record and are
			// never survivors, but their references still get
			// repointed when the group collapses.
			continue
		}
		rec, err := c.client.RecordByID(ctx, id)
		c.pause(ctx)

		var notFound *authority.NotFoundError
		if errors.As(err, &notFound) {
			continue
		}
		if err != nil {
			return err
		}
		if authority.IsCanonical(rec) {
			candidates++
			survivor = id
		}
	}

	if candidates != 1 {
		report.Unresolved = append(report.Unresolved,
			reconcile.UnresolvedGroup{
				CanonicalName: g.CanonicalName,
				Candidates:    candidates,
				TaxonIDs:      g.TaxonIDs,
			})
		return nil
	}

	report.Collapsed++
	for _, id := range g.TaxonIDs {
		if id == survivor {
			continue
		}
		if dryRun {
			// The impact analysis still runs so the operator sees how
			// many references a real collapse would repoint.
			moved, err := c.st.CountReferences(ctx, id)
			if err != nil {
				return err
			}
			report.RewrittenRefs += moved
			report.DeletedRows++
			continue
		}
		moved, err := c.st.RewriteReferences(ctx, id, survivor)
		if err != nil {
			return err
		}
		report.RewrittenRefs += moved

		// References are gone, so a plain delete suffices; cascade
		// still clears the dependent vernacular rows.
		if err := c.st.Delete(ctx, id, true); err != nil {
			return err
		}
		report.DeletedRows++
		slog.Info("collapsed duplicate",
			"name", g.CanonicalName,
			"survivor", survivor,
			"removed", id,
			"references_moved", moved,
		)
	}
	return nil
}

func (c *collapser) pause(ctx context.Context) {
	delay := time.Duration(c.cfg.Authority.DelayMs) * time.Millisecond
	if delay == 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
