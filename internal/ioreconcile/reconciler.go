// Package ioreconcile implements the closure reconciler: it
// repeatedly finds referenced identifiers with no primary record,
// fetches each from the authority, and inserts or repairs until the
// store is closed or the pass budget runs out.
//
// The loop is strictly sequential. Repairs to one record change what
// the next reference's resolution should do, so no parallel fan-out
// is safe without re-deriving the dangling set after every write.
package ioreconcile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/config"
	"github.com/gnames/gnrecon/pkg/normalize"
	"github.com/gnames/gnrecon/pkg/reconcile"
	"github.com/gnames/gnrecon/pkg/store"
)

// backboneProvenance tags records the reconciler inserts on its own:
// ancestors fetched from the authority to satisfy closure.
var backboneProvenance = normalize.Provenance{
	DatasetName:       "GBIF Backbone Taxonomy",
	DatasetID:         "gbif-backbone",
	NomenclaturalCode: "GBIF",
}

type reconciler struct {
	cfg    *config.Config
	st     store.Store
	client authority.Client

	// WithProgress draws a progress bar per pass. Off in tests.
	withProgress bool
}

// New creates a closure reconciler.
func New(
	cfg *config.Config, st store.Store, client authority.Client,
) reconcile.Reconciler {
	return &reconciler{
		cfg:          cfg,
		st:           st,
		client:       client,
		withProgress: true,
	}
}

// NewQuiet creates a reconciler without progress output, for tests
// and embedding.
func NewQuiet(
	cfg *config.Config, st store.Store, client authority.Client,
) reconcile.Reconciler {
	return &reconciler{cfg: cfg, st: st, client: client}
}

// Reconcile runs dangling-reference passes to a fixed point. Each
// pass strictly reduces or repairs the dangling set, bounded by the
// depth of the rank hierarchy; budget exhaustion is reported, never
// treated as success.
func (r *reconciler) Reconcile(
	ctx context.Context,
) (*reconcile.RunReport, error) {
	report := reconcile.NewRunReport(r.cfg.Reconcile.PassBudget)
	defer func() { report.FinishedAt = time.Now() }()

	slog.Info("starting reconciliation",
		"run_id", report.RunID,
		"pass_budget", report.PassBudget,
	)

	for pass := 1; pass <= report.PassBudget; pass++ {
		dangling, err := r.st.DanglingReferences(ctx)
		if err != nil {
			return report, err
		}
		report.Passes = pass

		if len(dangling) == 0 {
			report.Converged = true
			slog.Info("store is closed", "pass", pass)
			break
		}

		slog.Info("reconciliation pass",
			"pass", pass,
			"dangling", humanize.Comma(int64(len(dangling))),
		)
		report.Found += len(dangling)

		if err := r.runPass(ctx, dangling, report); err != nil {
			return report, err
		}
	}

	if !report.Converged {
		left, err := r.st.DanglingReferences(ctx)
		if err != nil {
			return report, err
		}
		if len(left) == 0 {
			report.Converged = true
		} else {
			report.Unresolved = left
			slog.Warn("pass budget exhausted",
				"run_id", report.RunID,
				"unresolved", len(left),
			)
		}
	}

	slog.Info("reconciliation finished",
		"run_id", report.RunID,
		"passes", report.Passes,
		"converged", report.Converged,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"deleted", report.Deleted,
		"redirected", report.Redirected,
		"errors", report.Errors,
	)
	return report, nil
}

// runPass resolves one snapshot of the dangling set, one reference at
// a time. Authority and store errors become per-record outcomes; one
// bad record never halts the rest of the batch. The single fatal
// condition is ProtectedRecordError.
func (r *reconciler) runPass(
	ctx context.Context,
	dangling []store.Dangling,
	report *reconcile.RunReport,
) error {
	var bar *pb.ProgressBar
	if r.withProgress {
		bar = pb.Full.Start(len(dangling))
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	// The same missing identifier often dangles from many rows; once
	// resolved in this pass the rest are satisfied for free.
	resolved := make(map[string]bool)

	for _, d := range dangling {
		if bar != nil {
			bar.Increment()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if resolved[d.MissingID] {
			report.Skipped++
			continue
		}

		err := r.resolve(ctx, d, report, resolved)
		if err != nil {
			var protected *reconcile.ProtectedRecordError
			if errors.As(err, &protected) {
				return err
			}
			report.Errors++
			slog.Error("reference resolution failed",
				"source_id", d.SourceID,
				"missing_id", d.MissingID,
				"column", d.Column,
				"error", err,
			)
		}
	}
	return nil
}

// resolve runs the per-reference state machine.
func (r *reconciler) resolve(
	ctx context.Context,
	d store.Dangling,
	report *reconcile.RunReport,
	resolvedSet map[string]bool,
) error {
	rec, err := r.fetch(ctx, d.MissingID)

	var notFound *authority.NotFoundError
	switch {
	case errors.As(err, &notFound):
		// The referenced identifier does not exist at the authority:
		// assume the referencing record, not the target, is stale.
		return r.repairSource(ctx, d, report)

	case err != nil:
		return err

	case authority.IsCanonical(rec) || !authority.HasBackboneKey(rec):
		// Either the authority's own self-consistent record, or a
		// record with no synonymy model at all; insert it as a new
		// primary record. The insert may reference a still-missing
		// grandparent, picked up next pass.
		if err := r.insertPrimary(ctx, rec, d, report); err != nil {
			return err
		}
		resolvedSet[d.MissingID] = true
		return nil

	default:
		// The fetched record is itself a synonym: its backbone
		// identifier names a different, canonical record. Inserting
		// the non-canonical record would not close the reference, so
		// the source reference is repointed at the canonical
		// identifier and re-resolved next pass. Flagged distinctly:
		// the upstream behavior here is under review and must never
		// look like plain success.
		return r.redirectSynonym(ctx, rec, d, report)
	}
}

// fetch pulls one record from the authority, honoring the throttle
// delay afterwards.
func (r *reconciler) fetch(
	ctx context.Context, id string,
) (*authority.Record, error) {
	rec, err := r.client.RecordByID(ctx, id)
	r.pause(ctx)
	return rec, err
}

// pause sleeps the configured delay between authority calls. The
// authority's rate limits are shared and unmanaged; the delay is the
// operator's only lever.
func (r *reconciler) pause(ctx context.Context) {
	delay := time.Duration(r.cfg.Authority.DelayMs) * time.Millisecond
	if delay == 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
