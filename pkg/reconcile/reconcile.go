// Package reconcile defines the contracts and run reports for the
// closure reconciler and the duplicate collapser. Implementations
// live in internal/ioreconcile and internal/iocollapse.
//
// Counts accumulate in explicit report values returned by each run,
// not in process-wide state, so passes stay composable and testable.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/gnames/gnrecon/pkg/store"
	"github.com/google/uuid"
)

// RunReport accumulates the outcome of one reconciliation run.
type RunReport struct {
	// RunID identifies the run in logs and audit entries.
	RunID string

	// Passes is the number of dangling-reference passes performed.
	Passes int

	// PassBudget is the operator-configured pass limit.
	PassBudget int

	// Converged is true when a pass found zero dangling references.
	// Budget exhaustion is reported, never treated as success.
	Converged bool

	// Found is the total number of dangling references seen.
	Found int

	// Per-record outcomes.
	Inserted int
	Updated  int
	Deleted  int
	Skipped  int

	// Redirected counts synonym redirects: the fetched record was
	// itself a synonym, so the source reference was repointed at the
	// canonical identifier instead.
	Redirected int

	// KeyMismatches counts authority records whose endpoint and
	// backbone identifiers disagreed.
	KeyMismatches int

	// MissingAccepted counts records whose accepted reference was
	// defaulted to self.
	MissingAccepted int

	// Errors counts references that could not be resolved this run.
	Errors int

	// Unresolved lists the dangling references remaining at the end
	// of the run.
	Unresolved []store.Dangling

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRunReport starts a report for a run with the given pass budget.
func NewRunReport(passBudget int) *RunReport {
	return &RunReport{
		RunID:      uuid.New().String(),
		PassBudget: passBudget,
		StartedAt:  time.Now(),
	}
}

// Mutations is the number of store writes the run performed. A
// second run over a closed store must report zero.
func (r *RunReport) Mutations() int {
	return r.Inserted + r.Updated + r.Deleted + r.Redirected
}

// Summary renders the report for the operator.
func (r *RunReport) Summary() string {
	status := "converged"
	if !r.Converged {
		status = fmt.Sprintf(
			"NOT converged, %s references unresolved",
			humanize.Comma(int64(len(r.Unresolved))))
	}
	dur := r.FinishedAt.Sub(r.StartedAt)
	return fmt.Sprintf(
		"reconciliation %s: %d passes, %s found, "+
			"%s inserted, %s updated, %s deleted, %s redirected, "+
			"%s skipped, %s errors, %s key-mismatches in %s",
		status, r.Passes,
		humanize.Comma(int64(r.Found)),
		humanize.Comma(int64(r.Inserted)),
		humanize.Comma(int64(r.Updated)),
		humanize.Comma(int64(r.Deleted)),
		humanize.Comma(int64(r.Redirected)),
		humanize.Comma(int64(r.Skipped)),
		humanize.Comma(int64(r.Errors)),
		humanize.Comma(int64(r.KeyMismatches)),
		gnfmt.TimeString(dur.Seconds()),
	)
}

// Reconciler repairs dangling references until the store is closed or
// the pass budget runs out.
type Reconciler interface {
	Reconcile(ctx context.Context) (*RunReport, error)
}

// UnresolvedGroup is a duplicate-name group the collapser could not
// resolve automatically: zero or several canonical candidates at the
// authority. Common above the genus rank; a scaling limit, not a bug.
type UnresolvedGroup struct {
	CanonicalName string
	Candidates    int
	TaxonIDs      []string
}

// CollapseReport accumulates the outcome of one duplicate-collapse
// run at a single rank.
type CollapseReport struct {
	Rank   schema.Rank
	DryRun bool

	// Groups is the number of duplicate-name groups examined.
	Groups int

	// Collapsed is the number of groups resolved to a survivor.
	Collapsed int

	// RewrittenRefs counts reference columns repointed at survivors.
	RewrittenRefs int64

	// DeletedRows counts non-survivor duplicates removed.
	DeletedRows int

	// Unresolved lists groups needing manual resolution.
	Unresolved []UnresolvedGroup
}

// Summary renders the report for the operator.
func (r *CollapseReport) Summary() string {
	mode := ""
	if r.DryRun {
		mode = " (dry-run)"
	}
	return fmt.Sprintf(
		"collapse at %s%s: %d groups, %d collapsed, "+
			"%s references rewritten, %d rows deleted, %d unresolved",
		r.Rank, mode, r.Groups, r.Collapsed,
		humanize.Comma(r.RewrittenRefs), r.DeletedRows,
		len(r.Unresolved),
	)
}

// Collapser resolves duplicate canonical names at a rank. Dry-run
// performs the same impact analysis without the destructive rewrite
// and delete.
type Collapser interface {
	Collapse(
		ctx context.Context, rank schema.Rank, dryRun bool,
	) (*CollapseReport, error)
}
