package reconcile_test

import (
	"testing"
	"time"

	"github.com/gnames/gnrecon/pkg/reconcile"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/gnames/gnrecon/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunReport(t *testing.T) {
	report := reconcile.NewRunReport(8)

	require.NotEmpty(t, report.RunID)
	assert.Equal(t, 8, report.PassBudget)
	assert.False(t, report.StartedAt.IsZero())
	assert.False(t, report.Converged)

	// Each run gets its own identifier.
	other := reconcile.NewRunReport(8)
	assert.NotEqual(t, report.RunID, other.RunID)
}

func TestRunReportMutations(t *testing.T) {
	report := reconcile.NewRunReport(8)
	assert.Zero(t, report.Mutations())

	report.Inserted = 3
	report.Updated = 2
	report.Deleted = 1
	report.Redirected = 1
	report.Skipped = 10
	assert.Equal(t, 7, report.Mutations())
}

func TestRunReportSummary(t *testing.T) {
	report := reconcile.NewRunReport(8)
	report.Passes = 3
	report.Converged = true
	report.Found = 1500
	report.Inserted = 1200
	report.FinishedAt = report.StartedAt.Add(2 * time.Second)

	s := report.Summary()
	assert.Contains(t, s, "converged")
	assert.Contains(t, s, "3 passes")
	assert.Contains(t, s, "1,500 found")
	assert.Contains(t, s, "1,200 inserted")
}

func TestRunReportSummaryNotConverged(t *testing.T) {
	report := reconcile.NewRunReport(2)
	report.Passes = 2
	report.Unresolved = []store.Dangling{
		{SourceID: "a", MissingID: "b", Column: "parent_name_usage_id"},
	}
	report.FinishedAt = time.Now()

	assert.Contains(t, report.Summary(), "NOT converged")
}

func TestCollapseReportSummary(t *testing.T) {
	report := &reconcile.CollapseReport{
		Rank:          schema.RankGenus,
		DryRun:        true,
		Groups:        5,
		Collapsed:     3,
		RewrittenRefs: 12,
		DeletedRows:   3,
	}

	s := report.Summary()
	assert.Contains(t, s, "genus")
	assert.Contains(t, s, "(dry-run)")
	assert.Contains(t, s, "5 groups")
	assert.Contains(t, s, "3 collapsed")
}
