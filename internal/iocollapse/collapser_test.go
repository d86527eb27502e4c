package iocollapse_test

import (
	"context"
	"testing"

	"github.com/gnames/gnrecon/internal/iocollapse"
	"github.com/gnames/gnrecon/internal/iotest"
	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/config"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.New()
	cfg.Authority.DelayMs = 0
	return cfg
}

// duplicateGenusStore seeds two records for the genus Puma plus a
// species referencing the one that should lose.
func duplicateGenusStore() *iotest.MemStore {
	return iotest.NewMemStore(
		schema.TaxonRecord{
			TaxonID:             "2435098",
			CanonicalName:       "Puma",
			TaxonRank:           "genus",
			ParentNameUsageID:   "2435098",
			AcceptedNameUsageID: "2435098",
		},
		schema.TaxonRecord{
			TaxonID:             "5219373",
			CanonicalName:       "Puma",
			TaxonRank:           "genus",
			ParentNameUsageID:   "5219373",
			AcceptedNameUsageID: "5219373",
		},
		schema.TaxonRecord{
			TaxonID:             "2435099",
			CanonicalName:       "Puma concolor",
			TaxonRank:           "species",
			ParentNameUsageID:   "5219373",
			AcceptedNameUsageID: "2435099",
			GenusID:             "5219373",
		},
	)
}

func TestCollapseDuplicateGenus(t *testing.T) {
	st := duplicateGenusStore()
	client := iotest.NewStubClient()
	client.Records["2435098"] = &authority.Record{
		Key: 2435098, NubKey: 2435098, CanonicalName: "Puma",
		Rank: "GENUS",
	}
	// The loser is a synonym at the authority.
	client.Records["5219373"] = &authority.Record{
		Key: 5219373, NubKey: 2435098, CanonicalName: "Puma",
		Rank: "GENUS",
	}

	col := iocollapse.NewQuiet(testConfig(), st, client)
	report, err := col.Collapse(
		context.Background(), schema.RankGenus, false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Groups)
	assert.Equal(t, 1, report.Collapsed)
	assert.Equal(t, 1, report.DeletedRows)
	// Two references on the species row plus the loser's own
	// self-referential parent and accepted columns.
	assert.Equal(t, int64(4), report.RewrittenRefs)
	assert.Empty(t, report.Unresolved)

	// The loser is gone; the species now references the survivor.
	_, err = st.Get(context.Background(), "5219373")
	assert.Error(t, err)

	species, err := st.Get(context.Background(), "2435099")
	require.NoError(t, err)
	assert.Equal(t, "2435098", species.ParentNameUsageID)
	assert.Equal(t, "2435098", species.GenusID)
}

func TestCollapseDryRun(t *testing.T) {
	st := duplicateGenusStore()
	client := iotest.NewStubClient()
	client.Records["2435098"] = &authority.Record{
		Key: 2435098, NubKey: 2435098, CanonicalName: "Puma",
	}
	client.Records["5219373"] = &authority.Record{
		Key: 5219373, NubKey: 2435098, CanonicalName: "Puma",
	}

	col := iocollapse.NewQuiet(testConfig(), st, client)
	report, err := col.Collapse(
		context.Background(), schema.RankGenus, true)
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Collapsed)
	assert.Equal(t, 1, report.DeletedRows)
	// The impact analysis reports the same rewrite count a real run
	// would produce.
	assert.Equal(t, int64(4), report.RewrittenRefs)

	// Nothing changed in the store.
	assert.Zero(t, st.Writes)
	_, err = st.Get(context.Background(), "5219373")
	assert.NoError(t, err)

	species, err := st.Get(context.Background(), "2435099")
	require.NoError(t, err)
	assert.Equal(t, "5219373", species.ParentNameUsageID)
	assert.Equal(t, "5219373", species.GenusID)
}

func TestCollapseAmbiguousGroup(t *testing.T) {
	st := duplicateGenusStore()
	client := iotest.NewStubClient()
	// Both records claim to be canonical; nothing can be collapsed
	// automatically.
	client.Records["2435098"] = &authority.Record{
		Key: 2435098, NubKey: 2435098, CanonicalName: "Puma",
	}
	client.Records["5219373"] = &authority.Record{
		Key: 5219373, NubKey: 5219373, CanonicalName: "Puma",
	}

	col := iocollapse.NewQuiet(testConfig(), st, client)
	report, err := col.Collapse(
		context.Background(), schema.RankGenus, false)
	require.NoError(t, err)

	assert.Zero(t, report.Collapsed)
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "Puma", report.Unresolved[0].CanonicalName)
	assert.Equal(t, 2, report.Unresolved[0].Candidates)
	assert.Zero(t, st.Writes)
}

func TestCollapseNoDuplicates(t *testing.T) {
	st := iotest.NewMemStore(schema.TaxonRecord{
		TaxonID:             "2435098",
		CanonicalName:       "Puma",
		TaxonRank:           "genus",
		ParentNameUsageID:   "2435098",
		AcceptedNameUsageID: "2435098",
	})
	col := iocollapse.NewQuiet(testConfig(), st, iotest.NewStubClient())

	report, err := col.Collapse(
		context.Background(), schema.RankGenus, false)
	require.NoError(t, err)
	assert.Zero(t, report.Groups)
}
