package ioreconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gnrecon/internal/ioreconcile"
	"github.com/gnames/gnrecon/internal/iotest"
	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/config"
	"github.com/gnames/gnrecon/pkg/reconcile"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.New()
	cfg.Authority.DelayMs = 0
	return cfg
}

func kingdomRecord() schema.TaxonRecord {
	return schema.TaxonRecord{
		TaxonID:             "1",
		ScientificName:      "Animalia",
		CanonicalName:       "Animalia",
		TaxonRank:           "kingdom",
		ParentNameUsageID:   "1",
		AcceptedNameUsageID: "1",
		Kingdom:             "Animalia",
		KingdomID:           "1",
	}
}

func TestReconcileMissingAncestor(t *testing.T) {
	st := iotest.NewMemStore(
		kingdomRecord(),
		schema.TaxonRecord{
			TaxonID:             "2435099",
			ScientificName:      "Puma concolor (Linnaeus, 1771)",
			CanonicalName:       "Puma concolor",
			TaxonRank:           "species",
			ParentNameUsageID:   "2435098",
			AcceptedNameUsageID: "2435099",
			Kingdom:             "Animalia",
			KingdomID:           "1",
			Genus:               "Puma",
			GenusID:             "2435098",
		},
	)
	client := iotest.NewStubClient()
	client.Records["2435098"] = &authority.Record{
		Key:             2435098,
		NubKey:          2435098,
		ScientificName:  "Puma Jardine, 1834",
		CanonicalName:   "Puma",
		Rank:            "GENUS",
		TaxonomicStatus: "ACCEPTED",
		Kingdom:         "Animalia",
		KingdomKey:      1,
		ParentKey:       1,
	}

	rec := ioreconcile.NewQuiet(testConfig(), st, client)
	report, err := rec.Reconcile(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Converged)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 0, report.Deleted)
	// Two references pointed at the same missing genus; one insert
	// satisfied both.
	assert.Equal(t, 1, report.Skipped)

	genus, err := st.Get(context.Background(), "2435098")
	require.NoError(t, err)
	assert.Equal(t, "Puma", genus.CanonicalName)
	assert.Equal(t, "genus", genus.TaxonRank)
	assert.Equal(t, "1", genus.ParentNameUsageID)
	assert.Equal(t, "2435098", genus.AcceptedNameUsageID)
}

func TestReconcileIdempotence(t *testing.T) {
	st := iotest.NewMemStore(
		kingdomRecord(),
		schema.TaxonRecord{
			TaxonID:             "2435099",
			CanonicalName:       "Puma concolor",
			TaxonRank:           "species",
			ParentNameUsageID:   "2435098",
			AcceptedNameUsageID: "2435099",
			KingdomID:           "1",
			GenusID:             "2435098",
		},
	)
	client := iotest.NewStubClient()
	client.Records["2435098"] = &authority.Record{
		Key: 2435098, NubKey: 2435098, CanonicalName: "Puma",
		Rank: "GENUS", Kingdom: "Animalia", KingdomKey: 1, ParentKey: 1,
	}

	cfg := testConfig()
	report, err := ioreconcile.NewQuiet(cfg, st, client).
		Reconcile(context.Background())
	require.NoError(t, err)
	require.True(t, report.Converged)
	require.Positive(t, report.Mutations())

	writes := st.Writes
	second, err := ioreconcile.NewQuiet(cfg, st, client).
		Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Converged)
	assert.Equal(t, 1, second.Passes)
	assert.Zero(t, second.Mutations())
	assert.Equal(t, writes, st.Writes)
}

func TestReconcileRepairsStaleReference(t *testing.T) {
	st := iotest.NewMemStore(
		kingdomRecord(),
		schema.TaxonRecord{
			TaxonID:             "100",
			CanonicalName:       "Vulpes",
			TaxonRank:           "genus",
			ParentNameUsageID:   "999",
			AcceptedNameUsageID: "100",
			KingdomID:           "1",
		},
	)
	client := iotest.NewStubClient()
	// The missing parent is gone at the authority, but the source
	// record itself still resolves with a fresh parent.
	client.Records["100"] = &authority.Record{
		Key: 100, NubKey: 100, CanonicalName: "Vulpes",
		Rank: "GENUS", Kingdom: "Animalia", KingdomKey: 1, ParentKey: 1,
	}

	report, err := ioreconcile.NewQuiet(testConfig(), st, client).
		Reconcile(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Converged)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Deleted)

	genus, err := st.Get(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, "1", genus.ParentNameUsageID)
}

func TestReconcileDeletesOrphanedRecord(t *testing.T) {
	st := iotest.NewMemStore(
		kingdomRecord(),
		schema.TaxonRecord{
			TaxonID:             "200",
			CanonicalName:       "Ghostus",
			TaxonRank:           "genus",
			ParentNameUsageID:   "999",
			AcceptedNameUsageID: "200",
			KingdomID:           "1",
		},
	)
	// Neither the missing parent nor the record itself exists at the
	// authority anymore.
	client := iotest.NewStubClient()

	report, err := ioreconcile.NewQuiet(testConfig(), st, client).
		Reconcile(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Converged)
	assert.Equal(t, 1, report.Deleted)

	_, err = st.Get(context.Background(), "200")
	assert.Error(t, err)
}

func TestReconcileProtectsLocalRecords(t *testing.T) {
	localID := schema.LocalID("Curated endemicus")
	st := iotest.NewMemStore(
		kingdomRecord(),
		schema.TaxonRecord{
			TaxonID:             localID,
			CanonicalName:       "Curated endemicus",
			TaxonRank:           "species",
			ParentNameUsageID:   "999",
			AcceptedNameUsageID: localID,
			KingdomID:           "1",
		},
	)
	client := iotest.NewStubClient()

	_, err := ioreconcile.NewQuiet(testConfig(), st, client).
		Reconcile(context.Background())
	require.Error(t, err)

	var protected *reconcile.ProtectedRecordError
	require.ErrorAs(t, err, &protected)
	assert.Equal(t, localID, protected.ID)

	// The curated record survives untouched.
	_, err = st.Get(context.Background(), localID)
	assert.NoError(t, err)
}

func TestReconcileRedirectsSynonymReference(t *testing.T) {
	st := iotest.NewMemStore(
		kingdomRecord(),
		schema.TaxonRecord{
			TaxonID:             "300",
			CanonicalName:       "Felis concolor",
			TaxonRank:           "species",
			ParentNameUsageID:   "1",
			AcceptedNameUsageID: "555",
			KingdomID:           "1",
		},
	)
	client := iotest.NewStubClient()
	// 555 is itself a synonym whose backbone identifier is 777.
	client.Records["555"] = &authority.Record{
		Key: 555, NubKey: 777, ScientificName: "Felis concolor",
		Rank: "SPECIES", Kingdom: "Animalia", KingdomKey: 1,
	}
	client.Records["777"] = &authority.Record{
		Key: 777, NubKey: 777, CanonicalName: "Puma concolor",
		Rank: "SPECIES", Kingdom: "Animalia", KingdomKey: 1, ParentKey: 1,
	}

	report, err := ioreconcile.NewQuiet(testConfig(), st, client).
		Reconcile(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Converged)
	assert.Equal(t, 1, report.Redirected)
	assert.Equal(t, 1, report.Inserted)

	species, err := st.Get(context.Background(), "300")
	require.NoError(t, err)
	assert.Equal(t, "777", species.AcceptedNameUsageID)

	_, err = st.Get(context.Background(), "777")
	assert.NoError(t, err)
}

func TestReconcileBudgetExhaustion(t *testing.T) {
	st := iotest.NewMemStore(
		kingdomRecord(),
		schema.TaxonRecord{
			TaxonID:             "2435099",
			CanonicalName:       "Puma concolor",
			TaxonRank:           "species",
			ParentNameUsageID:   "2435098",
			AcceptedNameUsageID: "2435099",
			KingdomID:           "1",
		},
	)
	client := iotest.NewStubClient()
	// The genus insert introduces a reference to a family that needs
	// one more pass than the budget allows.
	client.Records["2435098"] = &authority.Record{
		Key: 2435098, NubKey: 2435098, CanonicalName: "Puma",
		Rank: "GENUS", Kingdom: "Animalia", KingdomKey: 1,
		Family: "Felidae", FamilyKey: 9703, ParentKey: 9703,
	}
	client.Records["9703"] = &authority.Record{
		Key: 9703, NubKey: 9703, CanonicalName: "Felidae",
		Rank: "FAMILY", Kingdom: "Animalia", KingdomKey: 1, ParentKey: 1,
	}

	cfg := testConfig()
	cfg.Reconcile.PassBudget = 1

	report, err := ioreconcile.NewQuiet(cfg, st, client).
		Reconcile(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Converged)
	assert.Equal(t, 1, report.Passes)
	assert.NotEmpty(t, report.Unresolved)
}

func TestReconcileIsolatesRecordErrors(t *testing.T) {
	// Two dangling references; one target's kingdom is out of scope
	// and is skipped, the other resolves.
	st := iotest.NewMemStore(
		kingdomRecord(),
		schema.TaxonRecord{
			TaxonID:             "500",
			CanonicalName:       "Mixta",
			TaxonRank:           "genus",
			ParentNameUsageID:   "1",
			AcceptedNameUsageID: "600",
			KingdomID:           "1",
		},
		schema.TaxonRecord{
			TaxonID:             "510",
			CanonicalName:       "Bona",
			TaxonRank:           "genus",
			ParentNameUsageID:   "700",
			AcceptedNameUsageID: "510",
			KingdomID:           "1",
		},
	)
	client := iotest.NewStubClient()
	client.Records["600"] = &authority.Record{
		Key: 600, NubKey: 600, CanonicalName: "Escherichia",
		Rank: "GENUS", Kingdom: "Bacteria", KingdomKey: 3,
	}
	client.Records["700"] = &authority.Record{
		Key: 700, NubKey: 700, CanonicalName: "Bonidae",
		Rank: "FAMILY", Kingdom: "Animalia", KingdomKey: 1, ParentKey: 1,
	}

	cfg := testConfig()
	cfg.Reconcile.PassBudget = 2

	report, err := ioreconcile.NewQuiet(cfg, st, client).
		Reconcile(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Converged)
	assert.Positive(t, report.Skipped)
	assert.Equal(t, 1, report.Inserted)

	_, err = st.Get(context.Background(), "700")
	assert.NoError(t, err)
	_, err = st.Get(context.Background(), "600")
	var notFound *authority.NotFoundError
	assert.False(t, errors.As(err, &notFound))
	assert.Error(t, err)
}
