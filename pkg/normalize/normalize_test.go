package normalize_test

import (
	"testing"

	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/normalize"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var prov = normalize.Provenance{
	DatasetName:       "Test Checklist",
	DatasetID:         "test-1",
	NomenclaturalCode: "GBIF",
}

func pumaRecord() *authority.Record {
	return &authority.Record{
		Key:             2435099,
		NubKey:          2435099,
		ScientificName:  "Puma concolor (Linnaeus, 1771)",
		CanonicalName:   "Puma concolor",
		Authorship:      "(Linnaeus, 1771)",
		Rank:            "SPECIES",
		TaxonomicStatus: "ACCEPTED",
		Kingdom:         "Animalia", KingdomKey: 1,
		Phylum: "Chordata", PhylumKey: 44,
		Class: "Mammalia", ClassKey: 359,
		Order: "Carnivora", OrderKey: 732,
		Family: "Felidae", FamilyKey: 9703,
		Genus: "Puma", GenusKey: 2435098,
		ParentKey: 2435098,
	}
}

func TestFromAuthority(t *testing.T) {
	res, err := normalize.FromAuthority(pumaRecord(), nil, prov)
	require.NoError(t, err)

	rec := res.Record
	assert.Equal(t, "2435099", rec.TaxonID)
	assert.Equal(t, "Puma concolor", rec.CanonicalName)
	assert.Equal(t, "(Linnaeus, 1771)", rec.ScientificNameAuthorship)
	assert.Equal(t, "species", rec.TaxonRank)
	assert.Equal(t, "accepted", rec.TaxonomicStatus)
	assert.Equal(t, "concolor", rec.SpecificEpithet)

	assert.Equal(t, "Animalia", rec.Kingdom)
	assert.Equal(t, "1", rec.KingdomID)
	assert.Equal(t, "Carnivora", rec.Order)
	assert.Equal(t, "732", rec.OrderID)
	assert.Equal(t, "Puma", rec.Genus)
	assert.Equal(t, "2435098", rec.GenusID)

	assert.Equal(t, "2435098", rec.ParentNameUsageID)
	assert.Equal(t, "GBIF", rec.NomenclaturalCode)
	assert.Equal(t, "Test Checklist", rec.DatasetName)

	// No accepted key from the authority: defaulted to self.
	assert.Equal(t, "2435099", rec.AcceptedNameUsageID)
	assert.True(t, res.MissingAccepted)
	assert.False(t, res.KeyMismatch)
}

func TestFromAuthorityKeyMismatch(t *testing.T) {
	rec := pumaRecord()
	rec.Key = 111
	rec.NubKey = 2435099

	res, err := normalize.FromAuthority(rec, nil, prov)
	require.NoError(t, err)

	// The backbone identifier wins.
	assert.Equal(t, "2435099", res.Record.TaxonID)
	assert.True(t, res.KeyMismatch)
}

func TestFromAuthorityParentDerivation(t *testing.T) {
	// No explicit parent key: the closest non-empty ancestor above
	// the record's own rank becomes the parent.
	rec := pumaRecord()
	rec.ParentKey = 0
	rec.GenusKey = 0
	rec.Genus = ""

	res, err := normalize.FromAuthority(rec, nil, prov)
	require.NoError(t, err)
	assert.Equal(t, "9703", res.Record.ParentNameUsageID)
}

func TestFromAuthorityKingdomSelfParent(t *testing.T) {
	rec := &authority.Record{
		Key: 1, NubKey: 1, CanonicalName: "Animalia", Rank: "KINGDOM",
		Kingdom: "Animalia", KingdomKey: 1,
	}
	res, err := normalize.FromAuthority(rec, nil, prov)
	require.NoError(t, err)
	assert.Equal(t, "1", res.Record.ParentNameUsageID)
}

func TestFromAuthorityExcludedKingdom(t *testing.T) {
	rec := pumaRecord()
	rec.Kingdom = "Bacteria"

	_, err := normalize.FromAuthority(rec, nil, prov)
	require.Error(t, err)

	var excluded *normalize.ExcludedKingdomError
	require.ErrorAs(t, err, &excluded)
	assert.Equal(t, "Bacteria", excluded.Kingdom)
}

func TestFromSource(t *testing.T) {
	src := &normalize.SourceRecord{
		ScientificName: "Endemicus specialis Smith, 1999",
		TaxonRank:      "species",
		Kingdom:        "Animalia",
		Family:         "Endemidae",
	}

	res, err := normalize.FromSource(
		src, "Endemicus specialis", "Smith, 1999",
		schema.RankSpecies, prov,
	)
	require.NoError(t, err)

	rec := res.Record
	assert.True(t, schema.IsLocalID(rec.TaxonID))
	assert.Equal(t, "Endemicus specialis", rec.CanonicalName)
	assert.Equal(t, "Smith, 1999", rec.ScientificNameAuthorship)
	assert.Equal(t, rec.TaxonID, rec.AcceptedNameUsageID)
	assert.Equal(t, "Endemidae", rec.Family)
	// Batch ancestors carry names only, so no parent can be derived.
	assert.Empty(t, rec.FamilyID)
	assert.Empty(t, rec.ParentNameUsageID)
	assert.Equal(t, "specialis", rec.SpecificEpithet)
}

func TestFromSourceDeterministicID(t *testing.T) {
	src := &normalize.SourceRecord{ScientificName: "Endemicus specialis"}

	first, err := normalize.FromSource(
		src, "Endemicus specialis", "", schema.RankSpecies, prov)
	require.NoError(t, err)
	second, err := normalize.FromSource(
		src, "Endemicus specialis", "", schema.RankSpecies, prov)
	require.NoError(t, err)

	assert.Equal(t, first.Record.TaxonID, second.Record.TaxonID)
}

func TestKingdomAllowed(t *testing.T) {
	tests := []struct {
		kingdom string
		allowed bool
	}{
		{"Animalia", true},
		{"Plantae", true},
		{"Fungi", true},
		{"Chromista", true},
		{"Protozoa", true},
		{"Protista", true},
		{"", true},
		{"Bacteria", false},
		{"Viruses", false},
		{"incertae sedis", false},
	}
	for _, v := range tests {
		assert.Equal(t, v.allowed,
			normalize.KingdomAllowed(v.kingdom), v.kingdom)
	}
}
