package schema_test

import (
	"testing"

	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdering(t *testing.T) {
	assert.True(t, schema.RankKingdom.Above(schema.RankPhylum))
	assert.True(t, schema.RankGenus.Above(schema.RankSpecies))
	assert.True(t, schema.RankSpecies.Above(schema.RankSubspecies))
	assert.False(t, schema.RankSpecies.Above(schema.RankGenus))
	assert.False(t, schema.RankUnknown.Above(schema.RankKingdom))
	assert.False(t, schema.RankKingdom.Above(schema.RankUnknown))
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		in  string
		out schema.Rank
	}{
		{"species", schema.RankSpecies},
		{"SPECIES", schema.RankSpecies},
		{" Genus ", schema.RankGenus},
		{"subsp.", schema.RankSubspecies},
		{"var.", schema.RankVariety},
		{"division", schema.RankPhylum},
		{"forma", schema.RankForm},
		{"cultivar", schema.RankUnknown},
		{"", schema.RankUnknown},
	}
	for _, v := range tests {
		assert.Equal(t, v.out, schema.ParseRank(v.in), v.in)
	}
}

func TestIsInfraspecific(t *testing.T) {
	assert.True(t, schema.RankSubspecies.IsInfraspecific())
	assert.True(t, schema.RankVariety.IsInfraspecific())
	assert.True(t, schema.RankForm.IsInfraspecific())
	assert.False(t, schema.RankSpecies.IsInfraspecific())
	assert.False(t, schema.RankGenus.IsInfraspecific())
}

func TestReferenceColumns(t *testing.T) {
	cols := schema.ReferenceColumns()

	require.Len(t, cols, 9)
	assert.Equal(t, "parent_name_usage_id", cols[0])
	assert.Equal(t, "accepted_name_usage_id", cols[1])
	assert.Contains(t, cols, "kingdom_id")
	// "order" is reserved in PostgreSQL, so the column carries the
	// taxon_ prefix.
	assert.Contains(t, cols, "taxon_order_id")
	assert.Contains(t, cols, "species_id")
	assert.NotContains(t, cols, "order_id")
}

func TestAncestorAccessors(t *testing.T) {
	var rec schema.TaxonRecord
	rec.SetAncestor(schema.RankOrder, "Carnivora", "732")

	assert.Equal(t, "Carnivora", rec.Order)
	assert.Equal(t, "732", rec.OrderID)
	assert.Equal(t, "Carnivora", rec.AncestorName(schema.RankOrder))
	assert.Equal(t, "732", rec.AncestorID(schema.RankOrder))

	// Infraspecific ranks have no denormalized columns.
	rec.SetAncestor(schema.RankSubspecies, "x", "y")
	assert.Empty(t, rec.AncestorName(schema.RankSubspecies))
}

func TestLocalID(t *testing.T) {
	id := schema.LocalID("Endemicus specialis")

	assert.True(t, schema.IsLocalID(id))
	assert.Equal(t, id, schema.LocalID("Endemicus specialis"))
	assert.NotEqual(t, id, schema.LocalID("Endemicus alius"))
	assert.False(t, schema.IsLocalID("2435099"))
}

func TestIsEmptyID(t *testing.T) {
	assert.True(t, schema.IsEmptyID(""))
	assert.True(t, schema.IsEmptyID("0"))
	assert.False(t, schema.IsEmptyID("1"))
	assert.False(t, schema.IsEmptyID("local:abc"))
}

func TestTaxonRecordDDL(t *testing.T) {
	rec := schema.TaxonRecord{}
	ddl := rec.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE taxon_records")
	assert.Contains(t, ddl, "taxon_id VARCHAR(255) PRIMARY KEY")
	assert.Contains(t, ddl, "canonical_name VARCHAR(255) NOT NULL")
	assert.Contains(t, ddl, "accepted_name_usage_id VARCHAR(255) NOT NULL")
	assert.Contains(t, ddl, "taxon_order VARCHAR(255) DEFAULT ''")
	assert.NotContains(t, ddl, "\n    order ")
}

func TestTaxonRecordIndexDDL(t *testing.T) {
	rec := schema.TaxonRecord{}
	indexes := rec.IndexDDL()

	assert.Contains(t, indexes,
		"CREATE INDEX idx_taxon_records_canonical_name "+
			"ON taxon_records(canonical_name);")
	// Every reference column gets an index for the dangling scan.
	for _, col := range schema.ReferenceColumns() {
		found := false
		for _, idx := range indexes {
			if idx == "CREATE INDEX idx_taxon_records_"+col+
				" ON taxon_records("+col+");" {
				found = true
			}
		}
		assert.True(t, found, col)
	}
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "taxon_records",
		schema.TaxonRecord{}.TableName())
	assert.Equal(t, "vernacular_records",
		schema.VernacularRecord{}.TableName())
	assert.Equal(t, "conservation_status_records",
		schema.ConservationStatusRecord{}.TableName())
}
