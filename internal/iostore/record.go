package iostore

import (
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/jackc/pgx/v5"
)

// scanTaxon reads one row in taxonColumns order.
func scanTaxon(row pgx.Row) (*schema.TaxonRecord, error) {
	var t schema.TaxonRecord
	err := row.Scan(
		&t.TaxonID, &t.ScientificName, &t.CanonicalName,
		&t.ScientificNameAuthorship, &t.TaxonRank, &t.TaxonomicStatus,
		&t.AcceptedNameUsageID, &t.AcceptedNameUsage,
		&t.ParentNameUsageID,
		&t.Kingdom, &t.KingdomID, &t.Phylum, &t.PhylumID,
		&t.Class, &t.ClassID, &t.Order, &t.OrderID,
		&t.Family, &t.FamilyID, &t.Genus, &t.GenusID,
		&t.Species, &t.SpeciesID,
		&t.SpecificEpithet, &t.InfraspecificEpithet,
		&t.VernacularName, &t.TaxonRemarks, &t.NomenclaturalCode,
		&t.DatasetName, &t.DatasetID, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// taxonValues lists a record's fields in taxonColumns order.
func taxonValues(t *schema.TaxonRecord) []any {
	return []any{
		t.TaxonID, t.ScientificName, t.CanonicalName,
		t.ScientificNameAuthorship, t.TaxonRank, t.TaxonomicStatus,
		t.AcceptedNameUsageID, t.AcceptedNameUsage,
		t.ParentNameUsageID,
		t.Kingdom, t.KingdomID, t.Phylum, t.PhylumID,
		t.Class, t.ClassID, t.Order, t.OrderID,
		t.Family, t.FamilyID, t.Genus, t.GenusID,
		t.Species, t.SpeciesID,
		t.SpecificEpithet, t.InfraspecificEpithet,
		t.VernacularName, t.TaxonRemarks, t.NomenclaturalCode,
		t.DatasetName, t.DatasetID, t.UpdatedAt,
	}
}
