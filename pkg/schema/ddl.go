package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model interface{}, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// TaxonRecord DDL methods
func (t TaxonRecord) TableDDL() string {
	return generateDDL(t, "taxon_records")
}

func (t TaxonRecord) IndexDDL() []string {
	res := []string{
		"CREATE INDEX idx_taxon_records_canonical_name ON taxon_records(canonical_name);",
		"CREATE INDEX idx_taxon_records_rank ON taxon_records(taxon_rank);",
	}
	for _, col := range ReferenceColumns() {
		res = append(res, fmt.Sprintf(
			"CREATE INDEX idx_taxon_records_%s ON taxon_records(%s);",
			col, col))
	}
	return res
}

func (t TaxonRecord) TableName() string {
	return "taxon_records"
}

// VernacularRecord DDL methods
func (v VernacularRecord) TableDDL() string {
	return generateDDL(v, "vernacular_records")
}

func (v VernacularRecord) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_vernacular_records_taxon_id ON vernacular_records(taxon_id);",
	}
}

func (v VernacularRecord) TableName() string {
	return "vernacular_records"
}

// ConservationStatusRecord DDL methods
func (c ConservationStatusRecord) TableDDL() string {
	return generateDDL(c, "conservation_status_records")
}

func (c ConservationStatusRecord) IndexDDL() []string {
	return nil
}

func (c ConservationStatusRecord) TableName() string {
	return "conservation_status_records"
}
