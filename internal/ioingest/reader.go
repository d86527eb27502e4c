package ioingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/gnames/gnlib"
	"github.com/gnames/gnrecon/pkg/normalize"
)

// columnMap resolves header names to SourceRecord fields. Headers are
// matched case-insensitively with underscores stripped, so both
// Darwin Core camelCase ("scientificName") and snake_case exports
// ("scientific_name") work unchanged.
type columnMap map[string]int

var knownColumns = map[string]string{
	"scientificname":  "scientificname",
	"taxonrank":       "taxonrank",
	"rank":            "taxonrank",
	"taxonomicstatus": "taxonomicstatus",
	"kingdom":         "kingdom",
	"phylum":          "phylum",
	"division":        "phylum",
	"class":           "class",
	"order":           "order",
	"family":          "family",
	"genus":           "genus",
	"vernacularname":  "vernacularname",
	"commonname":      "vernacularname",
	"taxonremarks":    "taxonremarks",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", "")
	return h
}

// mapHeader builds the column map from the header row. The scientific
// name column is the only mandatory one.
func mapHeader(header []string) (columnMap, error) {
	cm := make(columnMap)
	for i, h := range header {
		if key, ok := knownColumns[normalizeHeader(h)]; ok {
			if _, dup := cm[key]; !dup {
				cm[key] = i
			}
		}
	}
	if _, ok := cm["scientificname"]; !ok {
		return nil, errNoNameColumn
	}
	return cm, nil
}

func (cm columnMap) get(row []string, key string) string {
	i, ok := cm[key]
	if !ok || i >= len(row) {
		return ""
	}
	// Checklist exports carry mojibake surprisingly often, mostly in
	// authorship and vernacular names.
	return gnlib.FixUtf8(strings.TrimSpace(row[i]))
}

// toSource shapes one data row into a SourceRecord.
func (cm columnMap) toSource(row []string) normalize.SourceRecord {
	return normalize.SourceRecord{
		ScientificName:  cm.get(row, "scientificname"),
		TaxonRank:       cm.get(row, "taxonrank"),
		TaxonomicStatus: cm.get(row, "taxonomicstatus"),
		Kingdom:         cm.get(row, "kingdom"),
		Phylum:          cm.get(row, "phylum"),
		Class:           cm.get(row, "class"),
		Order:           cm.get(row, "order"),
		Family:          cm.get(row, "family"),
		Genus:           cm.get(row, "genus"),
		VernacularName:  cm.get(row, "vernacularname"),
		TaxonRemarks:    cm.get(row, "taxonremarks"),
	}
}

// newReader configures a csv.Reader for a checklist file. Ragged rows
// are tolerated; curated exports are rarely rectangular.
func newReader(r io.Reader, delimiter rune) *csv.Reader {
	res := csv.NewReader(r)
	res.Comma = delimiter
	res.FieldsPerRecord = -1
	res.LazyQuotes = true
	return res
}
