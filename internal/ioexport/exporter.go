// Package ioexport writes the reconciled taxon table as a delimited
// file for the downstream name indexer. The export refuses to run on
// a store that is not referentially closed.
package ioexport

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/gnames/gnrecon/pkg/store"
)

// Exporter verifies the store and writes the export file.
type Exporter interface {
	Export(ctx context.Context, path string) (int64, error)
}

type exporter struct {
	st store.Store
}

// New creates an Exporter over the store.
func New(st store.Store) Exporter {
	return &exporter{st: st}
}

// exportColumns is the column order the name indexer expects.
var exportColumns = []string{
	"taxonID", "scientificName", "canonicalName",
	"scientificNameAuthorship", "taxonRank", "taxonomicStatus",
	"acceptedNameUsageID", "acceptedNameUsage", "parentNameUsageID",
	"kingdom", "phylum", "class", "order", "family", "genus",
	"specificEpithet", "infraspecificEpithet", "vernacularName",
	"nomenclaturalCode", "datasetName",
}

// Export verifies closure and completeness, then writes all records
// to path. Returns the number of exported rows.
func (e *exporter) Export(
	ctx context.Context, path string,
) (int64, error) {
	if err := e.verify(ctx); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, WriteError(path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writeRow(w, exportColumns)

	var n int64
	err = e.st.Each(ctx, func(t *schema.TaxonRecord) error {
		writeRow(w, []string{
			t.TaxonID, t.ScientificName, t.CanonicalName,
			t.ScientificNameAuthorship, t.TaxonRank, t.TaxonomicStatus,
			t.AcceptedNameUsageID, t.AcceptedNameUsage,
			t.ParentNameUsageID,
			t.Kingdom, t.Phylum, t.Class, t.Order, t.Family, t.Genus,
			t.SpecificEpithet, t.InfraspecificEpithet,
			t.VernacularName, t.NomenclaturalCode, t.DatasetName,
		})
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	if err := w.Flush(); err != nil {
		return n, WriteError(path, err)
	}

	slog.Info("export written",
		"path", path, "records", humanize.Comma(n))
	return n, nil
}

// verify enforces the indexer's preconditions: a closed store, no
// empty accepted or parent references, self-referential kingdoms, and
// canonical names free of authorship tokens.
func (e *exporter) verify(ctx context.Context) error {
	dangling, err := e.st.DanglingReferences(ctx)
	if err != nil {
		return err
	}
	if len(dangling) > 0 {
		return NotClosedError(len(dangling))
	}

	var empties, orphans, badKingdoms, dirtyNames int64
	err = e.st.Each(ctx, func(t *schema.TaxonRecord) error {
		if schema.IsEmptyID(t.AcceptedNameUsageID) {
			empties++
		}
		if t.TaxonRank == "kingdom" {
			if t.ParentNameUsageID != t.TaxonID {
				badKingdoms++
			}
		} else if schema.IsEmptyID(t.ParentNameUsageID) {
			// An empty parent on a non-kingdom row is invisible to the
			// dangling-reference scan, which skips empty values as a
			// tolerated transient state. Locally-minted rows arrive
			// this way and need their parents curated by hand.
			orphans++
		}
		if hasAuthorshipTokens(t.CanonicalName) {
			dirtyNames++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if empties > 0 {
		return EmptyAcceptedError(empties)
	}
	if orphans > 0 {
		return EmptyParentError(orphans)
	}
	if badKingdoms > 0 {
		return KingdomParentError(badKingdoms)
	}
	if dirtyNames > 0 {
		return DirtyCanonicalError(dirtyNames)
	}
	return nil
}

// hasAuthorshipTokens reports the telltale signs of authorship left in
// a canonical name: digits (years), commas, parentheses, ampersands or
// capitalized tokens after the first.
func hasAuthorshipTokens(canonical string) bool {
	if strings.ContainsAny(canonical, "0123456789,()&") {
		return true
	}
	for i, tok := range strings.Fields(canonical) {
		if i == 0 || tok == "" {
			continue
		}
		r := rune(tok[0])
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

// writeRow emits one row with every field quoted. The downstream
// indexer's reader requires full quoting, which encoding/csv applies
// only to fields that need it, so the quoting is done here.
func writeRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}
