package ioreconcile

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/normalize"
	"github.com/gnames/gnrecon/pkg/reconcile"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/gnames/gnrecon/pkg/store"
)

// repairSource handles a missing identifier the authority has never
// heard of. The referencing record is re-fetched: if the authority
// still knows it, only the broken column pair is overwritten with
// freshly resolved values; if not, the record itself is stale and is
// removed, unless it is locally minted and therefore protected.
func (r *reconciler) repairSource(
	ctx context.Context,
	d store.Dangling,
	report *reconcile.RunReport,
) error {
	src, err := r.fetch(ctx, d.SourceID)

	var notFound *authority.NotFoundError
	switch {
	case errors.As(err, &notFound):
		if schema.IsLocalID(d.SourceID) {
			// Locally-minted records represent curated regional data
			// with no authority counterpart. Deleting one silently
			// would lose irreplaceable rows; stop and surface it.
			return &reconcile.ProtectedRecordError{ID: d.SourceID}
		}
		slog.Warn("deleting unresolvable record",
			"taxon_id", d.SourceID,
			"missing_id", d.MissingID,
			"column", d.Column,
		)
		if err := r.st.Delete(ctx, d.SourceID, true); err != nil {
			var gone *store.NotFoundError
			if errors.As(err, &gone) {
				report.Skipped++
				return nil
			}
			return err
		}
		report.Deleted++
		return nil

	case err != nil:
		return err
	}

	res, err := normalize.FromAuthority(src, nil, backboneProvenance)
	var excluded *normalize.ExcludedKingdomError
	if errors.As(err, &excluded) {
		slog.Warn("repair skipped, kingdom out of scope",
			"taxon_id", d.SourceID, "kingdom", excluded.Kingdom)
		report.Skipped++
		return nil
	}
	if err != nil {
		return err
	}

	fields := repairFields(d.Column, &res.Record)
	if fields == nil {
		report.Skipped++
		return nil
	}

	slog.Info("repairing reference",
		"taxon_id", d.SourceID,
		"column", d.Column,
		"from", d.MissingID,
		"to", fields[d.Column],
	)
	if err := r.st.Update(ctx, d.SourceID, fields); err != nil {
		var gone *store.NotFoundError
		if errors.As(err, &gone) {
			report.Skipped++
			return nil
		}
		return err
	}
	report.Updated++
	return nil
}

// insertPrimary turns the fetched authority record into a new primary
// record, closing every reference to its identifier at once. A
// duplicate key means another reference already inserted it, possibly
// in an earlier run; the row is refreshed in place instead.
func (r *reconciler) insertPrimary(
	ctx context.Context,
	rec *authority.Record,
	d store.Dangling,
	report *reconcile.RunReport,
) error {
	res, err := normalize.FromAuthority(rec, nil, backboneProvenance)
	var excluded *normalize.ExcludedKingdomError
	if errors.As(err, &excluded) {
		slog.Warn("referenced record outside kingdom scope",
			"missing_id", d.MissingID, "kingdom", excluded.Kingdom)
		report.Skipped++
		return nil
	}
	if err != nil {
		return err
	}
	if res.KeyMismatch {
		report.KeyMismatches++
	}
	if res.MissingAccepted {
		report.MissingAccepted++
	}
	if res.Record.TaxonID == "" {
		report.Skipped++
		return nil
	}

	err = r.st.Insert(ctx, &res.Record)
	var dup *store.DuplicateKeyError
	switch {
	case errors.As(err, &dup):
		if err := r.st.Update(
			ctx, res.Record.TaxonID, fieldMap(&res.Record),
		); err != nil {
			return err
		}
		report.Updated++
	case err != nil:
		return err
	default:
		slog.Info("inserted referenced record",
			"taxon_id", res.Record.TaxonID,
			"name", res.Record.ScientificName,
			"rank", res.Record.TaxonRank,
		)
		report.Inserted++
	}
	return nil
}

// redirectSynonym repoints a reference from a synonym identifier to
// the backbone identifier of its accepted record. The canonical
// record is fetched and inserted on the following pass.
func (r *reconciler) redirectSynonym(
	ctx context.Context,
	rec *authority.Record,
	d store.Dangling,
	report *reconcile.RunReport,
) error {
	canonicalID := strconv.FormatInt(rec.NubKey, 10)
	slog.Warn("synonym reference redirected",
		"taxon_id", d.SourceID,
		"column", d.Column,
		"from", d.MissingID,
		"to", canonicalID,
		"synonym", rec.ScientificName,
	)
	err := r.st.Update(ctx, d.SourceID, map[string]any{
		d.Column: canonicalID,
	})
	if err != nil {
		var gone *store.NotFoundError
		if errors.As(err, &gone) {
			report.Skipped++
			return nil
		}
		return err
	}
	report.Redirected++
	return nil
}

// repairFields maps a broken reference column to the column pair that
// must be overwritten together: the identifier and its companion name
// column. Returns nil for columns with no repair strategy.
func repairFields(
	column string, t *schema.TaxonRecord,
) map[string]any {
	switch column {
	case "parent_name_usage_id":
		return map[string]any{column: t.ParentNameUsageID}
	case "accepted_name_usage_id":
		return map[string]any{
			"accepted_name_usage_id": t.AcceptedNameUsageID,
			"accepted_name_usage":    t.AcceptedNameUsage,
		}
	}
	for _, rc := range schema.RankColumns() {
		if rc.ID == column {
			return map[string]any{
				rc.Name: t.AncestorName(rc.Rank),
				rc.ID:   t.AncestorID(rc.Rank),
			}
		}
	}
	return nil
}

// fieldMap flattens a record into an update set covering every
// mutable column. The primary identifier is never included.
func fieldMap(t *schema.TaxonRecord) map[string]any {
	fields := map[string]any{
		"scientific_name":            t.ScientificName,
		"canonical_name":             t.CanonicalName,
		"scientific_name_authorship": t.ScientificNameAuthorship,
		"taxon_rank":                 t.TaxonRank,
		"taxonomic_status":           t.TaxonomicStatus,
		"accepted_name_usage_id":     t.AcceptedNameUsageID,
		"accepted_name_usage":        t.AcceptedNameUsage,
		"parent_name_usage_id":       t.ParentNameUsageID,
		"specific_epithet":           t.SpecificEpithet,
		"infraspecific_epithet":      t.InfraspecificEpithet,
		"vernacular_name":            t.VernacularName,
		"taxon_remarks":              t.TaxonRemarks,
		"nomenclatural_code":         t.NomenclaturalCode,
		"dataset_name":               t.DatasetName,
		"dataset_id":                 t.DatasetID,
	}
	for _, rc := range schema.RankColumns() {
		fields[rc.Name] = t.AncestorName(rc.Rank)
		fields[rc.ID] = t.AncestorID(rc.Rank)
	}
	return fields
}
