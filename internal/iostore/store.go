// Package iostore implements the taxon store on PostgreSQL via
// pgxpool. This is an impure I/O package.
package iostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/gnrecon/internal/iodb"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/gnames/gnrecon/pkg/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// taxonColumns is the full column list of taxon_records in scan
// order. Loaded into the store once at construction; never mutated.
var taxonColumns = []string{
	"taxon_id", "scientific_name", "canonical_name",
	"scientific_name_authorship", "taxon_rank", "taxonomic_status",
	"accepted_name_usage_id", "accepted_name_usage",
	"parent_name_usage_id",
	"kingdom", "kingdom_id", "phylum", "phylum_id",
	"class", "class_id", "taxon_order", "taxon_order_id",
	"family", "family_id", "genus", "genus_id",
	"species", "species_id",
	"specific_epithet", "infraspecific_epithet",
	"vernacular_name", "taxon_remarks", "nomenclatural_code",
	"dataset_name", "dataset_id", "updated_at",
}

type pgStore struct {
	operator iodb.Operator

	// Immutable column metadata, computed once.
	colList    string
	refColumns []string
	allowed    map[string]bool
}

// New creates a Store backed by the operator's connection pool.
func New(op iodb.Operator) store.Store {
	allowed := make(map[string]bool, len(taxonColumns))
	for _, c := range taxonColumns {
		allowed[c] = true
	}
	return &pgStore{
		operator:   op,
		colList:    strings.Join(taxonColumns, ", "),
		refColumns: schema.ReferenceColumns(),
		allowed:    allowed,
	}
}

func (s *pgStore) pool() (*pgxpool.Pool, error) {
	p := s.operator.Pool()
	if p == nil {
		return nil, iodb.NotConnectedError()
	}
	return p, nil
}

// Get returns the record with the identifier.
func (s *pgStore) Get(
	ctx context.Context, id string,
) (*schema.TaxonRecord, error) {
	pool, err := s.pool()
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(
		"SELECT %s FROM taxon_records WHERE taxon_id = $1", s.colList)
	row := pool.QueryRow(ctx, q, id)

	rec, err := scanTaxon(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &store.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, QueryError("get", err)
	}
	return rec, nil
}

// ByCanonicalName returns all records sharing a canonical name,
// narrowed by rank when given.
func (s *pgStore) ByCanonicalName(
	ctx context.Context, name string, rank schema.Rank,
) ([]schema.TaxonRecord, error) {
	pool, err := s.pool()
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(
		"SELECT %s FROM taxon_records WHERE canonical_name = $1",
		s.colList)
	args := []any{name}
	if rank != schema.RankUnknown {
		q += " AND taxon_rank = $2"
		args = append(args, string(rank))
	}

	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, QueryError("by-name", err)
	}
	defer rows.Close()

	var res []schema.TaxonRecord
	for rows.Next() {
		rec, err := scanTaxon(rows)
		if err != nil {
			return nil, ScanError("by-name", err)
		}
		res = append(res, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, ScanError("by-name", err)
	}
	return res, nil
}

// DanglingReferences checks every reference-bearing column
// independently with a LEFT OUTER JOIN against the primary key.
func (s *pgStore) DanglingReferences(
	ctx context.Context,
) ([]store.Dangling, error) {
	pool, err := s.pool()
	if err != nil {
		return nil, err
	}

	var res []store.Dangling
	for _, col := range s.refColumns {
		q := fmt.Sprintf(`
SELECT t.taxon_id, t.%[1]s
FROM taxon_records t
LEFT OUTER JOIN taxon_records p
	ON t.%[1]s = p.taxon_id
WHERE t.%[1]s <> '' AND t.%[1]s <> '0'
	AND p.taxon_id IS NULL
ORDER BY t.taxon_id`, col)

		rows, err := pool.Query(ctx, q)
		if err != nil {
			return nil, QueryError("dangling", err)
		}
		for rows.Next() {
			d := store.Dangling{Column: col}
			if err := rows.Scan(&d.SourceID, &d.MissingID); err != nil {
				rows.Close()
				return nil, ScanError("dangling", err)
			}
			res = append(res, d)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, ScanError("dangling", err)
		}
		rows.Close()
	}
	return res, nil
}

// DuplicateNames returns canonical names held by more than one
// primary record at the rank.
func (s *pgStore) DuplicateNames(
	ctx context.Context, rank schema.Rank,
) ([]store.NameGroup, error) {
	pool, err := s.pool()
	if err != nil {
		return nil, err
	}

	q := `
SELECT canonical_name, COUNT(*), ARRAY_AGG(taxon_id ORDER BY taxon_id)
FROM taxon_records
WHERE taxon_rank = $1
GROUP BY canonical_name
HAVING COUNT(*) > 1
ORDER BY canonical_name`

	rows, err := pool.Query(ctx, q, string(rank))
	if err != nil {
		return nil, QueryError("duplicates", err)
	}
	defer rows.Close()

	var res []store.NameGroup
	for rows.Next() {
		var g store.NameGroup
		if err := rows.Scan(&g.CanonicalName, &g.Count, &g.TaxonIDs); err != nil {
			return nil, ScanError("duplicates", err)
		}
		res = append(res, g)
	}
	if err := rows.Err(); err != nil {
		return nil, ScanError("duplicates", err)
	}
	return res, nil
}

// Insert adds a new primary record.
func (s *pgStore) Insert(
	ctx context.Context, rec *schema.TaxonRecord,
) error {
	pool, err := s.pool()
	if err != nil {
		return err
	}

	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	placeholders := make([]string, len(taxonColumns))
	for i := range taxonColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf(
		"INSERT INTO taxon_records (%s) VALUES (%s)",
		s.colList, strings.Join(placeholders, ", "))

	_, err = pool.Exec(ctx, q, taxonValues(rec)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &store.DuplicateKeyError{ID: rec.TaxonID}
		}
		return InsertError(rec.TaxonID, err)
	}

	slog.Debug("inserted taxon record",
		"taxon_id", rec.TaxonID,
		"canonical_name", rec.CanonicalName,
		"rank", rec.TaxonRank,
	)
	return nil
}

// Update overwrites only the given columns of one record. Column
// names outside the schema are rejected.
func (s *pgStore) Update(
	ctx context.Context, id string, fields map[string]any,
) error {
	pool, err := s.pool()
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	i := 1
	for col, val := range fields {
		if !s.allowed[col] || col == "taxon_id" {
			return UnknownColumnError(col)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now())
	i++
	args = append(args, id)

	q := fmt.Sprintf(
		"UPDATE taxon_records SET %s WHERE taxon_id = $%d",
		strings.Join(sets, ", "), i)

	tag, err := pool.Exec(ctx, q, args...)
	if err != nil {
		return UpdateError(id, err)
	}
	if tag.RowsAffected() == 0 {
		return &store.NotFoundError{ID: id}
	}

	slog.Debug("updated taxon record", "taxon_id", id, "fields", len(fields))
	return nil
}

// Delete removes a record, refusing when other rows still reference
// the identifier unless cascade is requested.
func (s *pgStore) Delete(
	ctx context.Context, id string, cascade bool,
) error {
	pool, err := s.pool()
	if err != nil {
		return err
	}

	refs, err := s.inboundReferences(ctx, id)
	if err != nil {
		return err
	}

	if refs > 0 && !cascade {
		return &store.ReferentialConflictError{ID: id, References: refs}
	}

	if cascade && refs > 0 {
		for _, col := range s.refColumns {
			q := fmt.Sprintf(
				`UPDATE taxon_records SET %[1]s = ''
				WHERE %[1]s = $1 AND taxon_id <> $1`, col)
			if _, err := pool.Exec(ctx, q, id); err != nil {
				return UpdateError(id, err)
			}
		}
	}

	for _, tbl := range []string{
		"vernacular_records", "conservation_status_records",
	} {
		q := fmt.Sprintf("DELETE FROM %s WHERE taxon_id = $1", tbl)
		if _, err := pool.Exec(ctx, q, id); err != nil {
			return DeleteError(id, err)
		}
	}

	tag, err := pool.Exec(ctx,
		"DELETE FROM taxon_records WHERE taxon_id = $1", id)
	if err != nil {
		return DeleteError(id, err)
	}
	if tag.RowsAffected() == 0 {
		return &store.NotFoundError{ID: id}
	}

	slog.Debug("deleted taxon record", "taxon_id", id, "cascade", cascade)
	return nil
}

// RewriteReferences repoints every reference column holding oldID to
// newID.
func (s *pgStore) RewriteReferences(
	ctx context.Context, oldID, newID string,
) (int64, error) {
	pool, err := s.pool()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, col := range s.refColumns {
		q := fmt.Sprintf(
			`UPDATE taxon_records SET %[1]s = $2
			WHERE %[1]s = $1`, col)
		tag, err := pool.Exec(ctx, q, oldID, newID)
		if err != nil {
			return total, UpdateError(oldID, err)
		}
		total += tag.RowsAffected()
	}

	slog.Debug("rewrote references",
		"old_id", oldID, "new_id", newID, "rows", total)
	return total, nil
}

// CountReferences counts reference columns holding the identifier,
// matching what RewriteReferences would change.
func (s *pgStore) CountReferences(
	ctx context.Context, id string,
) (int64, error) {
	pool, err := s.pool()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, col := range s.refColumns {
		q := fmt.Sprintf(
			`SELECT COUNT(*) FROM taxon_records WHERE %s = $1`, col)
		var n int64
		if err := pool.QueryRow(ctx, q, id).Scan(&n); err != nil {
			return 0, QueryError("references", err)
		}
		total += n
	}
	return total, nil
}

// Each streams every primary record in taxon_id order.
func (s *pgStore) Each(
	ctx context.Context, fn func(*schema.TaxonRecord) error,
) error {
	pool, err := s.pool()
	if err != nil {
		return err
	}

	q := fmt.Sprintf(
		"SELECT %s FROM taxon_records ORDER BY taxon_id", s.colList)
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return QueryError("each", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanTaxon(rows)
		if err != nil {
			return ScanError("each", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return ScanError("each", err)
	}
	return nil
}

// Count returns the number of primary records.
func (s *pgStore) Count(ctx context.Context) (int64, error) {
	pool, err := s.pool()
	if err != nil {
		return 0, err
	}

	var n int64
	err = pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM taxon_records").Scan(&n)
	if err != nil {
		return 0, QueryError("count", err)
	}
	return n, nil
}

// inboundReferences counts reference columns in other rows pointing
// at the identifier.
func (s *pgStore) inboundReferences(
	ctx context.Context, id string,
) (int64, error) {
	pool, err := s.pool()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, col := range s.refColumns {
		q := fmt.Sprintf(
			`SELECT COUNT(*) FROM taxon_records
			WHERE %s = $1 AND taxon_id <> $1`, col)
		var n int64
		if err := pool.QueryRow(ctx, q, id).Scan(&n); err != nil {
			return 0, QueryError("references", err)
		}
		total += n
	}
	return total, nil
}
