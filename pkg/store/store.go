// Package store defines the contract for the local taxon store.
// Implementations live in internal/iostore.
package store

import (
	"context"

	"github.com/gnames/gnrecon/pkg/schema"
)

// Dangling describes one broken reference: a non-empty reference
// column value with no corresponding primary record. The column name
// tells the reconciler how to repair the reference.
type Dangling struct {
	// SourceID is the referencing record's own identifier.
	SourceID string

	// MissingID is the referenced identifier with no primary record.
	MissingID string

	// Column is the reference column the value came from.
	Column string
}

// NameGroup is a canonical name shared by more than one primary
// record at a rank.
type NameGroup struct {
	CanonicalName string
	Count         int
	TaxonIDs      []string
}

// Store is the relational table of taxon records plus accessors.
// Implementations serialize concurrent writers at the row level; the
// reconciler does not require cross-row transactions spanning a pass.
type Store interface {
	// Get returns the record with the identifier, or NotFoundError.
	Get(ctx context.Context, id string) (*schema.TaxonRecord, error)

	// ByCanonicalName returns zero, one or many records sharing a
	// canonical name; duplicates are an expected transient state.
	// Rank narrows the lookup when not RankUnknown.
	ByCanonicalName(
		ctx context.Context, name string, rank schema.Rank,
	) ([]schema.TaxonRecord, error)

	// DanglingReferences checks every reference-bearing column
	// independently: parent, accepted, and each rank identifier
	// column. A reference is dangling when its value is non-empty,
	// non-zero, and not any row's primary identifier.
	DanglingReferences(ctx context.Context) ([]Dangling, error)

	// DuplicateNames returns canonical names held by more than one
	// primary record at the rank.
	DuplicateNames(
		ctx context.Context, rank schema.Rank,
	) ([]NameGroup, error)

	// Insert adds a new primary record. Fails with DuplicateKeyError
	// when the identifier already exists.
	Insert(ctx context.Context, rec *schema.TaxonRecord) error

	// Update overwrites only the given columns of one record.
	// Column names are validated against the schema.
	Update(
		ctx context.Context, id string, fields map[string]any,
	) error

	// Delete removes a record. Without cascade it fails with
	// ReferentialConflictError when other rows still reference the
	// identifier; with cascade inbound references are cleared and
	// dependent vernacular and conservation rows removed.
	Delete(ctx context.Context, id string, cascade bool) error

	// RewriteReferences repoints every reference column that holds
	// oldID to newID and returns the number of changed rows.
	RewriteReferences(
		ctx context.Context, oldID, newID string,
	) (int64, error)

	// CountReferences counts reference columns currently holding id:
	// the rows a RewriteReferences from id would change.
	CountReferences(ctx context.Context, id string) (int64, error)

	// Each streams every primary record in taxon_id order to fn.
	// Iteration stops at the first error fn returns.
	Each(
		ctx context.Context, fn func(*schema.TaxonRecord) error,
	) error

	// Count returns the number of primary records.
	Count(ctx context.Context) (int64, error)
}
