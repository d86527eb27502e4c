package ioexport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/pkg/errcode"
)

// NotClosedError creates an error for exports attempted over a store
// with dangling references.
func NotClosedError(count int) error {
	msg := `The store has <em>%d</em> dangling references.

Run <em>gnrecon reconcile</em> to repair them before exporting.`

	return &gn.Error{
		Code: errcode.ExportInvariantError,
		Msg:  msg,
		Vars: []any{count},
		Err:  fmt.Errorf("export: %d dangling references", count),
	}
}

// EmptyAcceptedError creates an error for records with an empty
// accepted reference, which the downstream indexer rejects.
func EmptyAcceptedError(count int64) error {
	return &gn.Error{
		Code: errcode.ExportInvariantError,
		Msg:  "Found <em>%d</em> records with empty accepted references",
		Vars: []any{count},
		Err:  fmt.Errorf("export: %d empty accepted references", count),
	}
}

// EmptyParentError creates an error for non-kingdom records with an
// empty parent reference. Reconciliation never repairs these because
// the dangling-reference scan skips empty values; the parents must be
// assigned by hand.
func EmptyParentError(count int64) error {
	msg := `Found <em>%d</em> records without a parent reference.

These are usually locally-minted records; assign their parents
manually before exporting.`

	return &gn.Error{
		Code: errcode.ExportInvariantError,
		Msg:  msg,
		Vars: []any{count},
		Err:  fmt.Errorf("export: %d empty parent references", count),
	}
}

// KingdomParentError creates an error for kingdom records that do not
// reference themselves as parent.
func KingdomParentError(count int64) error {
	return &gn.Error{
		Code: errcode.ExportInvariantError,
		Msg:  "Found <em>%d</em> kingdom records without a self parent",
		Vars: []any{count},
		Err:  fmt.Errorf("export: %d non-self-parent kingdoms", count),
	}
}

// DirtyCanonicalError creates an error for canonical names that still
// carry authorship tokens.
func DirtyCanonicalError(count int64) error {
	return &gn.Error{
		Code: errcode.ExportInvariantError,
		Msg:  "Found <em>%d</em> canonical names with authorship tokens",
		Vars: []any{count},
		Err:  fmt.Errorf("export: %d dirty canonical names", count),
	}
}

// WriteError creates an error for export file failures.
func WriteError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ExportWriteError,
		Msg:  "Could not write the export file at <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("export write %s: %w", path, err),
	}
}
