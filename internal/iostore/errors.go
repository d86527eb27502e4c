package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/pkg/errcode"
)

// QueryError creates an error for store query failures.
func QueryError(op string, err error) error {
	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  "Taxon store query failed during <em>%s</em>",
		Vars: []any{op},
		Err:  fmt.Errorf("store %s query: %w", op, err),
	}
}

// ScanError creates an error for row scan failures.
func ScanError(op string, err error) error {
	return &gn.Error{
		Code: errcode.StoreScanError,
		Msg:  "Could not read taxon rows during <em>%s</em>",
		Vars: []any{op},
		Err:  fmt.Errorf("store %s scan: %w", op, err),
	}
}

// InsertError creates an error for insert failures other than
// duplicate keys.
func InsertError(id string, err error) error {
	return &gn.Error{
		Code: errcode.StoreInsertError,
		Msg:  "Could not insert taxon record <em>%s</em>",
		Vars: []any{id},
		Err:  fmt.Errorf("store insert %s: %w", id, err),
	}
}

// UpdateError creates an error for update failures.
func UpdateError(id string, err error) error {
	return &gn.Error{
		Code: errcode.StoreUpdateError,
		Msg:  "Could not update taxon record <em>%s</em>",
		Vars: []any{id},
		Err:  fmt.Errorf("store update %s: %w", id, err),
	}
}

// DeleteError creates an error for delete failures.
func DeleteError(id string, err error) error {
	return &gn.Error{
		Code: errcode.StoreDeleteError,
		Msg:  "Could not delete taxon record <em>%s</em>",
		Vars: []any{id},
		Err:  fmt.Errorf("store delete %s: %w", id, err),
	}
}

// UnknownColumnError creates an error for updates to columns outside
// the schema.
func UnknownColumnError(col string) error {
	return &gn.Error{
		Code: errcode.StoreUnknownColumnError,
		Msg:  "Column <em>%s</em> is not part of the taxon schema",
		Vars: []any{col},
		Err:  fmt.Errorf("store: unknown column %s", col),
	}
}
