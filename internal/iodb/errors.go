package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/pkg/errcode"
)

// ConnectionError creates an error for database connection failures.
func ConnectionError(host string, port int, database string, err error) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database <em>%s</em> exists
  3. Review ~/.config/gnrecon/gnrecon.yaml`

	vars := []any{host, port, database}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError creates an error for operations attempted without
// a database connection.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Operation attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError creates an error for when checking for tables fails.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Could not verify database state",
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// QueryTablesError creates an error for listing tables failures.
func QueryTablesError(err error) error {
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  "Could not list database tables",
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// ScanTableError creates an error for table scan failures.
func ScanTableError(err error) error {
	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  "Could not read database table names",
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

// DropTableError creates an error for table drop failures.
func DropTableError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  "Could not drop table <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}
