// Package errcode enumerates GNrecon error codes for gn.Error values.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError

	// Store errors
	StoreQueryError
	StoreScanError
	StoreInsertError
	StoreUpdateError
	StoreDeleteError
	StoreUnknownColumnError

	// Authority errors
	AuthorityRequestError
	AuthorityStatusError
	AuthorityDecodeError
	AuthorityCacheError

	// Config errors
	ConfigReadError
	ConfigParseError
	ConfigFlagError
	ConfigWriteError

	// Ingest errors
	IngestBatchesConfigError
	IngestFileError
	IngestHeaderError
	IngestRejectsSinkError

	// Reconcile errors
	ReconcileBudgetError
	ReconcileProtectedError

	// Collapse errors
	CollapseRewriteError
	CollapseDeleteError

	// Export errors
	ExportInvariantError
	ExportWriteError
)
