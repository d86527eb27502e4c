package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/pkg/errcode"
)

// GORMConnectionError creates an error for GORM connection failures.
func GORMConnectionError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  "Cannot connect to database with GORM",
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError creates an error for schema creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create database schema

<em>Possible causes:</em>
  - Insufficient database permissions
  - Database constraint violations

<em>How to fix:</em>
  1. Check database user has CREATE permissions
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError creates an error for schema migration failures.
func MigrateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  "Cannot migrate database schema",
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}

// CollationError creates an error for collation setting failures.
func CollationError(column string, err error) error {
	return &gn.Error{
		Code: errcode.SchemaCollationError,
		Msg:  "Cannot set collation on column <em>%s</em>",
		Vars: []any{column},
		Err:  fmt.Errorf("failed to set collation on %s: %w", column, err),
	}
}
