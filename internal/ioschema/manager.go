// Package ioschema implements database schema management. This is an
// impure I/O package that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"fmt"

	"github.com/gnames/gnrecon/internal/iodb"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Manager creates and migrates the database schema. Both operations
// are idempotent, safe to run multiple times.
type Manager interface {
	// Create creates the initial database schema using GORM
	// AutoMigrate and applies collation settings for correct
	// scientific name sorting.
	Create(ctx context.Context) error

	// Migrate updates the database schema to the latest version.
	Migrate(ctx context.Context) error
}

type manager struct {
	operator iodb.Operator
}

// NewManager creates a new schema Manager.
func NewManager(op iodb.Operator) Manager {
	return &manager{operator: op}
}

// Create creates the initial database schema using GORM AutoMigrate.
func (m *manager) Create(ctx context.Context) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	if err := m.setCollation(ctx); err != nil {
		return err
	}

	return nil
}

// Migrate updates the database schema to the latest version using
// GORM AutoMigrate.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}

	return nil
}

func (m *manager) gorm() (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, iodb.NotConnectedError()
	}

	db := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB, nil
}

// setCollation sets "C" collation on the name columns. This is
// critical for correct sorting and comparison of scientific names.
func (m *manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()

	cols := []string{"scientific_name", "canonical_name"}
	for _, col := range cols {
		q := fmt.Sprintf(
			`ALTER TABLE taxon_records
				ALTER COLUMN %s TYPE VARCHAR(255) COLLATE "C"`, col)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(col, err)
		}
	}
	return nil
}
