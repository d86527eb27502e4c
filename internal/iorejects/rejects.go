// Package iorejects persists rejected and review-flagged source rows
// into a local SQLite file. The file outlives the run so curators can
// work through it without re-running ingestion.
package iorejects

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"github.com/gnames/gnsys"

	_ "modernc.org/sqlite"
)

// Reason classifies why a row landed in the sink.
type Reason string

const (
	// ReasonUnparseable marks names the parser could not tokenize.
	ReasonUnparseable Reason = "unparseable"

	// ReasonExcludedKingdom marks rows outside the kingdom allow-list.
	ReasonExcludedKingdom Reason = "excluded_kingdom"

	// ReasonLowConfidenceRank marks rows whose rank was inferred from
	// token count with a plant-vs-animal guess. These rows ARE
	// inserted; the sink entry requests curator review of the rank.
	ReasonLowConfidenceRank Reason = "low_confidence_rank"
)

// Entry is one sink row.
type Entry struct {
	Name      string
	Reason    Reason
	Detail    string
	Kingdom   string
	Batch     string
	CreatedAt time.Time
}

// Sink appends entries to the persistent rejects file.
type Sink interface {
	Add(ctx context.Context, e Entry) error
	Count(ctx context.Context) (int64, error)
	Close() error
}

type sqliteSink struct {
	db *sql.DB
}

const createDDL = `
CREATE TABLE IF NOT EXISTS rejects (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  name       TEXT NOT NULL,
  reason     TEXT NOT NULL,
  detail     TEXT DEFAULT '',
  kingdom    TEXT DEFAULT '',
  batch      TEXT DEFAULT '',
  created_at TIMESTAMP NOT NULL
)`

// New opens (creating if needed) the rejects file at path.
func New(path string) (Sink, error) {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		return nil, openError(path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, openError(path, err)
	}
	if _, err := db.Exec(createDDL); err != nil {
		db.Close()
		return nil, schemaError(path, err)
	}
	return &sqliteSink{db: db}, nil
}

func (s *sqliteSink) Add(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rejects
		   (name, reason, detail, kingdom, batch, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, string(e.Reason), e.Detail, e.Kingdom, e.Batch,
		e.CreatedAt,
	)
	if err != nil {
		return insertError(e.Name, err)
	}
	return nil
}

func (s *sqliteSink) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(
		ctx, "SELECT COUNT(*) FROM rejects",
	).Scan(&n)
	if err != nil {
		return 0, countError(err)
	}
	return n, nil
}

func (s *sqliteSink) Close() error {
	return s.db.Close()
}
