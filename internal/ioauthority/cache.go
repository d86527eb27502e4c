package ioauthority

import (
	"context"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/gnames/gnsys"
)

// cachedClient decorates an authority.Client with a Badger v4
// key-value store of by-identifier responses. A reconciliation run
// re-fetches the same ancestors many times across passes; the cache
// keeps that off the authority's rate limits.
//
// Only positive by-identifier responses are cached. NotFound is never
// cached: a record absent mid-run can appear in the next release.
type cachedClient struct {
	inner authority.Client
	db    *badger.DB
}

// NewCached wraps a client with an on-disk response cache at dir.
func NewCached(inner authority.Client, dir string) (authority.Client, error) {
	if err := gnsys.MakeDir(dir); err != nil {
		return nil, CacheError(dir, err)
	}

	options := badger.DefaultOptions(dir)
	options.Logger = nil

	db, err := badger.Open(options)
	if err != nil {
		return nil, CacheError(dir, err)
	}

	slog.Debug("authority cache opened", "dir", dir)
	return &cachedClient{inner: inner, db: db}, nil
}

// Close releases the cache database. The wrapped client needs no
// shutdown.
func (c *cachedClient) Close() error {
	return c.db.Close()
}

func (c *cachedClient) RecordByID(
	ctx context.Context, id string,
) (*authority.Record, error) {
	if rec := c.get(id); rec != nil {
		slog.Debug("authority cache hit", "key", id)
		return rec, nil
	}

	rec, err := c.inner.RecordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(id, rec)
	return rec, nil
}

// MatchByName is not cached; fuzzy matches are rare relative to
// by-identifier fetches and their results are rank-sensitive.
func (c *cachedClient) MatchByName(
	ctx context.Context, name string, rank schema.Rank,
) (*authority.Match, error) {
	return c.inner.MatchByName(ctx, name, rank)
}

func (c *cachedClient) VernacularNames(
	ctx context.Context, id string,
) ([]authority.Vernacular, error) {
	return c.inner.VernacularNames(ctx, id)
}

func (c *cachedClient) get(id string) *authority.Record {
	var valBytes []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		valBytes, err = item.ValueCopy(nil)
		return err
	})
	if err != nil || valBytes == nil {
		return nil
	}

	enc := gnfmt.GNgob{}
	var rec authority.Record
	if err := enc.Decode(valBytes, &rec); err != nil {
		slog.Warn("authority cache decode failed", "key", id, "error", err)
		return nil
	}
	return &rec
}

func (c *cachedClient) put(id string, rec *authority.Record) {
	enc := gnfmt.GNgob{}
	valBytes, err := enc.Encode(*rec)
	if err != nil {
		slog.Warn("authority cache encode failed", "key", id, "error", err)
		return
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(id), valBytes)
	})
	if err != nil {
		slog.Warn("authority cache write failed", "key", id, "error", err)
	}
}
