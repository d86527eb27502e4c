// Package ioingest reads curated checklist batches, resolves each
// name against the authority, and inserts the results as primary
// taxon records. Name parsing runs concurrently; authority and store
// traffic stays on a single goroutine so the throttle delay is the
// only pacing the authority sees.
package ioingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/batches"
	"github.com/gnames/gnrecon/pkg/config"
	"github.com/gnames/gnrecon/pkg/nameparse"
	"github.com/gnames/gnrecon/pkg/normalize"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/gnames/gnrecon/pkg/store"

	"github.com/gnames/gnrecon/internal/iorejects"
	"golang.org/x/sync/errgroup"
)

// Report accumulates the outcome of ingesting one batch.
type Report struct {
	BatchID string

	// Rows is the number of data rows read from the file.
	Rows int

	// Matched counts rows resolved to an authority record.
	Matched int

	// LocalMinted counts rows the authority could not resolve,
	// inserted under locally-minted identifiers.
	LocalMinted int

	Inserted int
	Skipped  int

	// Rejected counts rows diverted to the rejects sink and not
	// inserted: unparseable names and excluded kingdoms.
	Rejected int

	// Review counts inserted rows additionally flagged for curator
	// review because their rank came from the low-confidence
	// trinomial heuristic.
	Review int

	Errors int

	StartedAt  time.Time
	FinishedAt time.Time
}

// Summary renders the report for the operator.
func (r *Report) Summary() string {
	dur := r.FinishedAt.Sub(r.StartedAt)
	return fmt.Sprintf(
		"batch %s: %s rows, %s matched, %s local, %s inserted, "+
			"%s skipped, %s rejected, %s for review, %s errors in %s",
		r.BatchID,
		humanize.Comma(int64(r.Rows)),
		humanize.Comma(int64(r.Matched)),
		humanize.Comma(int64(r.LocalMinted)),
		humanize.Comma(int64(r.Inserted)),
		humanize.Comma(int64(r.Skipped)),
		humanize.Comma(int64(r.Rejected)),
		humanize.Comma(int64(r.Review)),
		humanize.Comma(int64(r.Errors)),
		gnfmt.TimeString(dur.Seconds()),
	)
}

// Ingester runs checklist batches into the taxon store. Close
// releases the owned parser pool after the last batch.
type Ingester interface {
	IngestBatch(ctx context.Context, b *batches.Batch) (*Report, error)
	Close()
}

type ingester struct {
	cfg    *config.Config
	st     store.Store
	client authority.Client
	sink   iorejects.Sink
	pool   *nameparse.Pool
}

// New creates an Ingester. The rejects sink may be shared across
// batches; the parser pool is owned by the ingester.
func New(
	cfg *config.Config,
	st store.Store,
	client authority.Client,
	sink iorejects.Sink,
) Ingester {
	return &ingester{
		cfg:    cfg,
		st:     st,
		client: client,
		sink:   sink,
		pool:   nameparse.NewPool(cfg.JobsNumber),
	}
}

// Close releases the parser pool. The shared rejects sink stays open
// for its owner to close.
func (ing *ingester) Close() {
	ing.pool.Close()
}

// parsedRow carries one source row through the parse stage.
type parsedRow struct {
	src    normalize.SourceRecord
	parsed nameparse.Parsed
	err    error
}

// IngestBatch reads one checklist file and inserts its rows. Rows
// fail independently: a bad name goes to the rejects sink, a failed
// authority call increments the error count, and the batch proceeds.
func (ing *ingester) IngestBatch(
	ctx context.Context, b *batches.Batch,
) (*Report, error) {
	report := &Report{BatchID: b.ID, StartedAt: time.Now()}
	defer func() { report.FinishedAt = time.Now() }()

	f, err := os.Open(b.Path)
	if err != nil {
		return report, fileError(b.Path, err)
	}
	defer f.Close()

	csvr := newReader(f, b.DelimiterRune())
	header, err := csvr.Read()
	if err != nil {
		return report, fileError(b.Path, err)
	}
	cm, err := mapHeader(header)
	if err != nil {
		return report, headerError(b.Path, header)
	}

	slog.Info("ingesting batch",
		"batch", b.ID, "path", b.Path, "dataset", b.DatasetName)

	rowsCh := make(chan normalize.SourceRecord, 100)
	parsedCh := make(chan parsedRow, 100)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(rowsCh)
		for {
			row, err := csvr.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return readRowError(b.Path, report.Rows+2, err)
			}
			report.Rows++
			select {
			case rowsCh <- cm.toSource(row):
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		defer close(parsedCh)
		wg := new(errgroup.Group)
		for range ing.cfg.JobsNumber {
			wg.Go(func() error {
				for src := range rowsCh {
					parsed, err := ing.pool.Parse(
						src.ScientificName,
						nameparse.OptRank(schema.ParseRank(src.TaxonRank)),
						nameparse.OptKingdom(src.Kingdom),
					)
					select {
					case parsedCh <- parsedRow{src, parsed, err}:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
				return nil
			})
		}
		return wg.Wait()
	})

	g.Go(func() error {
		prov := normalize.Provenance{
			DatasetName:       b.DatasetName,
			DatasetID:         b.DatasetID,
			NomenclaturalCode: "GBIF",
		}
		var done int
		for pr := range parsedCh {
			if err := ing.ingestRow(gctx, pr, b, prov, report); err != nil {
				report.Errors++
				slog.Error("row ingestion failed",
					"batch", b.ID,
					"name", pr.src.ScientificName,
					"error", err,
				)
			}
			done++
			if done%1000 == 0 {
				slog.Info("ingest progress",
					"batch", b.ID,
					"rows", humanize.Comma(int64(done)))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return report, err
	}

	slog.Info("batch ingested",
		"batch", b.ID,
		"rows", report.Rows,
		"matched", report.Matched,
		"local", report.LocalMinted,
		"inserted", report.Inserted,
		"rejected", report.Rejected,
		"review", report.Review,
		"errors", report.Errors,
	)
	return report, nil
}

// ingestRow resolves one parsed row against the authority and writes
// the result: insert, reject, or review-flagged insert.
func (ing *ingester) ingestRow(
	ctx context.Context,
	pr parsedRow,
	b *batches.Batch,
	prov normalize.Provenance,
	report *Report,
) error {
	var parseErr *nameparse.ParseError
	if errors.As(pr.err, &parseErr) {
		report.Rejected++
		return ing.sink.Add(ctx, iorejects.Entry{
			Name:    pr.src.ScientificName,
			Reason:  iorejects.ReasonUnparseable,
			Detail:  parseErr.Reason,
			Kingdom: pr.src.Kingdom,
			Batch:   b.ID,
		})
	}
	if pr.err != nil {
		return pr.err
	}

	if !normalize.KingdomAllowed(pr.src.Kingdom) {
		report.Rejected++
		return ing.sink.Add(ctx, iorejects.Entry{
			Name:    pr.src.ScientificName,
			Reason:  iorejects.ReasonExcludedKingdom,
			Kingdom: pr.src.Kingdom,
			Batch:   b.ID,
		})
	}

	res, err := ing.resolve(ctx, pr, prov)
	var excluded *normalize.ExcludedKingdomError
	if errors.As(err, &excluded) {
		// The batch row looked fine but the authority placed the name
		// in an out-of-scope kingdom.
		report.Rejected++
		return ing.sink.Add(ctx, iorejects.Entry{
			Name:    pr.src.ScientificName,
			Reason:  iorejects.ReasonExcludedKingdom,
			Detail:  "kingdom assigned by the authority",
			Kingdom: excluded.Kingdom,
			Batch:   b.ID,
		})
	}
	if err != nil {
		return err
	}
	if schema.IsLocalID(res.Record.TaxonID) {
		report.LocalMinted++
	} else {
		report.Matched++
		if res.Record.VernacularName == "" {
			res.Record.VernacularName = ing.fetchVernacular(
				ctx, res.Record.TaxonID)
		}
	}

	err = ing.st.Insert(ctx, &res.Record)
	var dup *store.DuplicateKeyError
	switch {
	case errors.As(err, &dup):
		report.Skipped++
	case err != nil:
		return err
	default:
		report.Inserted++
	}

	if pr.parsed.LowConfidence {
		report.Review++
		return ing.sink.Add(ctx, iorejects.Entry{
			Name:   pr.src.ScientificName,
			Reason: iorejects.ReasonLowConfidenceRank,
			Detail: fmt.Sprintf(
				"rank %q inferred from token count", pr.parsed.Rank),
			Kingdom: pr.src.Kingdom,
			Batch:   b.ID,
		})
	}
	return nil
}

// resolve matches the row at the authority and normalizes the best
// record: the authority's when a usable match exists, a locally
// minted one otherwise.
func (ing *ingester) resolve(
	ctx context.Context, pr parsedRow, prov normalize.Provenance,
) (*normalize.Result, error) {
	match, err := ing.client.MatchByName(
		ctx, pr.parsed.CanonicalName, pr.parsed.Rank)
	ing.pause(ctx)

	var notFound *authority.NotFoundError
	var ambiguous *authority.AmbiguousMatchError
	switch {
	case errors.As(err, &notFound), errors.As(err, &ambiguous):
		return ing.mintLocal(pr, prov)
	case err != nil:
		return nil, err
	}

	rec, err := ing.client.RecordByID(
		ctx, strconv.FormatInt(match.UsageKey, 10))
	ing.pause(ctx)
	if errors.As(err, &notFound) {
		return ing.mintLocal(pr, prov)
	}
	if err != nil {
		return nil, err
	}

	res, err := normalize.FromAuthority(rec, &pr.src, prov)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// fetchVernacular picks a common name from the authority when the
// batch supplied none: the preferred name wins, then the first
// English one, then the first listed. Best effort; a failed lookup
// leaves the column empty.
func (ing *ingester) fetchVernacular(
	ctx context.Context, id string,
) string {
	verns, err := ing.client.VernacularNames(ctx, id)
	ing.pause(ctx)
	if err != nil {
		slog.Debug("vernacular lookup failed",
			"taxon_id", id, "error", err)
		return ""
	}

	var english, first string
	for _, v := range verns {
		if v.VernacularName == "" {
			continue
		}
		if v.Preferred {
			return v.VernacularName
		}
		if english == "" && v.Language == "eng" {
			english = v.VernacularName
		}
		if first == "" {
			first = v.VernacularName
		}
	}
	if english != "" {
		return english
	}
	return first
}

func (ing *ingester) mintLocal(
	pr parsedRow, prov normalize.Provenance,
) (*normalize.Result, error) {
	return normalize.FromSource(
		&pr.src,
		pr.parsed.CanonicalName,
		pr.parsed.Authorship,
		pr.parsed.Rank,
		prov,
	)
}

func (ing *ingester) pause(ctx context.Context) {
	delay := time.Duration(ing.cfg.Authority.DelayMs) * time.Millisecond
	if delay == 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
