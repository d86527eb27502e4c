// Package iotest provides in-memory doubles of the store and the
// authority client for tests of the reconciliation packages.
package iotest

import (
	"context"
	"sort"
	"time"

	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/gnames/gnrecon/pkg/store"
)

// MemStore is a map-backed store.Store. Not safe for concurrent use;
// the reconciliation paths under test are serial.
type MemStore struct {
	Records map[string]*schema.TaxonRecord

	// Writes counts mutating calls, for idempotence assertions.
	Writes int
}

// NewMemStore creates a MemStore seeded with the records.
func NewMemStore(recs ...schema.TaxonRecord) *MemStore {
	ms := &MemStore{Records: make(map[string]*schema.TaxonRecord)}
	for i := range recs {
		r := recs[i]
		ms.Records[r.TaxonID] = &r
	}
	return ms
}

func (ms *MemStore) Get(
	_ context.Context, id string,
) (*schema.TaxonRecord, error) {
	if r, ok := ms.Records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, &store.NotFoundError{ID: id}
}

func (ms *MemStore) ByCanonicalName(
	_ context.Context, name string, rank schema.Rank,
) ([]schema.TaxonRecord, error) {
	var res []schema.TaxonRecord
	for _, id := range ms.sortedIDs() {
		r := ms.Records[id]
		if r.CanonicalName != name {
			continue
		}
		if rank != schema.RankUnknown && r.TaxonRank != string(rank) {
			continue
		}
		res = append(res, *r)
	}
	return res, nil
}

func (ms *MemStore) DanglingReferences(
	_ context.Context,
) ([]store.Dangling, error) {
	var res []store.Dangling
	for _, id := range ms.sortedIDs() {
		r := ms.Records[id]
		for _, col := range schema.ReferenceColumns() {
			ref := refValue(r, col)
			if schema.IsEmptyID(ref) {
				continue
			}
			if _, ok := ms.Records[ref]; !ok {
				res = append(res, store.Dangling{
					SourceID:  id,
					MissingID: ref,
					Column:    col,
				})
			}
		}
	}
	return res, nil
}

func (ms *MemStore) DuplicateNames(
	_ context.Context, rank schema.Rank,
) ([]store.NameGroup, error) {
	byName := make(map[string][]string)
	for _, id := range ms.sortedIDs() {
		r := ms.Records[id]
		if r.TaxonRank == string(rank) {
			byName[r.CanonicalName] = append(byName[r.CanonicalName], id)
		}
	}
	var names []string
	for name, ids := range byName {
		if len(ids) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var res []store.NameGroup
	for _, name := range names {
		res = append(res, store.NameGroup{
			CanonicalName: name,
			Count:         len(byName[name]),
			TaxonIDs:      byName[name],
		})
	}
	return res, nil
}

func (ms *MemStore) Insert(
	_ context.Context, rec *schema.TaxonRecord,
) error {
	if _, ok := ms.Records[rec.TaxonID]; ok {
		return &store.DuplicateKeyError{ID: rec.TaxonID}
	}
	cp := *rec
	cp.UpdatedAt = time.Now()
	ms.Records[cp.TaxonID] = &cp
	ms.Writes++
	return nil
}

func (ms *MemStore) Update(
	_ context.Context, id string, fields map[string]any,
) error {
	r, ok := ms.Records[id]
	if !ok {
		return &store.NotFoundError{ID: id}
	}
	for col, val := range fields {
		s, ok := val.(string)
		if !ok {
			continue
		}
		setColumn(r, col, s)
	}
	r.UpdatedAt = time.Now()
	ms.Writes++
	return nil
}

func (ms *MemStore) Delete(
	_ context.Context, id string, cascade bool,
) error {
	if _, ok := ms.Records[id]; !ok {
		return &store.NotFoundError{ID: id}
	}
	var inbound int64
	for other, r := range ms.Records {
		if other == id {
			continue
		}
		for _, col := range schema.ReferenceColumns() {
			if refValue(r, col) == id {
				if cascade {
					setColumn(r, col, "")
				} else {
					inbound++
				}
			}
		}
	}
	if !cascade && inbound > 0 {
		return &store.ReferentialConflictError{ID: id, References: inbound}
	}
	delete(ms.Records, id)
	ms.Writes++
	return nil
}

func (ms *MemStore) RewriteReferences(
	_ context.Context, oldID, newID string,
) (int64, error) {
	var n int64
	for _, r := range ms.Records {
		for _, col := range schema.ReferenceColumns() {
			if refValue(r, col) == oldID {
				setColumn(r, col, newID)
				n++
			}
		}
	}
	if n > 0 {
		ms.Writes++
	}
	return n, nil
}

func (ms *MemStore) CountReferences(
	_ context.Context, id string,
) (int64, error) {
	var n int64
	for _, r := range ms.Records {
		for _, col := range schema.ReferenceColumns() {
			if refValue(r, col) == id {
				n++
			}
		}
	}
	return n, nil
}

func (ms *MemStore) Each(
	_ context.Context, fn func(*schema.TaxonRecord) error,
) error {
	for _, id := range ms.sortedIDs() {
		cp := *ms.Records[id]
		if err := fn(&cp); err != nil {
			return err
		}
	}
	return nil
}

func (ms *MemStore) Count(_ context.Context) (int64, error) {
	return int64(len(ms.Records)), nil
}

func (ms *MemStore) sortedIDs() []string {
	ids := make([]string, 0, len(ms.Records))
	for id := range ms.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func refValue(t *schema.TaxonRecord, col string) string {
	switch col {
	case "parent_name_usage_id":
		return t.ParentNameUsageID
	case "accepted_name_usage_id":
		return t.AcceptedNameUsageID
	}
	for _, rc := range schema.RankColumns() {
		if rc.ID == col {
			return t.AncestorID(rc.Rank)
		}
	}
	return ""
}

func setColumn(t *schema.TaxonRecord, col, val string) {
	switch col {
	case "scientific_name":
		t.ScientificName = val
	case "canonical_name":
		t.CanonicalName = val
	case "scientific_name_authorship":
		t.ScientificNameAuthorship = val
	case "taxon_rank":
		t.TaxonRank = val
	case "taxonomic_status":
		t.TaxonomicStatus = val
	case "accepted_name_usage_id":
		t.AcceptedNameUsageID = val
	case "accepted_name_usage":
		t.AcceptedNameUsage = val
	case "parent_name_usage_id":
		t.ParentNameUsageID = val
	case "specific_epithet":
		t.SpecificEpithet = val
	case "infraspecific_epithet":
		t.InfraspecificEpithet = val
	case "vernacular_name":
		t.VernacularName = val
	case "taxon_remarks":
		t.TaxonRemarks = val
	case "nomenclatural_code":
		t.NomenclaturalCode = val
	case "dataset_name":
		t.DatasetName = val
	case "dataset_id":
		t.DatasetID = val
	default:
		for _, rc := range schema.RankColumns() {
			switch col {
			case rc.Name:
				t.SetAncestor(rc.Rank, val, t.AncestorID(rc.Rank))
				return
			case rc.ID:
				t.SetAncestor(rc.Rank, t.AncestorName(rc.Rank), val)
				return
			}
		}
	}
}

// StubClient is a scripted authority.Client. Lookups hit the maps;
// anything absent is NotFound.
type StubClient struct {
	Records     map[string]*authority.Record
	Matches     map[string]*authority.Match
	Vernaculars map[string][]authority.Vernacular

	// Calls counts authority requests, for throttling and idempotence
	// assertions.
	Calls int
}

// NewStubClient creates an empty scripted client.
func NewStubClient() *StubClient {
	return &StubClient{
		Records:     make(map[string]*authority.Record),
		Matches:     make(map[string]*authority.Match),
		Vernaculars: make(map[string][]authority.Vernacular),
	}
}

func (sc *StubClient) RecordByID(
	_ context.Context, id string,
) (*authority.Record, error) {
	sc.Calls++
	if r, ok := sc.Records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, &authority.NotFoundError{ID: id}
}

func (sc *StubClient) MatchByName(
	_ context.Context, name string, _ schema.Rank,
) (*authority.Match, error) {
	sc.Calls++
	m, ok := sc.Matches[name]
	if !ok || m.UsageKey == 0 || m.MatchType == authority.MatchNone {
		return nil, &authority.NotFoundError{Name: name}
	}
	if !m.MatchType.Usable() {
		return nil, &authority.AmbiguousMatchError{
			Name: name, MatchType: m.MatchType}
	}
	cp := *m
	return &cp, nil
}

func (sc *StubClient) VernacularNames(
	_ context.Context, id string,
) ([]authority.Vernacular, error) {
	sc.Calls++
	return sc.Vernaculars[id], nil
}
