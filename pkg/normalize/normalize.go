// Package normalize maps authority taxon records of varying shape
// into the canonical local schema. Field values follow an explicit
// precedence: authority record first, then the source batch record,
// then the default. The precedence chains live in one place here so
// the domain's fallback policies stay auditable.
package normalize

import (
	"strconv"
	"strings"

	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/schema"
)

// AllowedKingdoms is the fixed allow-list for the regional registry.
// Records outside it (Bacteria, Viruses, incertae sedis) go to the
// rejects sink and are never inserted as primary records.
var AllowedKingdoms = map[string]bool{
	"Animalia":  true,
	"Plantae":   true,
	"Fungi":     true,
	"Chromista": true,
	"Protozoa":  true,
	"Protista":  true,
}

// KingdomAllowed reports whether a kingdom is within registry scope.
// An empty kingdom is allowed; exclusion requires a positive match
// outside the list.
func KingdomAllowed(kingdom string) bool {
	if strings.TrimSpace(kingdom) == "" {
		return true
	}
	return AllowedKingdoms[kingdom]
}

// SourceRecord is a row from a curated source batch, used as the
// second source of truth after the authority record.
type SourceRecord struct {
	ScientificName  string
	TaxonRank       string
	TaxonomicStatus string
	Kingdom         string
	Phylum          string
	Class           string
	Order           string
	Family          string
	Genus           string
	VernacularName  string
	TaxonRemarks    string
}

// Provenance tags a normalized record with its origin.
type Provenance struct {
	DatasetName       string
	DatasetID         string
	NomenclaturalCode string
}

// Result is a normalized record plus the non-fatal observations made
// while shaping it. The caller accumulates the flags into run counts.
type Result struct {
	Record schema.TaxonRecord

	// KeyMismatch is set when the endpoint identifier and the
	// backbone identifier disagree; the backbone one wins.
	KeyMismatch bool

	// MissingAccepted is set when the authority omitted the accepted
	// reference and it was defaulted to self. Downstream indexing
	// rejects empties here, so the omission is worth a warning.
	MissingAccepted bool
}

// FromAuthority shapes an authority record into a complete
// TaxonRecord. src may be nil when no batch row is involved (e.g.
// ancestors fetched by the reconciler). Returns ExcludedKingdomError
// for kingdoms outside the allow-list.
func FromAuthority(
	rec *authority.Record, src *SourceRecord, prov Provenance,
) (*Result, error) {
	if src == nil {
		src = &SourceRecord{}
	}

	kingdom := firstOf(rec.Kingdom, src.Kingdom)
	if !KingdomAllowed(kingdom) {
		return nil, &ExcludedKingdomError{
			Kingdom: kingdom,
			Name:    firstOf(rec.ScientificName, src.ScientificName),
		}
	}

	res := &Result{}

	// Preferred identifier: the authority's backbone key when
	// present, the endpoint's own key otherwise.
	id := keyString(rec.NubKey)
	if id == "" {
		id = keyString(rec.Key)
	}
	if rec.NubKey != 0 && rec.Key != 0 && rec.NubKey != rec.Key {
		res.KeyMismatch = true
	}

	rank := schema.ParseRank(firstOf(rec.Rank, src.TaxonRank))
	canonical := canonicalOf(rec, src)

	t := &res.Record
	t.TaxonID = id
	t.ScientificName = firstOf(rec.ScientificName, src.ScientificName, canonical)
	t.CanonicalName = canonical
	t.ScientificNameAuthorship = rec.Authorship
	t.TaxonRank = string(rank)
	t.TaxonomicStatus = strings.ToLower(
		firstOf(rec.TaxonomicStatus, src.TaxonomicStatus))
	t.VernacularName = firstOf(rec.VernacularName, src.VernacularName)
	t.TaxonRemarks = firstOf(rec.Remarks, src.TaxonRemarks)
	t.NomenclaturalCode = prov.NomenclaturalCode
	t.DatasetName = prov.DatasetName
	t.DatasetID = prov.DatasetID

	for _, rc := range schema.RankColumns() {
		name := firstOf(rec.AncestorName(rc.Rank), srcAncestor(src, rc.Rank))
		kid := keyString(rec.AncestorKey(rc.Rank))
		if name == "" && kid == "" {
			continue
		}
		t.SetAncestor(rc.Rank, name, kid)
	}

	t.ParentNameUsageID = deriveParent(t, rank, keyString(rec.ParentKey))

	// Accepted-name fallback: never empty, defaults to self.
	if rec.AcceptedKey != 0 {
		t.AcceptedNameUsageID = keyString(rec.AcceptedKey)
		t.AcceptedNameUsage = rec.Accepted
	} else {
		t.AcceptedNameUsageID = t.TaxonID
		t.AcceptedNameUsage = t.ScientificName
		res.MissingAccepted = true
	}

	setEpithets(t, rank)

	return res, nil
}

// FromSource shapes a batch row the authority could not resolve into
// a locally-minted TaxonRecord. canonical and rank come from the name
// parser.
func FromSource(
	src *SourceRecord,
	canonical, authorship string,
	rank schema.Rank,
	prov Provenance,
) (*Result, error) {
	if !KingdomAllowed(src.Kingdom) {
		return nil, &ExcludedKingdomError{
			Kingdom: src.Kingdom,
			Name:    src.ScientificName,
		}
	}

	res := &Result{}
	t := &res.Record
	t.TaxonID = schema.LocalID(canonical)
	t.ScientificName = firstOf(src.ScientificName, canonical)
	t.CanonicalName = canonical
	t.ScientificNameAuthorship = authorship
	t.TaxonRank = string(rank)
	t.TaxonomicStatus = strings.ToLower(src.TaxonomicStatus)
	t.VernacularName = src.VernacularName
	t.TaxonRemarks = src.TaxonRemarks
	t.NomenclaturalCode = prov.NomenclaturalCode
	t.DatasetName = prov.DatasetName
	t.DatasetID = prov.DatasetID

	for _, rc := range schema.RankColumns() {
		name := srcAncestor(src, rc.Rank)
		if name == "" {
			continue
		}
		// Names only: curated batches carry no ancestor identifiers.
		t.SetAncestor(rc.Rank, name, "")
	}

	t.ParentNameUsageID = deriveParent(t, rank, "")
	t.AcceptedNameUsageID = t.TaxonID
	t.AcceptedNameUsage = t.ScientificName
	setEpithets(t, rank)

	return res, nil
}

// deriveParent uses the explicit parent identifier when the authority
// provides one, otherwise the closest non-empty ancestor identifier
// strictly above the record's own rank. Kingdom rows parent
// themselves.
func deriveParent(
	t *schema.TaxonRecord, rank schema.Rank, explicit string,
) string {
	if rank == schema.RankKingdom {
		return t.TaxonID
	}
	if explicit != "" {
		return explicit
	}

	var parent string
	for _, rc := range schema.RankColumns() {
		if !rc.Rank.Above(rank) {
			break
		}
		if id := t.AncestorID(rc.Rank); !schema.IsEmptyID(id) {
			parent = id
		}
	}
	return parent
}

// setEpithets derives the epithet columns from the canonical name:
// the specific epithet by removing the genus, the infraspecific
// epithet by removing the full species binomial.
func setEpithets(t *schema.TaxonRecord, rank schema.Rank) {
	tokens := strings.Fields(t.CanonicalName)
	switch {
	case rank == schema.RankSpecies && len(tokens) >= 2:
		t.SpecificEpithet = strings.TrimSpace(
			strings.TrimPrefix(t.CanonicalName, tokens[0]))
	case rank.IsInfraspecific() && len(tokens) >= 3:
		binomial := tokens[0] + " " + tokens[1]
		t.SpecificEpithet = tokens[1]
		t.InfraspecificEpithet = strings.TrimSpace(
			strings.TrimPrefix(t.CanonicalName, binomial))
	}
}

// canonicalOf prefers the authority's canonical form, falling back to
// the scientific name with authorship trimmed off its tail.
func canonicalOf(rec *authority.Record, src *SourceRecord) string {
	if rec.CanonicalName != "" {
		return rec.CanonicalName
	}
	sci := firstOf(rec.ScientificName, src.ScientificName)
	if rec.Authorship != "" {
		sci = strings.TrimSpace(strings.TrimSuffix(sci, rec.Authorship))
	}
	return sci
}

func srcAncestor(src *SourceRecord, rank schema.Rank) string {
	switch rank {
	case schema.RankKingdom:
		return src.Kingdom
	case schema.RankPhylum:
		return src.Phylum
	case schema.RankClass:
		return src.Class
	case schema.RankOrder:
		return src.Order
	case schema.RankFamily:
		return src.Family
	case schema.RankGenus:
		return src.Genus
	}
	return ""
}

// firstOf returns the first non-empty value: the ordered
// source-of-truth chain in miniature.
func firstOf(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func keyString(k int64) string {
	if k == 0 {
		return ""
	}
	return strconv.FormatInt(k, 10)
}
