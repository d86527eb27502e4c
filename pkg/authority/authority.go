// Package authority defines the contract for the external taxonomy
// authority: exact lookup by identifier and best-effort fuzzy match by
// name. Implementations live in internal/ioauthority.
package authority

import (
	"context"

	"github.com/gnames/gnrecon/pkg/schema"
)

// MatchType is the authority's confidence tier for a name match.
type MatchType string

const (
	MatchExact      MatchType = "EXACT"
	MatchFuzzy      MatchType = "FUZZY"
	MatchHigherRank MatchType = "HIGHERRANK"
	MatchNone       MatchType = "NONE"
)

// Usable reports whether a match tier identifies the taxon itself.
// HIGHERRANK means the authority could only resolve to a broader rank,
// which signals a taxonomic disagreement, not a typo; it is treated as
// no usable match.
func (m MatchType) Usable() bool {
	return m == MatchExact || m == MatchFuzzy
}

// Record is a taxon record as the authority returns it. Endpoints
// vary: the species endpoint returns key/nubKey, the match endpoint
// returns usageKey, and acceptedKey/accepted may be absent. The
// normalizer turns this shape into a schema.TaxonRecord.
type Record struct {
	Key             int64  `json:"key"`
	NubKey          int64  `json:"nubKey"`
	ScientificName  string `json:"scientificName"`
	CanonicalName   string `json:"canonicalName"`
	Authorship      string `json:"authorship"`
	Rank            string `json:"rank"`
	TaxonomicStatus string `json:"taxonomicStatus"`

	Kingdom    string `json:"kingdom"`
	KingdomKey int64  `json:"kingdomKey"`
	Phylum     string `json:"phylum"`
	PhylumKey  int64  `json:"phylumKey"`
	Class      string `json:"class"`
	ClassKey   int64  `json:"classKey"`
	Order      string `json:"order"`
	OrderKey   int64  `json:"orderKey"`
	Family     string `json:"family"`
	FamilyKey  int64  `json:"familyKey"`
	Genus      string `json:"genus"`
	GenusKey   int64  `json:"genusKey"`
	Species    string `json:"species"`
	SpeciesKey int64  `json:"speciesKey"`

	ParentKey   int64  `json:"parentKey"`
	AcceptedKey int64  `json:"acceptedKey"`
	Accepted    string `json:"accepted"`

	Remarks        string `json:"remarks"`
	VernacularName string `json:"vernacularName"`
}

// AncestorKey returns the denormalized ancestor key for a rank, zero
// when absent.
func (r *Record) AncestorKey(rank schema.Rank) int64 {
	switch rank {
	case schema.RankKingdom:
		return r.KingdomKey
	case schema.RankPhylum:
		return r.PhylumKey
	case schema.RankClass:
		return r.ClassKey
	case schema.RankOrder:
		return r.OrderKey
	case schema.RankFamily:
		return r.FamilyKey
	case schema.RankGenus:
		return r.GenusKey
	case schema.RankSpecies:
		return r.SpeciesKey
	}
	return 0
}

// AncestorName returns the denormalized ancestor name for a rank.
func (r *Record) AncestorName(rank schema.Rank) string {
	switch rank {
	case schema.RankKingdom:
		return r.Kingdom
	case schema.RankPhylum:
		return r.Phylum
	case schema.RankClass:
		return r.Class
	case schema.RankOrder:
		return r.Order
	case schema.RankFamily:
		return r.Family
	case schema.RankGenus:
		return r.Genus
	case schema.RankSpecies:
		return r.Species
	}
	return ""
}

// IsCanonical reports whether the authority's record is its own
// canonical (non-synonym) record: the backbone identifier equals the
// record's own identifier. This is a GBIF backbone convention; a
// different authority supplies its own definition by wrapping the
// client.
func IsCanonical(r *Record) bool {
	return r != nil && r.Key != 0 && r.Key == r.NubKey
}

// HasBackboneKey reports whether the authority exposes a synonymy
// model for this record at all. Without one the record is inserted
// as-is, the best available option.
func HasBackboneKey(r *Record) bool {
	return r != nil && r.NubKey != 0
}

// Match is the result of a fuzzy name lookup.
type Match struct {
	UsageKey   int64     `json:"usageKey"`
	MatchType  MatchType `json:"matchType"`
	Rank       string    `json:"rank"`
	Status     string    `json:"status"`
	Confidence int       `json:"confidence"`
}

// Vernacular is one common name from the authority.
type Vernacular struct {
	VernacularName string `json:"vernacularName"`
	Language       string `json:"language"`
	Source         string `json:"source"`
	Preferred      bool   `json:"preferred"`
}

// Client fetches taxon records from the external authority. All
// operations are read-only. Transient failures are returned to the
// caller for retry; the client itself never retries, and throttling
// between calls is the caller's responsibility.
type Client interface {
	// RecordByID fetches one taxon record by its authority
	// identifier. Returns NotFoundError when the authority has no
	// record for the identifier.
	RecordByID(ctx context.Context, id string) (*Record, error)

	// MatchByName performs a best-effort fuzzy lookup. The returned
	// match carries the confidence tier; callers must check
	// MatchType.Usable before trusting it.
	MatchByName(ctx context.Context, name string, rank schema.Rank) (*Match, error)

	// VernacularNames lists common names for a taxon.
	VernacularNames(ctx context.Context, id string) ([]Vernacular, error)
}
