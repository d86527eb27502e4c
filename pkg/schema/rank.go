package schema

import "strings"

// Rank is a taxonomic level. Ranks form a strict linear hierarchy in
// the denormalized ancestor-path model.
type Rank string

const (
	RankUnknown    Rank = ""
	RankKingdom    Rank = "kingdom"
	RankPhylum     Rank = "phylum"
	RankClass      Rank = "class"
	RankOrder      Rank = "order"
	RankFamily     Rank = "family"
	RankGenus      Rank = "genus"
	RankSpecies    Rank = "species"
	RankSubspecies Rank = "subspecies"
	RankVariety    Rank = "variety"
	RankForm       Rank = "form"
)

// RanksOrdered lists all ranks from the root down.
var RanksOrdered = []Rank{
	RankKingdom, RankPhylum, RankClass, RankOrder, RankFamily,
	RankGenus, RankSpecies, RankSubspecies, RankVariety, RankForm,
}

var rankDepth = func() map[Rank]int {
	res := make(map[Rank]int, len(RanksOrdered))
	for i, r := range RanksOrdered {
		res[r] = i
	}
	return res
}()

// ParseRank normalizes a rank string to a Rank value. Unrecognized
// values map to RankUnknown.
func ParseRank(s string) Rank {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kingdom":
		return RankKingdom
	case "phylum", "division":
		return RankPhylum
	case "class":
		return RankClass
	case "order":
		return RankOrder
	case "family":
		return RankFamily
	case "genus":
		return RankGenus
	case "species":
		return RankSpecies
	case "subspecies", "ssp.", "subsp.":
		return RankSubspecies
	case "variety", "var.":
		return RankVariety
	case "form", "forma", "f.":
		return RankForm
	}
	return RankUnknown
}

// Depth returns the position of the rank in the hierarchy, kingdom
// being 0. RankUnknown returns -1.
func (r Rank) Depth() int {
	if d, ok := rankDepth[r]; ok {
		return d
	}
	return -1
}

// Above reports whether r is strictly higher in the hierarchy than
// other. Unknown ranks are never above anything.
func (r Rank) Above(other Rank) bool {
	rd, od := r.Depth(), other.Depth()
	return rd >= 0 && od >= 0 && rd < od
}

// IsInfraspecific reports whether the rank is below species.
func (r Rank) IsInfraspecific() bool {
	return r == RankSubspecies || r == RankVariety || r == RankForm
}

// RankColumn pairs a rank with its denormalized name and identifier
// columns in the taxon table.
type RankColumn struct {
	Rank     Rank
	Name     string
	ID       string
}

// rankColumns is the immutable ancestor-column metadata. Infraspecific
// ranks have no denormalized columns; species is the deepest.
var rankColumns = []RankColumn{
	{RankKingdom, "kingdom", "kingdom_id"},
	{RankPhylum, "phylum", "phylum_id"},
	{RankClass, "class", "class_id"},
	{RankOrder, "taxon_order", "taxon_order_id"},
	{RankFamily, "family", "family_id"},
	{RankGenus, "genus", "genus_id"},
	{RankSpecies, "species", "species_id"},
}

// RankColumns returns the ancestor-path column metadata in
// kingdom-to-species order. The returned slice is a copy.
func RankColumns() []RankColumn {
	res := make([]RankColumn, len(rankColumns))
	copy(res, rankColumns)
	return res
}

// ReferenceColumns returns every reference-bearing column of the taxon
// table: the parent and accepted references plus all rank identifier
// columns. Each must resolve to a primary taxon_id for the store to be
// closed.
func ReferenceColumns() []string {
	res := []string{"parent_name_usage_id", "accepted_name_usage_id"}
	for _, rc := range rankColumns {
		res = append(res, rc.ID)
	}
	return res
}

// AncestorName returns the denormalized ancestor name for a rank
// column, and AncestorID its identifier. Both return "" for ranks
// without denormalized columns.
func (t *TaxonRecord) AncestorName(r Rank) string {
	switch r {
	case RankKingdom:
		return t.Kingdom
	case RankPhylum:
		return t.Phylum
	case RankClass:
		return t.Class
	case RankOrder:
		return t.Order
	case RankFamily:
		return t.Family
	case RankGenus:
		return t.Genus
	case RankSpecies:
		return t.Species
	}
	return ""
}

func (t *TaxonRecord) AncestorID(r Rank) string {
	switch r {
	case RankKingdom:
		return t.KingdomID
	case RankPhylum:
		return t.PhylumID
	case RankClass:
		return t.ClassID
	case RankOrder:
		return t.OrderID
	case RankFamily:
		return t.FamilyID
	case RankGenus:
		return t.GenusID
	case RankSpecies:
		return t.SpeciesID
	}
	return ""
}

// SetAncestor sets the denormalized name and identifier columns for a
// rank. Ranks without denormalized columns are ignored.
func (t *TaxonRecord) SetAncestor(r Rank, name, id string) {
	switch r {
	case RankKingdom:
		t.Kingdom, t.KingdomID = name, id
	case RankPhylum:
		t.Phylum, t.PhylumID = name, id
	case RankClass:
		t.Class, t.ClassID = name, id
	case RankOrder:
		t.Order, t.OrderID = name, id
	case RankFamily:
		t.Family, t.FamilyID = name, id
	case RankGenus:
		t.Genus, t.GenusID = name, id
	case RankSpecies:
		t.Species, t.SpeciesID = name, id
	}
}
