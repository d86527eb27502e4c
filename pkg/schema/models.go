// Package schema provides database schema models for GNrecon.
// The taxon table is a wide, denormalized Darwin-Core-style table
// consumed directly by the name-indexer export.
package schema

import (
	"time"
)

// DDLGenerator defines how Go models generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string
}

// TaxonRecord is one row per taxon known to the local system.
//
// All identifiers are text: GBIF backbone keys are stored as their
// decimal representation, locally-minted identifiers carry the
// reserved LocalIDPrefix. Empty string means "no value"; the
// name-indexer export rejects NULLs, so columns default to ''.
type TaxonRecord struct {
	// TaxonID is the primary identifier, authority-assigned when
	// available, locally-minted otherwise.
	TaxonID string `db:"taxon_id" gorm:"column:taxon_id;primaryKey" ddl:"VARCHAR(255) PRIMARY KEY"`

	// ScientificName is the raw name, may include authorship.
	ScientificName string `db:"scientific_name" gorm:"column:scientific_name" ddl:"VARCHAR(255) NOT NULL"`

	// CanonicalName is the normalized name without authorship or
	// rank-qualifier tokens.
	CanonicalName string `db:"canonical_name" gorm:"column:canonical_name" ddl:"VARCHAR(255) NOT NULL"`

	// ScientificNameAuthorship is the authorship portion of the name.
	ScientificNameAuthorship string `db:"scientific_name_authorship" gorm:"column:scientific_name_authorship" ddl:"VARCHAR(255) DEFAULT ''"`

	// TaxonRank is one of the values of the Rank enumeration.
	TaxonRank string `db:"taxon_rank" gorm:"column:taxon_rank" ddl:"VARCHAR(50) NOT NULL"`

	// TaxonomicStatus: accepted, synonym, doubtful, invalid or other
	// authority-defined values.
	TaxonomicStatus string `db:"taxonomic_status" gorm:"column:taxonomic_status" ddl:"VARCHAR(50) DEFAULT ''"`

	// AcceptedNameUsageID references the accepted name when this
	// record is a synonym. Never empty: self-referential when the
	// authority provides none.
	AcceptedNameUsageID string `db:"accepted_name_usage_id" gorm:"column:accepted_name_usage_id" ddl:"VARCHAR(255) NOT NULL"`

	// AcceptedNameUsage is the accepted scientific name.
	AcceptedNameUsage string `db:"accepted_name_usage" gorm:"column:accepted_name_usage" ddl:"VARCHAR(255) DEFAULT ''"`

	// ParentNameUsageID references the next-higher-rank ancestor.
	// Self-referential only for kingdom rows.
	ParentNameUsageID string `db:"parent_name_usage_id" gorm:"column:parent_name_usage_id" ddl:"VARCHAR(255) DEFAULT ''"`

	// Denormalized ancestor path, redundant with the parent chain.
	// Used for fast lookup and for deriving ParentNameUsageID as the
	// closest non-empty ancestor identifier above the record's rank.
	Kingdom   string `db:"kingdom" gorm:"column:kingdom" ddl:"VARCHAR(255) DEFAULT ''"`
	KingdomID string `db:"kingdom_id" gorm:"column:kingdom_id" ddl:"VARCHAR(255) DEFAULT ''"`
	Phylum    string `db:"phylum" gorm:"column:phylum" ddl:"VARCHAR(255) DEFAULT ''"`
	PhylumID  string `db:"phylum_id" gorm:"column:phylum_id" ddl:"VARCHAR(255) DEFAULT ''"`
	Class     string `db:"class" gorm:"column:class" ddl:"VARCHAR(255) DEFAULT ''"`
	ClassID   string `db:"class_id" gorm:"column:class_id" ddl:"VARCHAR(255) DEFAULT ''"`
	Order     string `db:"taxon_order" gorm:"column:taxon_order" ddl:"VARCHAR(255) DEFAULT ''"`
	OrderID   string `db:"taxon_order_id" gorm:"column:taxon_order_id" ddl:"VARCHAR(255) DEFAULT ''"`
	Family    string `db:"family" gorm:"column:family" ddl:"VARCHAR(255) DEFAULT ''"`
	FamilyID  string `db:"family_id" gorm:"column:family_id" ddl:"VARCHAR(255) DEFAULT ''"`
	Genus     string `db:"genus" gorm:"column:genus" ddl:"VARCHAR(255) DEFAULT ''"`
	GenusID   string `db:"genus_id" gorm:"column:genus_id" ddl:"VARCHAR(255) DEFAULT ''"`
	Species   string `db:"species" gorm:"column:species" ddl:"VARCHAR(255) DEFAULT ''"`
	SpeciesID string `db:"species_id" gorm:"column:species_id" ddl:"VARCHAR(255) DEFAULT ''"`

	// SpecificEpithet is the second token of CanonicalName for
	// species-group names.
	SpecificEpithet string `db:"specific_epithet" gorm:"column:specific_epithet" ddl:"VARCHAR(255) DEFAULT ''"`

	// InfraspecificEpithet is the third token of CanonicalName for
	// subspecies and variety ranks.
	InfraspecificEpithet string `db:"infraspecific_epithet" gorm:"column:infraspecific_epithet" ddl:"VARCHAR(255) DEFAULT ''"`

	// VernacularName is a single preferred common name, if known.
	VernacularName string `db:"vernacular_name" gorm:"column:vernacular_name" ddl:"VARCHAR(500) DEFAULT ''"`

	// TaxonRemarks carries authority remarks verbatim.
	TaxonRemarks string `db:"taxon_remarks" gorm:"column:taxon_remarks" ddl:"TEXT DEFAULT ''"`

	// NomenclaturalCode tags the source taxonomy, e.g. "GBIF".
	NomenclaturalCode string `db:"nomenclatural_code" gorm:"column:nomenclatural_code" ddl:"VARCHAR(50) DEFAULT ''"`

	// DatasetName and DatasetID record provenance of the source batch.
	DatasetName string `db:"dataset_name" gorm:"column:dataset_name" ddl:"VARCHAR(255) DEFAULT ''"`
	DatasetID   string `db:"dataset_id" gorm:"column:dataset_id" ddl:"VARCHAR(255) DEFAULT ''"`

	// UpdatedAt records the timestamp of the last mutation.
	UpdatedAt time.Time `db:"updated_at" gorm:"column:updated_at" ddl:"TIMESTAMP WITHOUT TIME ZONE"`
}

// VernacularRecord is a common name attached to a taxon.
// Many-to-one with TaxonRecord, outside the reconciliation core.
type VernacularRecord struct {
	TaxonID        string `db:"taxon_id" gorm:"column:taxon_id" ddl:"VARCHAR(255) NOT NULL"`
	VernacularName string `db:"vernacular_name" gorm:"column:vernacular_name" ddl:"VARCHAR(500) NOT NULL"`
	Language       string `db:"language" gorm:"column:language" ddl:"VARCHAR(50) DEFAULT ''"`
	Source         string `db:"source" gorm:"column:source" ddl:"VARCHAR(255) DEFAULT ''"`
	Preferred      bool   `db:"preferred" gorm:"column:preferred" ddl:"BOOLEAN DEFAULT FALSE"`
}

// ConservationStatusRecord is a one-to-one conservation status for a
// taxon. The rank-code-to-text decoding happens upstream.
type ConservationStatusRecord struct {
	TaxonID    string `db:"taxon_id" gorm:"column:taxon_id;primaryKey" ddl:"VARCHAR(255) PRIMARY KEY"`
	StatusCode string `db:"status_code" gorm:"column:status_code" ddl:"VARCHAR(50) NOT NULL"`
	StatusText string `db:"status_text" gorm:"column:status_text" ddl:"VARCHAR(255) DEFAULT ''"`
	Authority  string `db:"authority" gorm:"column:authority" ddl:"VARCHAR(255) DEFAULT ''"`
}
