package schema

import (
	"strings"

	"github.com/gnames/gnuuid"
)

// LocalIDPrefix marks locally-minted, manually-curated identifiers.
// The authority emits only numeric keys, so the prefix can never
// collide with an authority identifier. Records carrying it are
// protected from automatic deletion.
const LocalIDPrefix = "local:"

// LocalID mints a deterministic local identifier for a name that the
// authority could not resolve. UUID v5 keeps re-ingestion idempotent.
func LocalID(canonicalName string) string {
	return LocalIDPrefix + gnuuid.New(canonicalName).String()
}

// IsLocalID reports whether an identifier was locally minted.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// IsEmptyID reports whether a reference value means "no reference".
// Legacy batches used "0" as an empty marker.
func IsEmptyID(id string) bool {
	return id == "" || id == "0"
}
