package authority

import "fmt"

// NotFoundError means the authority has no record for an identifier
// or name. It drives the fallback path of the closure reconciler.
type NotFoundError struct {
	ID   string
	Name string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("authority: no record for id %s", e.ID)
	}
	return fmt.Sprintf("authority: no record for name %q", e.Name)
}

// AmbiguousMatchError means the authority match resolved only to a
// higher rank or to multiple equally-valid candidates. It is never
// auto-resolved.
type AmbiguousMatchError struct {
	Name      string
	MatchType MatchType
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf(
		"authority: ambiguous match for %q (%s)", e.Name, e.MatchType)
}
