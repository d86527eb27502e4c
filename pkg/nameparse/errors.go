package nameparse

import "fmt"

// ParseError means a name cannot be tokenized per the rank rules.
// It is locally recoverable: the record goes to the manual-review
// sink instead of the taxon table.
type ParseError struct {
	Name   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("nameparse: %q: %s", e.Name, e.Reason)
}
