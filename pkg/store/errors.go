package store

import "fmt"

// NotFoundError means the store has no record for an identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: no record with id %s", e.ID)
}

// DuplicateKeyError means an insert conflicted with an existing
// identifier. It drives the update-instead-of-insert fallback.
type DuplicateKeyError struct {
	ID string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("store: record %s already exists", e.ID)
}

// ReferentialConflictError means a delete was blocked because other
// rows still reference the identifier.
type ReferentialConflictError struct {
	ID         string
	References int64
}

func (e *ReferentialConflictError) Error() string {
	return fmt.Sprintf(
		"store: record %s still referenced by %d rows", e.ID, e.References)
}
