package reconcile

import "fmt"

// ProtectedRecordError means reconciliation attempted to delete a
// record carrying the reserved local-authority prefix. Those are
// manually curated and never auto-deleted; the condition is fatal and
// operator-visible, never silently skipped.
type ProtectedRecordError struct {
	ID string
}

func (e *ProtectedRecordError) Error() string {
	return fmt.Sprintf(
		"reconcile: refusing to delete protected record %s", e.ID)
}
