package normalize

import "fmt"

// ExcludedKingdomError routes a record outside the registry's
// kingdom allow-list to the rejects sink.
type ExcludedKingdomError struct {
	Kingdom string
	Name    string
}

func (e *ExcludedKingdomError) Error() string {
	return fmt.Sprintf(
		"normalize: kingdom %q out of registry scope for %q",
		e.Kingdom, e.Name)
}
