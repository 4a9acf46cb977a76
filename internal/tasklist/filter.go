// Package tasklist holds the filter state and the pure derivation of the
// visible task list with its summary counts.
package tasklist

// FilterAll means "no constraint on this dimension".
const FilterAll = "all"

const (
	SortLatest = "latest"
	SortOldest = "oldest"
)

// Filters is the session-owned filter state: five independent fields with
// no cross-field invariants.
type Filters struct {
	SearchText string
	Category   string
	Priority   string
	Status     string
	Sort       string
}

func DefaultFilters() Filters {
	return Filters{
		SearchText: "",
		Category:   FilterAll,
		Priority:   FilterAll,
		Status:     FilterAll,
		Sort:       SortLatest,
	}
}

// Reset restores all five fields to their defaults as one assignment, so no
// reader ever observes a partially-reset combination.
func (f *Filters) Reset() {
	*f = DefaultFilters()
}
