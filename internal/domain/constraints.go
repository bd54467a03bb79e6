package domain

// Constraints is the structured form of a free-text query. Fields left at their
// zero value (nil pointers, empty slices) mean "unconstrained"; the ranker gives
// those a neutral mid-range sub-score instead of omitting the factor.
type Constraints struct {
	BudgetMin    *int     `json:"budget_min,omitempty"`
	BudgetMax    *int     `json:"budget_max,omitempty"`
	Moods        []string `json:"mood,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty"`
	DistanceKM   *int     `json:"distance_km,omitempty"`
	PlaceName    string   `json:"place_name,omitempty"`
	Months       []string `json:"best_months,omitempty"`
	Terms        []string `json:"query_terms,omitempty"`
}

// HasBudget reports whether any budget bound was extracted.
func (c Constraints) HasBudget() bool {
	return c.BudgetMin != nil || c.BudgetMax != nil
}

// IntPtr is a convenience for building Constraints literals.
func IntPtr(v int) *int { return &v }
