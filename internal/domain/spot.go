package domain

import "fmt"

// Spot is a single travel catalog entry. The full set is replaced wholesale on
// catalog reload; records are never field-patched in place.
type Spot struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Moods        []string `json:"mood"`
	BudgetMin    int      `json:"budget_min"`
	BudgetMax    int      `json:"budget_max"`
	DurationDays int      `json:"duration_days"`
	DistanceKM   int      `json:"distance_km"`
	Rating       float64  `json:"rating"`
	BestMonths   []string `json:"best_months,omitempty"`
	Description  string   `json:"description"`
}

// Validate checks the per-record invariants. A spot that fails here must be
// rejected at load time, not skipped silently at rank time.
func (s Spot) Validate() error {
	if s.ID < 1 {
		return fmt.Errorf("%w: spot id must be positive, got %d", ErrBadCatalog, s.ID)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: spot %d has empty name", ErrBadCatalog, s.ID)
	}
	if s.BudgetMin > s.BudgetMax {
		return fmt.Errorf("%w: spot %d budget_min %d exceeds budget_max %d",
			ErrBadCatalog, s.ID, s.BudgetMin, s.BudgetMax)
	}
	if s.DurationDays < 0 {
		return fmt.Errorf("%w: spot %d has negative duration_days", ErrBadCatalog, s.ID)
	}
	if s.DistanceKM < 0 {
		return fmt.Errorf("%w: spot %d has negative distance_km", ErrBadCatalog, s.ID)
	}
	if s.Rating < 0 || s.Rating > 5 {
		return fmt.Errorf("%w: spot %d rating %.2f outside [0,5]", ErrBadCatalog, s.ID, s.Rating)
	}
	return nil
}

// BudgetRange formats the budget bounds the way the API exposes them.
func (s Spot) BudgetRange() string {
	return fmt.Sprintf("₹%d-%d", s.BudgetMin, s.BudgetMax)
}
