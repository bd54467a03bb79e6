package rank

import (
	"fmt"
	"math"
)

// Weights holds every tunable scoring constant. The defaults pin current
// behavior; none of them is a validated optimum, so they are configuration
// rather than algorithmic truths.
type Weights struct {
	Budget   float64 `yaml:"budget"`
	Mood     float64 `yaml:"mood"`
	Duration float64 `yaml:"duration"`
	// DurationFallback replaces Duration when the query names no duration; the
	// difference moves to the free-text weight so the total stays 1.0.
	DurationFallback float64 `yaml:"duration_fallback"`
	Text             float64 `yaml:"text"`
	Category         float64 `yaml:"category"`
	Months           float64 `yaml:"months"`
	Distance         float64 `yaml:"distance"`

	// RelevanceCutoff is the minimum total score for a spot to appear in results.
	RelevanceCutoff float64 `yaml:"relevance_cutoff"`
	// WeakTextCutoff is the text sub-score below which a location/type keyword
	// in the query hard-rejects the spot.
	WeakTextCutoff float64 `yaml:"weak_text_cutoff"`
	// BudgetDeficitSoft and BudgetDeficitHard stage the partial credit when a
	// spot's entry budget sits above the user's ceiling: deficits up to Soft
	// score 0.85, below Hard score 0.75, at or past Hard the spot is rejected.
	BudgetDeficitSoft int `yaml:"budget_deficit_soft"`
	BudgetDeficitHard int `yaml:"budget_deficit_hard"`
	// AffordabilityBonus scales the above-1.0 bonus for cheap-entry spots.
	AffordabilityBonus float64 `yaml:"affordability_bonus"`
	DurationFloor      float64 `yaml:"duration_floor"`
	DistanceFloor      float64 `yaml:"distance_floor"`
}

// DefaultWeights returns the canonical weight set: budget 25%, mood 20%,
// duration 20% (5% when not asked for), text 15% (30% when duration is not
// asked for), category 12%, months 5%, distance 3%.
func DefaultWeights() Weights {
	return Weights{
		Budget:           0.25,
		Mood:             0.20,
		Duration:         0.20,
		DurationFallback: 0.05,
		Text:             0.15,
		Category:         0.12,
		Months:           0.05,
		Distance:         0.03,

		RelevanceCutoff:    0.4,
		WeakTextCutoff:     0.5,
		BudgetDeficitSoft:  500,
		BudgetDeficitHard:  1000,
		AffordabilityBonus: 0.1,
		DurationFloor:      0.4,
		DistanceFloor:      0.3,
	}
}

// Validate checks that the weights form a proper convex combination when all
// constraints are active, and that thresholds are sane.
func (w Weights) Validate() error {
	sum := w.Budget + w.Mood + w.Duration + w.Text + w.Category + w.Months + w.Distance
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0 with all constraints active, got %.4f", sum)
	}
	if w.DurationFallback < 0 || w.DurationFallback > w.Duration {
		return fmt.Errorf("duration_fallback must be in [0, duration], got %.4f", w.DurationFallback)
	}
	if w.RelevanceCutoff < 0 || w.RelevanceCutoff > 1 {
		return fmt.Errorf("relevance_cutoff must be in [0,1], got %.4f", w.RelevanceCutoff)
	}
	if w.WeakTextCutoff < 0 || w.WeakTextCutoff > 1 {
		return fmt.Errorf("weak_text_cutoff must be in [0,1], got %.4f", w.WeakTextCutoff)
	}
	if w.BudgetDeficitSoft < 0 || w.BudgetDeficitHard < w.BudgetDeficitSoft {
		return fmt.Errorf("budget deficit thresholds must satisfy 0 <= soft <= hard, got %d/%d",
			w.BudgetDeficitSoft, w.BudgetDeficitHard)
	}
	return nil
}

// durationWeights returns the (duration, text) weight pair for a query,
// depending on whether a duration constraint is present.
func (w Weights) durationWeights(hasDuration bool) (durW, textW float64) {
	if hasDuration {
		return w.Duration, w.Text
	}
	return w.DurationFallback, w.Text + (w.Duration - w.DurationFallback)
}
