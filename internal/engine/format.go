package engine

import (
	"fmt"

	"github.com/roam-cloud/tripdex/internal/domain"
	"github.com/roam-cloud/tripdex/internal/rank"
)

// Entry is one formatted recommendation.
type Entry struct {
	Rank           int              `json:"rank"`
	SpotID         int              `json:"spot_id"`
	Name           string           `json:"name"`
	RelevanceScore float64          `json:"relevance_score"`
	Moods          []string         `json:"moods"`
	BudgetRange    string           `json:"budget_range"`
	BudgetMin      int              `json:"budget_min"`
	BudgetMax      int              `json:"budget_max"`
	DurationDays   int              `json:"duration_days"`
	DistanceKM     int              `json:"distance_km"`
	Rating         float64          `json:"rating"`
	BestMonths     []string         `json:"best_months"`
	Description    string           `json:"description"`
	Breakdown      domain.Breakdown `json:"score_breakdown,omitempty"`
}

// Recommendation is the full response payload for one query.
type Recommendation struct {
	Query             string             `json:"query"`
	Recommendations   []Entry            `json:"recommendations"`
	TotalResults      int                `json:"total_results"`
	ParsedConstraints domain.Constraints `json:"parsed_constraints"`
}

// SpotSummary is one catalog entry as listed by the all-spots endpoint.
type SpotSummary struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Moods        []string `json:"moods"`
	Budget       string   `json:"budget"`
	BudgetMin    int      `json:"budget_min"`
	BudgetMax    int      `json:"budget_max"`
	Duration     string   `json:"duration"`
	DurationDays int      `json:"duration_days"`
	Distance     string   `json:"distance"`
	DistanceKM   int      `json:"distance_km"`
	Rating       float64  `json:"rating"`
	BestMonths   []string `json:"best_months"`
	Description  string   `json:"description"`
}

func newEntry(position int, res domain.Result) Entry {
	s := res.Spot
	return Entry{
		Rank:           position,
		SpotID:         res.SpotID,
		Name:           s.Name,
		RelevanceScore: rank.Round4(res.Score),
		Moods:          s.Moods,
		BudgetRange:    s.BudgetRange(),
		BudgetMin:      s.BudgetMin,
		BudgetMax:      s.BudgetMax,
		DurationDays:   s.DurationDays,
		DistanceKM:     s.DistanceKM,
		Rating:         s.Rating,
		BestMonths:     s.BestMonths,
		Description:    s.Description,
	}
}

func newSpotSummary(s domain.Spot) SpotSummary {
	return SpotSummary{
		ID:           s.ID,
		Name:         s.Name,
		Moods:        s.Moods,
		Budget:       s.BudgetRange(),
		BudgetMin:    s.BudgetMin,
		BudgetMax:    s.BudgetMax,
		Duration:     fmt.Sprintf("%d days", s.DurationDays),
		DurationDays: s.DurationDays,
		Distance:     fmt.Sprintf("%d km", s.DistanceKM),
		DistanceKM:   s.DistanceKM,
		Rating:       s.Rating,
		BestMonths:   s.BestMonths,
		Description:  s.Description,
	}
}
