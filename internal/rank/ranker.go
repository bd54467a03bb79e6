// Package rank scores, filters, and orders destinations against a parsed
// constraint record. Two mechanisms coexist and must not be conflated: hard
// rejects (early returns that drop a spot regardless of its other factors) and
// graduated weighted sub-scores. Unconstrained factors contribute a neutral
// 0.5 at full weight so totals stay comparable across queries.
package rank

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/roam-cloud/tripdex/internal/domain"
	"github.com/roam-cloud/tripdex/internal/index"
)

// Ranker scores every indexed spot for a constraint record.
type Ranker struct {
	idx *index.Index
	w   Weights
}

// New creates a ranker over the index with the given weight set.
func New(idx *index.Index, w Weights) *Ranker {
	return &Ranker{idx: idx, w: w}
}

// Rank scores all indexed spots and returns them ordered by score descending,
// rating descending on ties. Spots below the relevance cutoff are discarded;
// k bounds the list but never pads it. k < 1 yields domain.ErrInvalidTopK
// before any scoring work.
func (r *Ranker) Rank(cons domain.Constraints, k int) ([]domain.Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidTopK, k)
	}

	var results []domain.Result
	r.idx.ForEach(func(spot domain.Spot) {
		total, rejected := r.score(spot, cons)
		if rejected {
			return
		}
		results = append(results, domain.Result{SpotID: spot.ID, Score: total, Spot: spot})
	})

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Spot.Rating > results[j].Spot.Rating
	})

	// Sorting is monotonic, so everything past the first sub-cutoff entry is
	// below the cutoff too.
	for i, res := range results {
		if res.Score < r.w.RelevanceCutoff {
			results = results[:i]
			break
		}
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Explain recomputes each sub-score for one spot and returns the per-factor
// weighted contributions with human-readable reasons. Diagnostics only; the
// ranking path never reads it.
func (r *Ranker) Explain(id int, cons domain.Constraints) (domain.Breakdown, error) {
	spot, ok := r.idx.SpotByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrSpotNotFound, id)
	}

	durW, textW := r.w.durationWeights(cons.DurationDays != nil)
	b := domain.Breakdown{}

	budget, _, budgetReason := r.budgetScore(spot, cons)
	b["budget"] = domain.Factor{Score: round4(budget * r.w.Budget), Reason: budgetReason}

	text, _, textReason := r.textScore(spot, cons)
	b["text_match"] = domain.Factor{Score: round4(text * textW), Reason: textReason}

	mood, moodReason := r.moodScore(spot, cons)
	b["mood"] = domain.Factor{Score: round4(mood * r.w.Mood), Reason: moodReason}

	duration, durationReason := r.durationScore(spot, cons)
	b["duration"] = domain.Factor{Score: round4(duration * durW), Reason: durationReason}

	category, categoryReason := r.categoryScore(spot)
	b["destination_type"] = domain.Factor{Score: round4(category * r.w.Category), Reason: categoryReason}

	months, monthsReason := r.monthsScore(spot, cons)
	b["best_months"] = domain.Factor{Score: round4(months * r.w.Months), Reason: monthsReason}

	distance, distanceReason := r.distanceScore(spot, cons)
	b["distance"] = domain.Factor{Score: round4(distance * r.w.Distance), Reason: distanceReason}

	return b, nil
}

// score computes the weighted total for one spot, or rejected=true when a
// hard-reject condition fires.
func (r *Ranker) score(spot domain.Spot, cons domain.Constraints) (total float64, rejected bool) {
	budget, reject, _ := r.budgetScore(spot, cons)
	if reject {
		return 0, true
	}
	text, reject, _ := r.textScore(spot, cons)
	if reject {
		return 0, true
	}
	mood, _ := r.moodScore(spot, cons)
	duration, _ := r.durationScore(spot, cons)
	category, _ := r.categoryScore(spot)
	months, _ := r.monthsScore(spot, cons)
	distance, _ := r.distanceScore(spot, cons)

	durW, textW := r.w.durationWeights(cons.DurationDays != nil)

	total = budget*r.w.Budget +
		text*textW +
		mood*r.w.Mood +
		duration*durW +
		category*r.w.Category +
		months*r.w.Months +
		distance*r.w.Distance
	return total, false
}

// budgetScore applies the range-overlap and ceiling rules. Range non-overlap
// and entry budgets at or past the hard deficit threshold are hard rejects;
// affordable spots earn a bonus above 1.0 so cheaper entries edge out pricier
// ones at equal fit.
func (r *Ranker) budgetScore(spot domain.Spot, cons domain.Constraints) (score float64, reject bool, reason string) {
	switch {
	case cons.BudgetMin != nil && cons.BudgetMax != nil:
		lo, hi := *cons.BudgetMin, *cons.BudgetMax
		if spot.BudgetMax < lo || spot.BudgetMin > hi {
			return 0, true, fmt.Sprintf("budget %s outside requested ₹%d-%d", spot.BudgetRange(), lo, hi)
		}
		return 1.0, false, fmt.Sprintf("budget %s overlaps requested ₹%d-%d", spot.BudgetRange(), lo, hi)

	case cons.BudgetMax != nil:
		ceiling := *cons.BudgetMax
		if spot.BudgetMin <= ceiling {
			bonus := r.w.AffordabilityBonus * (1.0 - float64(spot.BudgetMin)/float64(ceiling))
			if bonus < 0 {
				bonus = 0
			}
			return 1.0 + bonus, false,
				fmt.Sprintf("budget %s fits your ₹%d ceiling", spot.BudgetRange(), ceiling)
		}
		// An entry budget above the ceiling always excludes the spot from
		// results. The staged credit keeps the explanation graduated instead
		// of a cliff to zero.
		deficit := spot.BudgetMin - ceiling
		switch {
		case deficit <= r.w.BudgetDeficitSoft:
			return 0.85, true, fmt.Sprintf("entry budget ₹%d slightly above your ₹%d", spot.BudgetMin, ceiling)
		case deficit < r.w.BudgetDeficitHard:
			return 0.75, true, fmt.Sprintf("entry budget ₹%d moderately above your ₹%d", spot.BudgetMin, ceiling)
		default:
			return 0, true, fmt.Sprintf("entry budget ₹%d far above your ₹%d", spot.BudgetMin, ceiling)
		}

	case cons.BudgetMin != nil:
		lo := *cons.BudgetMin
		if spot.BudgetMax < lo {
			return 0, true, fmt.Sprintf("budget %s below requested minimum ₹%d", spot.BudgetRange(), lo)
		}
		return 1.0, false, fmt.Sprintf("budget %s meets requested minimum ₹%d", spot.BudgetRange(), lo)

	default:
		return 0.5, false, "no budget specified (default score)"
	}
}

// locationTypeKeywords are treated as filters rather than soft preferences:
// when one appears in the query and the spot's text match is weak, the spot is
// rejected outright. Mood words stay soft.
var locationTypeKeywords = map[string]struct{}{
	"beach": {}, "backwater": {}, "backwaters": {}, "mountain": {}, "mountains": {},
	"hill": {}, "snow": {}, "city": {}, "temple": {}, "yoga": {}, "spiritual": {},
}

// textScore checks each query term against name (strongest), mood tags
// (medium), then description (weakest); a name hit is not double-counted.
func (r *Ranker) textScore(spot domain.Spot, cons domain.Constraints) (score float64, reject bool, reason string) {
	if len(cons.Terms) == 0 {
		return 0.5, false, "no search terms (default score)"
	}

	name := strings.ToLower(spot.Name)
	desc := strings.ToLower(spot.Description)
	moods := strings.ToLower(strings.Join(spot.Moods, " "))

	matched := 0
	hasTypeKeyword := false
	for _, term := range cons.Terms {
		if _, ok := locationTypeKeywords[term]; ok {
			hasTypeKeyword = true
		}
		switch {
		case strings.Contains(name, term):
			matched += 3
		case strings.Contains(moods, term):
			matched += 2
		case strings.Contains(desc, term):
			matched++
		}
	}

	score = math.Min(float64(matched)/float64(3*len(cons.Terms)), 1.0)
	if hasTypeKeyword && score < r.w.WeakTextCutoff {
		return 0, true, fmt.Sprintf("location keyword in query, weak match %.2f", score)
	}
	return score, false, fmt.Sprintf("matched %d of %d terms across name/mood/description",
		countMatchedTerms(cons.Terms, name, moods, desc), len(cons.Terms))
}

func countMatchedTerms(terms []string, name, moods, desc string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(name, t) || strings.Contains(moods, t) || strings.Contains(desc, t) {
			n++
		}
	}
	return n
}

// moodScore is the fraction of requested moods the spot carries. A query with
// no moods gets full credit, not the neutral default.
func (r *Ranker) moodScore(spot domain.Spot, cons domain.Constraints) (float64, string) {
	if len(cons.Moods) == 0 {
		return 1.0, "no mood specified (full credit)"
	}
	spotMoods := make(map[string]struct{}, len(spot.Moods))
	for _, m := range spot.Moods {
		spotMoods[strings.ToLower(m)] = struct{}{}
	}
	matches := 0
	for _, m := range cons.Moods {
		if _, ok := spotMoods[strings.ToLower(m)]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(cons.Moods)),
		fmt.Sprintf("moods %v match %d of %d requested", spot.Moods, matches, len(cons.Moods))
}

// durationScore decays with the gap from the requested trip length. Never a
// hard reject.
func (r *Ranker) durationScore(spot domain.Spot, cons domain.Constraints) (float64, string) {
	if cons.DurationDays == nil {
		return 0.5, "no duration specified (default score)"
	}
	diff := spot.DurationDays - *cons.DurationDays
	if diff < 0 {
		diff = -diff
	}
	reason := fmt.Sprintf("trip is %d days, you have %d", spot.DurationDays, *cons.DurationDays)
	switch {
	case diff == 0:
		return 1.0, reason
	case diff <= 1:
		return 0.9, reason
	case diff <= 2:
		return 0.7, reason
	default:
		return math.Max(r.w.DurationFloor, 1.0-0.1*float64(diff)), reason
	}
}

// categoryScore is a static prior from tiered keywords in the spot name.
func (r *Ranker) categoryScore(spot domain.Spot) (float64, string) {
	name := strings.ToLower(spot.Name)
	tiers := []struct {
		score    float64
		keywords []string
	}{
		{0.9, []string{"beach", "backwater", "spiritual", "devotion"}},
		{0.85, []string{"hill", "mountain", "snow", "leh", "ladakh", "yoga"}},
		{0.75, []string{"night", "life", "city", "tour"}},
	}
	for _, tier := range tiers {
		for _, kw := range tier.keywords {
			if strings.Contains(name, kw) {
				return tier.score, fmt.Sprintf("destination type keyword %q in name", kw)
			}
		}
	}
	return 0.5, "no destination type keyword in name"
}

// monthsScore is the fraction of requested months in the spot's best months;
// neutral when either side is empty.
func (r *Ranker) monthsScore(spot domain.Spot, cons domain.Constraints) (float64, string) {
	if len(cons.Months) == 0 || len(spot.BestMonths) == 0 {
		return 0.5, "no month preference (default score)"
	}
	best := make(map[string]struct{}, len(spot.BestMonths))
	for _, m := range spot.BestMonths {
		best[strings.ToLower(m)] = struct{}{}
	}
	matches := 0
	for _, m := range cons.Months {
		if _, ok := best[strings.ToLower(m)]; ok {
			matches++
		}
	}
	score := math.Min(1.0, float64(matches)/float64(len(cons.Months)))
	return score, fmt.Sprintf("best months %v cover %d of %d requested", spot.BestMonths, matches, len(cons.Months))
}

// distanceScore rewards proximity within the requested ceiling and applies a
// graduated penalty beyond it, never dropping under the floor.
func (r *Ranker) distanceScore(spot domain.Spot, cons domain.Constraints) (float64, string) {
	if cons.DistanceKM == nil {
		return 0.5, "no distance limit (default score)"
	}
	limit := *cons.DistanceKM
	reason := fmt.Sprintf("%d km away, your limit %d km", spot.DistanceKM, limit)
	if limit <= 0 {
		return r.w.DistanceFloor, reason
	}
	if spot.DistanceKM <= limit {
		return math.Min(1.0, 1.0-float64(spot.DistanceKM)/float64(limit)*0.3), reason
	}
	excess := float64(spot.DistanceKM-limit) / float64(limit)
	return math.Max(r.w.DistanceFloor, 1.0-math.Min(excess, 0.5)), reason
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Round4 rounds a relevance score the way the API reports it.
func Round4(v float64) float64 { return round4(v) }
