package rank

import (
	"errors"
	"testing"

	"github.com/roam-cloud/tripdex/internal/domain"
	"github.com/roam-cloud/tripdex/internal/index"
)

func rankTestSpots() []domain.Spot {
	return []domain.Spot{
		{
			ID: 1, Name: "Goa Beach", Moods: []string{"relaxing", "party"},
			BudgetMin: 2500, BudgetMax: 8000, DurationDays: 4, DistanceKM: 590,
			Rating: 4.5, BestMonths: []string{"november", "december", "january"},
			Description: "golden beaches and vibrant nightlife",
		},
		{
			ID: 2, Name: "Manali Hill Station", Moods: []string{"adventure", "nature"},
			BudgetMin: 2000, BudgetMax: 6000, DurationDays: 5, DistanceKM: 540,
			Rating: 4.4, BestMonths: []string{"december", "january", "may"},
			Description: "snow capped mountains and trekking trails",
		},
		{
			ID: 3, Name: "Leh Ladakh Mountain", Moods: []string{"adventure", "nature"},
			BudgetMin: 6000, BudgetMax: 9000, DurationDays: 7, DistanceKM: 1000,
			Rating: 4.7, BestMonths: []string{"june", "july", "august"},
			Description: "high altitude desert and mountain passes",
		},
		{
			ID: 4, Name: "Tirupathi Devotion", Moods: []string{"spiritual"},
			BudgetMin: 1000, BudgetMax: 3000, DurationDays: 2, DistanceKM: 140,
			Rating: 4.6, BestMonths: []string{"september", "october"},
			Description: "hilltop temple pilgrimage",
		},
	}
}

func newTestRanker(t *testing.T) *Ranker {
	t.Helper()
	ix := index.New()
	if err := ix.Load(rankTestSpots()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := ix.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	return New(ix, DefaultWeights())
}

func TestRank_InvalidTopK(t *testing.T) {
	r := newTestRanker(t)
	for _, k := range []int{0, -1} {
		if _, err := r.Rank(domain.Constraints{}, k); !errors.Is(err, domain.ErrInvalidTopK) {
			t.Errorf("k=%d: expected ErrInvalidTopK, got %v", k, err)
		}
	}
}

func TestRank_SortedByScoreThenRating(t *testing.T) {
	r := newTestRanker(t)
	results, err := r.Rank(domain.Constraints{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		if cur.Score > prev.Score {
			t.Errorf("results out of order at %d: %.4f then %.4f", i, prev.Score, cur.Score)
		}
		if cur.Score == prev.Score && cur.Spot.Rating > prev.Spot.Rating {
			t.Errorf("rating tie-break violated at %d", i)
		}
	}
}

func TestRank_TopKBoundsNotPads(t *testing.T) {
	r := newTestRanker(t)

	all, err := r.Rank(domain.Constraints{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) > 4 {
		t.Fatalf("more results than spots: %d", len(all))
	}

	two, err := r.Rank(domain.Constraints{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(two) != 2 {
		t.Errorf("expected 2 results, got %d", len(two))
	}
}

func TestRank_BudgetCeilingHardReject(t *testing.T) {
	r := newTestRanker(t)

	// Leh Ladakh's entry budget is 6000; a 5000 ceiling excludes it no matter
	// how well everything else matches.
	cons := domain.Constraints{BudgetMax: domain.IntPtr(5000)}
	results, err := r.Rank(cons, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range results {
		if res.SpotID == 3 {
			t.Error("spot with entry budget above ceiling must not be returned")
		}
		if res.Spot.BudgetMin > 5000 {
			t.Errorf("spot %d entry budget %d exceeds ceiling", res.SpotID, res.Spot.BudgetMin)
		}
	}
}

func TestRank_BudgetRangeNonOverlapReject(t *testing.T) {
	r := newTestRanker(t)

	// 9500-12000 overlaps nothing in the fixture set.
	cons := domain.Constraints{
		BudgetMin: domain.IntPtr(9500),
		BudgetMax: domain.IntPtr(12000),
	}
	results, err := r.Rank(cons, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRank_AffordabilityBonusOrdersCheaper(t *testing.T) {
	r := newTestRanker(t)

	// Same ceiling for all; Tirupathi has the lowest entry budget and should
	// collect the largest bonus.
	cons := domain.Constraints{BudgetMax: domain.IntPtr(8000)}
	results, err := r.Rank(cons, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}

	score := func(id int) (float64, bool) {
		for _, res := range results {
			if res.SpotID == id {
				return res.Score, true
			}
		}
		return 0, false
	}
	tirupathi, ok1 := score(4)
	leh, ok2 := score(3)
	if !ok1 || !ok2 {
		t.Fatalf("expected both 3 and 4 in results: %v %v", ok1, ok2)
	}
	if tirupathi <= leh {
		t.Errorf("cheaper entry should outscore pricier at equal fit: %.4f vs %.4f", tirupathi, leh)
	}
}

func TestRank_WeakTextWithTypeKeywordReject(t *testing.T) {
	r := newTestRanker(t)

	// "beach" is a location type keyword; spots whose text barely matches it
	// must be dropped, while Goa (name match) survives.
	cons := domain.Constraints{Terms: []string{"beach"}}
	results, err := r.Rank(cons, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].SpotID != 1 {
		t.Fatalf("expected only Goa Beach, got %v", resultIDs(results))
	}
}

func TestRank_RelevanceCutoff(t *testing.T) {
	r := newTestRanker(t)
	results, err := r.Rank(domain.Constraints{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range results {
		if res.Score < r.w.RelevanceCutoff {
			t.Errorf("spot %d score %.4f below cutoff %.2f", res.SpotID, res.Score, r.w.RelevanceCutoff)
		}
	}
}

func TestRank_MoodFiltering(t *testing.T) {
	r := newTestRanker(t)
	cons := domain.Constraints{Moods: []string{"adventure"}}
	results, err := r.Rank(cons, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) < 2 {
		t.Fatalf("expected adventure spots, got %v", resultIDs(results))
	}
	// Adventure spots (2 and 3) must rank above the non-adventure ones that
	// survive the cutoff.
	top := map[int]bool{results[0].SpotID: true, results[1].SpotID: true}
	if !top[2] || !top[3] {
		t.Errorf("expected 2 and 3 on top, got %v", resultIDs(results))
	}
}

func TestDurationScoreTiers(t *testing.T) {
	r := newTestRanker(t)
	spot := domain.Spot{DurationDays: 5}

	tests := []struct {
		requested int
		want      float64
	}{
		{5, 1.0},
		{4, 0.9},
		{6, 0.9},
		{3, 0.7},
		{8, 0.7},
		{1, 0.6},  // diff 4: 1 - 0.4
		{12, 0.4}, // diff 7 hits the floor
	}
	for _, tt := range tests {
		cons := domain.Constraints{DurationDays: domain.IntPtr(tt.requested)}
		got, _ := r.durationScore(spot, cons)
		if got != tt.want {
			t.Errorf("requested %d: got %v, want %v", tt.requested, got, tt.want)
		}
	}
}

func TestDurationScore_Unset(t *testing.T) {
	r := newTestRanker(t)
	got, _ := r.durationScore(domain.Spot{DurationDays: 5}, domain.Constraints{})
	if got != 0.5 {
		t.Errorf("got %v, want 0.5", got)
	}
}

func TestDistanceScore(t *testing.T) {
	r := newTestRanker(t)

	tests := []struct {
		name    string
		spotKM  int
		limitKM int
		want    float64
	}{
		{"at origin", 0, 600, 1.0},
		{"half the limit", 300, 600, 0.85},
		{"exactly at limit", 600, 600, 0.7},
		{"slightly beyond", 660, 600, 0.9},
		{"far beyond floors", 1800, 600, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spot := domain.Spot{DistanceKM: tt.spotKM}
			cons := domain.Constraints{DistanceKM: domain.IntPtr(tt.limitKM)}
			got, _ := r.distanceScore(spot, cons)
			if round4(got) != tt.want {
				t.Errorf("got %v, want %v", round4(got), tt.want)
			}
		})
	}
}

func TestCategoryScoreTiers(t *testing.T) {
	r := newTestRanker(t)

	tests := []struct {
		name string
		want float64
	}{
		{"Goa Beach", 0.9},
		{"Kerala Backwaters", 0.9},
		{"Tirupathi Devotion", 0.9},
		{"Manali Hill Station", 0.85},
		{"Shimla Snow Mountain", 0.85},
		{"Rishikesh Yoga", 0.85},
		{"Mumbai Night Life", 0.75},
		{"Jaipur City Tour", 0.75},
		{"Plainville", 0.5},
	}
	for _, tt := range tests {
		got, _ := r.categoryScore(domain.Spot{Name: tt.name})
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBudgetScore_DeficitTiersRejectButExplain(t *testing.T) {
	r := newTestRanker(t)
	spot := domain.Spot{BudgetMin: 5400, BudgetMax: 9000}

	tests := []struct {
		ceiling   int
		wantScore float64
	}{
		{5000, 0.85}, // deficit 400
		{4500, 0.75}, // deficit 900
		{4400, 0},    // deficit 1000 is the hard threshold
		{2000, 0},
	}
	for _, tt := range tests {
		cons := domain.Constraints{BudgetMax: domain.IntPtr(tt.ceiling)}
		score, reject, _ := r.budgetScore(spot, cons)
		if !reject {
			t.Errorf("ceiling %d: entry budget above ceiling must reject", tt.ceiling)
		}
		if score != tt.wantScore {
			t.Errorf("ceiling %d: got score %v, want %v", tt.ceiling, score, tt.wantScore)
		}
	}
}

func TestExplain_UnknownSpot(t *testing.T) {
	r := newTestRanker(t)
	_, err := r.Explain(99, domain.Constraints{})
	if !errors.Is(err, domain.ErrSpotNotFound) {
		t.Fatalf("expected ErrSpotNotFound, got %v", err)
	}
}

func TestExplain_FactorsAndWeighting(t *testing.T) {
	r := newTestRanker(t)
	cons := domain.Constraints{
		Moods:        []string{"relaxing"},
		DurationDays: domain.IntPtr(4),
	}
	b, err := r.Explain(1, cons)
	if err != nil {
		t.Fatal(err)
	}

	for _, factor := range []string{
		"budget", "text_match", "mood", "duration", "destination_type", "best_months", "distance",
	} {
		f, ok := b[factor]
		if !ok {
			t.Errorf("missing factor %q", factor)
			continue
		}
		if f.Reason == "" {
			t.Errorf("factor %q has no reason", factor)
		}
	}

	// Goa carries "relaxing": full mood credit at weight 0.20.
	if got := b["mood"].Score; got != 0.2 {
		t.Errorf("mood: got %v, want 0.2", got)
	}
	// Exact duration match at weight 0.20.
	if got := b["duration"].Score; got != 0.2 {
		t.Errorf("duration: got %v, want 0.2", got)
	}
}

func TestExplain_DurationFallbackShiftsWeightToText(t *testing.T) {
	r := newTestRanker(t)

	without, err := r.Explain(1, domain.Constraints{})
	if err != nil {
		t.Fatal(err)
	}

	// No duration constraint: duration drops to the fallback weight and the
	// freed weight moves to text.
	if got, want := without["duration"].Score, round4(0.5*0.05); got != want {
		t.Errorf("fallback duration: got %v, want %v", got, want)
	}
	if got, want := without["text_match"].Score, round4(0.5*0.30); got != want {
		t.Errorf("boosted text: got %v, want %v", got, want)
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}

	bad := DefaultWeights()
	bad.Budget = 0.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for weights not summing to 1.0")
	}

	bad = DefaultWeights()
	bad.BudgetDeficitHard = 100
	if err := bad.Validate(); err == nil {
		t.Error("expected error for hard < soft deficit threshold")
	}
}

func resultIDs(results []domain.Result) []int {
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.SpotID
	}
	return ids
}
