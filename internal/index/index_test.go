package index

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/roam-cloud/tripdex/internal/domain"
)

func testSpots() []domain.Spot {
	return []domain.Spot{
		{
			ID: 1, Name: "Goa Beach", Moods: []string{"relaxing", "party"},
			BudgetMin: 2500, BudgetMax: 8000, DurationDays: 4, DistanceKM: 590,
			Rating: 4.5, BestMonths: []string{"december", "january"},
			Description: "golden beaches and vibrant nightlife",
		},
		{
			ID: 2, Name: "Manali Hill Station", Moods: []string{"adventure", "nature"},
			BudgetMin: 2000, BudgetMax: 6000, DurationDays: 5, DistanceKM: 540,
			Rating: 4.4, BestMonths: []string{"december", "may"},
			Description: "snow capped mountains and trekking trails",
		},
		{
			ID: 3, Name: "Kerala Backwaters", Moods: []string{"relaxing", "nature"},
			BudgetMin: 3000, BudgetMax: 9000, DurationDays: 3, DistanceKM: 680,
			Rating: 4.6, BestMonths: []string{"september", "october"},
			Description: "houseboat cruises through palm fringed canals",
		},
	}
}

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	ix := New()
	if err := ix.Load(testSpots()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := ix.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	return ix
}

func TestBuild_BeforeLoad(t *testing.T) {
	ix := New()
	err := ix.Build()
	if !errors.Is(err, domain.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestLoad_DuplicateID(t *testing.T) {
	spots := testSpots()
	spots[1].ID = 1
	err := New().Load(spots)
	if !errors.Is(err, domain.ErrBadCatalog) {
		t.Fatalf("expected ErrBadCatalog, got %v", err)
	}
}

func TestLoad_InvalidSpot(t *testing.T) {
	spots := testSpots()
	spots[0].BudgetMin = 9999
	err := New().Load(spots)
	if !errors.Is(err, domain.ErrBadCatalog) {
		t.Fatalf("expected ErrBadCatalog, got %v", err)
	}
}

func TestSpotByID(t *testing.T) {
	ix := buildTestIndex(t)

	spot, ok := ix.SpotByID(1)
	if !ok || spot.Name != "Goa Beach" {
		t.Errorf("expected Goa Beach, got %v ok=%v", spot.Name, ok)
	}
	if _, ok := ix.SpotByID(99); ok {
		t.Error("expected miss for unknown id")
	}
}

func TestSpotsByMood_CaseInsensitive(t *testing.T) {
	ix := buildTestIndex(t)

	got := ix.SpotsByMood("RELAXING")
	want := []int{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSpotsByMood_Unknown(t *testing.T) {
	ix := buildTestIndex(t)
	if got := ix.SpotsByMood("extreme"); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestSpotsByTerm(t *testing.T) {
	ix := buildTestIndex(t)

	if got := ix.SpotsByTerm("beaches"); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("beaches: got %v", got)
	}
	// "hill" appears only in Manali's name
	if got := ix.SpotsByTerm("hill"); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("hill: got %v", got)
	}
}

func TestDocFreq_UniquePerSpot(t *testing.T) {
	ix := New()
	spots := testSpots()
	spots[0].Description = "beach beach beach resort"
	if err := ix.Load(spots); err != nil {
		t.Fatal(err)
	}
	if err := ix.Build(); err != nil {
		t.Fatal(err)
	}

	if df := ix.DocFreq("beach"); df != 1 {
		t.Errorf("expected df=1 despite repeats, got %d", df)
	}
}

func TestIDF(t *testing.T) {
	ix := buildTestIndex(t)

	// "golden" appears in 1 of 3 spots.
	want := math.Log(3.0 / 1.0)
	if got := ix.IDF("golden"); math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := ix.IDF("nonexistent"); got != 0.0 {
		t.Errorf("unseen term: got %v, want 0.0", got)
	}

	// Memoized value must match a fresh computation.
	if got := ix.IDF("golden"); math.Abs(got-want) > 1e-12 {
		t.Errorf("memoized: got %v, want %v", got, want)
	}
}

func TestIDF_InvalidatedByRebuild(t *testing.T) {
	ix := buildTestIndex(t)
	before := ix.IDF("golden")

	// Shrink the catalog so total changes; the memo must not survive.
	if err := ix.Load(testSpots()[:1]); err != nil {
		t.Fatal(err)
	}
	if err := ix.Build(); err != nil {
		t.Fatal(err)
	}
	after := ix.IDF("golden")
	if after == before {
		t.Errorf("expected IDF to change after rebuild, got %v both times", after)
	}
	if want := 0.0; after != want {
		t.Errorf("single-doc catalog: got %v, want %v", after, want)
	}
}

func TestRebuild_SameCatalogIsStable(t *testing.T) {
	ix := buildTestIndex(t)

	terms := ix.Terms()
	df := make(map[string]int, len(terms))
	idf := make(map[string]float64, len(terms))
	for _, term := range terms {
		df[term] = ix.DocFreq(term)
		idf[term] = ix.IDF(term)
	}

	// Reload the identical catalog and rebuild: the new generation must be
	// indistinguishable from the old one.
	if err := ix.Load(testSpots()); err != nil {
		t.Fatal(err)
	}
	if err := ix.Build(); err != nil {
		t.Fatal(err)
	}

	if got := ix.Terms(); !reflect.DeepEqual(got, terms) {
		t.Errorf("term set changed across rebuild:\n before %v\n after  %v", terms, got)
	}
	for _, term := range terms {
		if got := ix.DocFreq(term); got != df[term] {
			t.Errorf("DocFreq(%q): got %d, want %d", term, got, df[term])
		}
		if got := ix.IDF(term); math.Abs(got-idf[term]) > 1e-12 {
			t.Errorf("IDF(%q): got %v, want %v", term, got, idf[term])
		}
	}
}

func TestForEach_AscendingOrder(t *testing.T) {
	ix := buildTestIndex(t)

	var ids []int
	ix.ForEach(func(spot domain.Spot) {
		ids = append(ids, spot.ID)
	})
	if !reflect.DeepEqual(ids, []int{1, 2, 3}) {
		t.Errorf("got %v", ids)
	}
}

func TestQueries_BeforeBuild(t *testing.T) {
	ix := New()

	if _, ok := ix.SpotByID(1); ok {
		t.Error("SpotByID on empty index")
	}
	if got := ix.Total(); got != 0 {
		t.Errorf("Total: got %d", got)
	}
	if got := ix.IDF("beach"); got != 0.0 {
		t.Errorf("IDF: got %v", got)
	}
}

func TestLoad_DoesNotTouchSnapshot(t *testing.T) {
	ix := buildTestIndex(t)

	if err := ix.Load(testSpots()[:1]); err != nil {
		t.Fatal(err)
	}
	// Queries keep seeing the previous generation until Build.
	if got := ix.Total(); got != 3 {
		t.Errorf("expected previous snapshot with 3 spots, got %d", got)
	}
	if err := ix.Build(); err != nil {
		t.Fatal(err)
	}
	if got := ix.Total(); got != 1 {
		t.Errorf("expected 1 after rebuild, got %d", got)
	}
}
