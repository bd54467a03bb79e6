package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roam-cloud/tripdex/internal/domain"
)

const sampleCatalog = `{
  "travel_spots": [
    {
      "id": 1,
      "name": "Goa Beach",
      "mood": ["relaxing", "party"],
      "budget_min": 2500,
      "budget_max": 8000,
      "duration_days": 4,
      "distance_km": 590,
      "rating": 4.5,
      "best_months": ["december", "january"],
      "description": "golden beaches and nightlife"
    },
    {
      "id": 2,
      "name": "Manali Hill Station",
      "mood": ["adventure"],
      "budget_min": 2000,
      "budget_max": 6000,
      "duration_days": 5,
      "distance_km": 540,
      "rating": 4.4,
      "best_months": ["december", "may"],
      "description": "snow capped mountains"
    }
  ]
}`

func tempCatalog(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "travel_spots.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewStore(path)
}

func TestLoad_ValidCatalog(t *testing.T) {
	s := tempCatalog(t, sampleCatalog)
	spots, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(spots) != 2 {
		t.Fatalf("expected 2 spots, got %d", len(spots))
	}
	if spots[0].Name != "Goa Beach" || spots[1].ID != 2 {
		t.Errorf("unexpected records: %+v", spots)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := s.Load(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecode_BadShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"top-level array", `[{"id": 1}]`},
		{"missing travel_spots", `{"spots": []}`},
		{"travel_spots not a list", `{"travel_spots": {"id": 1}}`},
		{"record missing required field", `{"travel_spots": [{"id": 1, "name": "X"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !errors.Is(err, domain.ErrBadCatalog) {
				t.Errorf("expected ErrBadCatalog, got %v", err)
			}
		})
	}
}

func TestDecode_BestMonthsOptional(t *testing.T) {
	data := `{"travel_spots": [{
		"id": 1, "name": "X", "mood": ["relaxing"],
		"budget_min": 100, "budget_max": 200,
		"duration_days": 1, "distance_km": 10,
		"rating": 4.0, "description": "somewhere"
	}]}`
	spots, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("best_months must be optional: %v", err)
	}
	if len(spots) != 1 {
		t.Fatalf("expected 1 spot, got %d", len(spots))
	}
}

func TestDecode_InvalidFieldValues(t *testing.T) {
	data := `{"travel_spots": [{
		"id": 1, "name": "X", "mood": [],
		"budget_min": 500, "budget_max": 100,
		"duration_days": 1, "distance_km": 10,
		"rating": 4.0, "description": "min above max"
	}]}`
	_, err := Decode([]byte(data))
	if !errors.Is(err, domain.ErrBadCatalog) {
		t.Fatalf("expected ErrBadCatalog, got %v", err)
	}
}

func TestAdd_AssignsNextID(t *testing.T) {
	s := tempCatalog(t, sampleCatalog)

	added, err := s.Add(domain.Spot{
		Name: "Kerala Backwaters", Moods: []string{"relaxing"},
		BudgetMin: 3000, BudgetMax: 9000, DurationDays: 3, DistanceKM: 680,
		Rating: 4.6, Description: "houseboat cruises",
	})
	if err != nil {
		t.Fatal(err)
	}
	if added.ID != 3 {
		t.Errorf("expected id 3, got %d", added.ID)
	}

	spots, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(spots) != 3 {
		t.Errorf("expected 3 persisted spots, got %d", len(spots))
	}
}

func TestAdd_InvalidSpot(t *testing.T) {
	s := tempCatalog(t, sampleCatalog)
	_, err := s.Add(domain.Spot{Name: "Broken", BudgetMin: 500, BudgetMax: 100})
	if !errors.Is(err, domain.ErrBadCatalog) {
		t.Fatalf("expected ErrBadCatalog, got %v", err)
	}

	spots, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(spots) != 2 {
		t.Errorf("failed add must not persist, got %d spots", len(spots))
	}
}

func TestRemove(t *testing.T) {
	s := tempCatalog(t, sampleCatalog)
	if err := s.Remove(1); err != nil {
		t.Fatal(err)
	}

	spots, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(spots) != 1 || spots[0].ID != 2 {
		t.Errorf("unexpected catalog after remove: %+v", spots)
	}
}

func TestRemove_UnknownID(t *testing.T) {
	s := tempCatalog(t, sampleCatalog)
	err := s.Remove(99)
	if !errors.Is(err, domain.ErrSpotNotFound) {
		t.Fatalf("expected ErrSpotNotFound, got %v", err)
	}
}

func TestSave_RoundTrips(t *testing.T) {
	s := tempCatalog(t, sampleCatalog)
	spots, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	spots[0].Rating = 3.9
	if err := s.Save(spots); err != nil {
		t.Fatal(err)
	}

	reloaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded[0].Rating != 3.9 {
		t.Errorf("expected updated rating, got %v", reloaded[0].Rating)
	}
}
