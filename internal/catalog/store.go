// Package catalog persists the destination dataset as a JSON file and applies
// the add/remove mutations. The file is the single source of truth: every
// mutation rewrites it atomically, and the caller is expected to reload and
// rebuild the index before serving further queries.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/roam-cloud/tripdex/internal/domain"
)

// File is the on-disk catalog shape.
type File struct {
	Spots []domain.Spot `json:"travel_spots"`
}

// requiredFields must be present on every record; best_months may be omitted.
var requiredFields = []string{
	"id", "name", "mood", "budget_min", "budget_max",
	"duration_days", "distance_km", "rating", "description",
}

// Store reads and rewrites one catalog file. Mutations are serialized.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store for the catalog file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the catalog file location.
func (s *Store) Path() string { return s.path }

// Load reads and validates the catalog. Wrong top-level shape or a missing
// required field on any record yields domain.ErrBadCatalog.
func (s *Store) Load() ([]domain.Spot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	return Decode(data)
}

// Decode parses catalog JSON and validates shape and records.
func Decode(data []byte) ([]domain.Spot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadCatalog, err)
	}
	rawList, ok := top["travel_spots"]
	if !ok {
		return nil, fmt.Errorf("%w: missing travel_spots field", domain.ErrBadCatalog)
	}

	var records []map[string]json.RawMessage
	if err := json.Unmarshal(rawList, &records); err != nil {
		return nil, fmt.Errorf("%w: travel_spots must be a list of objects", domain.ErrBadCatalog)
	}
	for i, rec := range records {
		for _, field := range requiredFields {
			if _, ok := rec[field]; !ok {
				return nil, fmt.Errorf("%w: record %d missing field %q", domain.ErrBadCatalog, i, field)
			}
		}
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadCatalog, err)
	}
	for _, spot := range f.Spots {
		if err := spot.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Spots, nil
}

// Save rewrites the catalog atomically: marshal to a temp file in the same
// directory, then rename over the original.
func (s *Store) Save(spots []domain.Spot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(spots)
}

func (s *Store) save(spots []domain.Spot) error {
	data, err := json.MarshalIndent(File{Spots: spots}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// Add validates the new spot, assigns the next id, and persists. The stored
// record is returned with its id filled in.
func (s *Store) Add(spot domain.Spot) (domain.Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spots, err := s.Load()
	if err != nil {
		return domain.Spot{}, err
	}

	maxID := 0
	for _, existing := range spots {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	spot.ID = maxID + 1

	if err := spot.Validate(); err != nil {
		return domain.Spot{}, err
	}

	spots = append(spots, spot)
	if err := s.save(spots); err != nil {
		return domain.Spot{}, err
	}
	return spot, nil
}

// Remove deletes the spot with the given id and persists. Missing ids yield
// domain.ErrSpotNotFound.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	spots, err := s.Load()
	if err != nil {
		return err
	}

	kept := spots[:0]
	for _, spot := range spots {
		if spot.ID != id {
			kept = append(kept, spot)
		}
	}
	if len(kept) == len(spots) {
		return fmt.Errorf("%w: id %d", domain.ErrSpotNotFound, id)
	}
	return s.save(kept)
}
