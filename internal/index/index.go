// Package index owns the destination records and the derived lookup
// structures: a term reverse index over name+description, a mood index, and
// per-term document frequencies with memoized IDF. The derived structures are
// always a pure function of the loaded catalog; Build constructs a fresh
// snapshot and swaps it under a write lock, so no reader ever observes a
// half-rebuilt index.
package index

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/roam-cloud/tripdex/internal/domain"
)

// Index holds the catalog and its current build generation.
type Index struct {
	mu    sync.RWMutex
	spots []domain.Spot
	snap  *snapshot
}

// snapshot is one immutable build generation. The IDF memo lives inside the
// snapshot, so every rebuild invalidates it by construction.
type snapshot struct {
	meta    map[int]domain.Spot
	terms   map[string]map[int]struct{}
	moods   map[string]map[int]struct{}
	docFreq map[string]int
	total   int

	idfMu   sync.Mutex
	idfMemo map[string]float64
}

// New creates an empty index. Load must be called before Build.
func New() *Index {
	return &Index{}
}

// Load validates and stores the raw destination list. It does not touch the
// current snapshot: queries keep seeing the previous generation until Build.
func (ix *Index) Load(spots []domain.Spot) error {
	seen := make(map[int]struct{}, len(spots))
	for _, s := range spots {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate spot id %d", domain.ErrBadCatalog, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.spots = spots
	return nil
}

// Build constructs a fresh snapshot from the loaded catalog and swaps it in.
// Returns domain.ErrNotLoaded if Load has not been called.
func (ix *Index) Build() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.spots == nil {
		return fmt.Errorf("%w: call Load before Build", domain.ErrNotLoaded)
	}

	snap := &snapshot{
		meta:    make(map[int]domain.Spot, len(ix.spots)),
		terms:   make(map[string]map[int]struct{}),
		moods:   make(map[string]map[int]struct{}),
		docFreq: make(map[string]int),
		total:   len(ix.spots),
		idfMemo: make(map[string]float64),
	}

	for _, spot := range ix.spots {
		snap.meta[spot.ID] = spot

		for _, mood := range spot.Moods {
			key := strings.ToLower(mood)
			if snap.moods[key] == nil {
				snap.moods[key] = make(map[int]struct{})
			}
			snap.moods[key][spot.ID] = struct{}{}
		}

		tokens := Tokenize(spot.Name + " " + spot.Description)
		unique := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			unique[tok] = struct{}{}
		}
		// Document frequency counts each spot once per term, however often
		// the term repeats in the text.
		for tok := range unique {
			if snap.terms[tok] == nil {
				snap.terms[tok] = make(map[int]struct{})
			}
			snap.terms[tok][spot.ID] = struct{}{}
			snap.docFreq[tok]++
		}
	}

	ix.snap = snap
	return nil
}

// SpotByID returns the metadata for id. Missing ids are not an error.
func (ix *Index) SpotByID(id int) (domain.Spot, bool) {
	snap := ix.snapshot()
	if snap == nil {
		return domain.Spot{}, false
	}
	spot, ok := snap.meta[id]
	return spot, ok
}

// SpotsByMood returns the ids carrying the mood, matched case-insensitively.
// Unknown moods yield an empty slice, never an error.
func (ix *Index) SpotsByMood(mood string) []int {
	snap := ix.snapshot()
	if snap == nil {
		return nil
	}
	set := snap.moods[strings.ToLower(mood)]
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SpotsByTerm returns the ids whose name or description contains the term.
func (ix *Index) SpotsByTerm(term string) []int {
	snap := ix.snapshot()
	if snap == nil {
		return nil
	}
	set := snap.terms[strings.ToLower(term)]
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IDF returns ln(total/df) for the term, memoized per build generation.
// Unseen terms and an empty index yield 0.0.
func (ix *Index) IDF(term string) float64 {
	snap := ix.snapshot()
	if snap == nil {
		return 0.0
	}
	term = strings.ToLower(term)

	snap.idfMu.Lock()
	defer snap.idfMu.Unlock()

	if v, ok := snap.idfMemo[term]; ok {
		return v
	}
	v := 0.0
	if df := snap.docFreq[term]; df > 0 && snap.total > 0 {
		v = math.Log(float64(snap.total) / float64(df))
	}
	snap.idfMemo[term] = v
	return v
}

// DocFreq returns the number of spots containing the term.
func (ix *Index) DocFreq(term string) int {
	snap := ix.snapshot()
	if snap == nil {
		return 0
	}
	return snap.docFreq[strings.ToLower(term)]
}

// Total returns the number of indexed spots.
func (ix *Index) Total() int {
	snap := ix.snapshot()
	if snap == nil {
		return 0
	}
	return snap.total
}

// Terms returns all indexed terms, sorted. Intended for tests and diagnostics.
func (ix *Index) Terms() []string {
	snap := ix.snapshot()
	if snap == nil {
		return nil
	}
	terms := make([]string, 0, len(snap.terms))
	for t := range snap.terms {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// ForEach calls fn for every indexed spot in ascending id order. The iteration
// runs over one snapshot: a concurrent rebuild does not affect it.
func (ix *Index) ForEach(fn func(spot domain.Spot)) {
	snap := ix.snapshot()
	if snap == nil {
		return
	}
	ids := make([]int, 0, len(snap.meta))
	for id := range snap.meta {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn(snap.meta[id])
	}
}

// All returns every indexed spot in ascending id order.
func (ix *Index) All() []domain.Spot {
	var spots []domain.Spot
	ix.ForEach(func(spot domain.Spot) {
		spots = append(spots, spot)
	})
	return spots
}

func (ix *Index) snapshot() *snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snap
}
