// Package engine glues the pipeline together: extract constraints, rank the
// indexed spots, format the payload. It also owns catalog reloads — every
// mutation or external file change goes through Reload, which rebuilds the
// index and purges the result cache so staleness is never observable.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/roam-cloud/tripdex/internal/catalog"
	"github.com/roam-cloud/tripdex/internal/domain"
	"github.com/roam-cloud/tripdex/internal/index"
	"github.com/roam-cloud/tripdex/internal/logger"
	"github.com/roam-cloud/tripdex/internal/metrics"
	"github.com/roam-cloud/tripdex/internal/query"
	"github.com/roam-cloud/tripdex/internal/rank"
)

// Options tune engine construction.
type Options struct {
	Weights           rank.Weights
	AffordableCeiling int
	CacheSize         int // 0 disables the result cache
}

// Engine is the recommendation orchestrator.
type Engine struct {
	store     *catalog.Store
	idx       *index.Index
	extractor *query.Extractor
	ranker    *rank.Ranker
	cache     *lru.Cache[string, *Recommendation]
	logger    *zap.Logger

	reloadMu sync.Mutex
}

// New creates an engine and performs the initial catalog load and index build.
func New(store *catalog.Store, opts Options, log *zap.Logger) (*Engine, error) {
	if opts.Weights == (rank.Weights{}) {
		opts.Weights = rank.DefaultWeights()
	}
	if err := opts.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("engine weights: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	idx := index.New()
	e := &Engine{
		store:     store,
		idx:       idx,
		extractor: query.New(opts.AffordableCeiling),
		ranker:    rank.New(idx, opts.Weights),
		logger:    log,
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, *Recommendation](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create result cache: %w", err)
		}
		e.cache = cache
	}

	if err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload re-reads the catalog, rebuilds the index, and purges the result
// cache. Reloads are serialized; queries keep hitting the previous build
// generation until the swap.
func (e *Engine) Reload() error {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	spots, err := e.store.Load()
	if err != nil {
		return err
	}
	if err := e.idx.Load(spots); err != nil {
		return err
	}
	if err := e.idx.Build(); err != nil {
		return err
	}
	if e.cache != nil {
		e.cache.Purge()
	}

	metrics.IndexRebuilds.Inc()
	metrics.IndexedSpots.Set(float64(len(spots)))
	e.logger.Info("catalog indexed", zap.Int("spots", len(spots)))
	return nil
}

// Recommend runs the full pipeline for one query. topK bounds the result list
// (never pads it); explain attaches the per-factor breakdown to each entry.
func (e *Engine) Recommend(ctx context.Context, rawQuery string, topK int, explain bool) (*Recommendation, error) {
	q := strings.TrimSpace(rawQuery)
	if q == "" {
		return nil, domain.ErrEmptyQuery
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidTopK, topK)
	}

	key := cacheKey(q, topK, explain)
	if e.cache != nil {
		if rec, ok := e.cache.Get(key); ok {
			metrics.RecommendTotal.WithLabelValues("hit").Inc()
			return rec, nil
		}
	}
	metrics.RecommendTotal.WithLabelValues("miss").Inc()
	start := time.Now()

	cons, err := e.extractor.Extract(q)
	if err != nil {
		return nil, err
	}

	results, err := e.ranker.Rank(cons, topK)
	if err != nil {
		return nil, err
	}

	rec := &Recommendation{
		Query:             q,
		Recommendations:   make([]Entry, 0, len(results)),
		TotalResults:      len(results),
		ParsedConstraints: cons,
	}
	for i, res := range results {
		entry := newEntry(i+1, res)
		if explain {
			breakdown, err := e.ranker.Explain(res.SpotID, cons)
			if err != nil {
				return nil, fmt.Errorf("explain spot %d: %w", res.SpotID, err)
			}
			entry.Breakdown = breakdown
		}
		rec.Recommendations = append(rec.Recommendations, entry)
	}

	metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	logger.FromContext(ctx).Debug("recommendation served",
		zap.String("query", q),
		zap.Int("top_k", topK),
		zap.Int("results", len(results)),
	)

	if e.cache != nil {
		e.cache.Add(key, rec)
	}
	return rec, nil
}

// Explain scores one destination against a query and returns the factor
// breakdown, whether or not the spot would survive ranking.
func (e *Engine) Explain(rawQuery string, spotID int) (domain.Breakdown, error) {
	q := strings.TrimSpace(rawQuery)
	if q == "" {
		return nil, domain.ErrEmptyQuery
	}
	cons, err := e.extractor.Extract(q)
	if err != nil {
		return nil, err
	}
	return e.ranker.Explain(spotID, cons)
}

// AllSpots returns the full indexed catalog for display.
func (e *Engine) AllSpots() []SpotSummary {
	spots := e.idx.All()
	out := make([]SpotSummary, 0, len(spots))
	for _, s := range spots {
		out = append(out, newSpotSummary(s))
	}
	return out
}

// AddSpot persists a new destination and rebuilds the index before returning.
func (e *Engine) AddSpot(spot domain.Spot) (domain.Spot, error) {
	added, err := e.store.Add(spot)
	if err != nil {
		return domain.Spot{}, err
	}
	if err := e.Reload(); err != nil {
		return domain.Spot{}, err
	}
	e.logger.Info("spot added", zap.Int("id", added.ID), zap.String("name", added.Name))
	return added, nil
}

// RemoveSpot deletes a destination by id and rebuilds the index.
func (e *Engine) RemoveSpot(id int) error {
	if err := e.store.Remove(id); err != nil {
		return err
	}
	if err := e.Reload(); err != nil {
		return err
	}
	e.logger.Info("spot removed", zap.Int("id", id))
	return nil
}

// Index exposes the underlying index for diagnostics and the SDK.
func (e *Engine) Index() *index.Index { return e.idx }

func cacheKey(q string, topK int, explain bool) string {
	return fmt.Sprintf("%d|%t|%s", topK, explain, strings.ToLower(q))
}
