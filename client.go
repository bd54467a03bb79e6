// Package tripdex embeds the travel recommendation engine in-process: the
// same catalog store, index, and ranking pipeline the HTTP server runs, minus
// the transport.
package tripdex

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roam-cloud/tripdex/internal/catalog"
	"github.com/roam-cloud/tripdex/internal/domain"
	"github.com/roam-cloud/tripdex/internal/engine"
	"github.com/roam-cloud/tripdex/internal/query"
	"github.com/roam-cloud/tripdex/internal/rank"
)

// Re-exported pipeline types so SDK users never import internal packages.
type (
	// Spot is one travel destination record.
	Spot = domain.Spot
	// Constraints is the structured form extracted from a free-text query.
	Constraints = domain.Constraints
	// Breakdown maps factor names to their contribution to a score.
	Breakdown = domain.Breakdown
	// Recommendation is the formatted response for one query.
	Recommendation = engine.Recommendation
	// SpotSummary is one catalog entry as listed by AllSpots.
	SpotSummary = engine.SpotSummary
	// Weights are the per-factor scoring weights. Must sum to 1.0.
	Weights = rank.Weights
)

// DefaultWeights returns the canonical scoring weights.
func DefaultWeights() Weights { return rank.DefaultWeights() }

// Sentinel errors surfaced by the SDK.
var (
	ErrBadCatalog   = domain.ErrBadCatalog
	ErrEmptyQuery   = domain.ErrEmptyQuery
	ErrInvalidTopK  = domain.ErrInvalidTopK
	ErrSpotNotFound = domain.ErrSpotNotFound
)

// Client is the tripdex SDK entry point.
type Client struct {
	store  *catalog.Store
	engine *engine.Engine
	logger *zap.Logger
}

// Open loads the catalog at path, builds the index, and returns a ready
// client. The catalog file is the source of truth: AddSpot and RemoveSpot
// rewrite it and rebuild before returning.
func Open(catalogPath string, opts ...Option) (*Client, error) {
	if catalogPath == "" {
		return nil, errors.New("tripdex: catalog path required")
	}

	cfg := &clientConfig{
		weights:   rank.DefaultWeights(),
		ceiling:   query.DefaultAffordableCeiling,
		cacheSize: 128,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	store := catalog.NewStore(catalogPath)
	eng, err := engine.New(store, engine.Options{
		Weights:           cfg.weights,
		AffordableCeiling: cfg.ceiling,
		CacheSize:         cfg.cacheSize,
	}, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("tripdex: open catalog: %w", err)
	}

	return &Client{store: store, engine: eng, logger: cfg.logger}, nil
}

// Recommend ranks the catalog against a free-text query. topK caps the result
// list; explain attaches per-factor breakdowns.
func (c *Client) Recommend(ctx context.Context, q string, topK int, explain bool) (*Recommendation, error) {
	return c.engine.Recommend(ctx, q, topK, explain)
}

// Explain scores one destination against a query and returns the factor
// breakdown, whether or not the spot would survive ranking.
func (c *Client) Explain(spotID int, q string) (Breakdown, error) {
	return c.engine.Explain(q, spotID)
}

// AllSpots lists the indexed catalog.
func (c *Client) AllSpots() []SpotSummary {
	return c.engine.AllSpots()
}

// AddSpot persists a new destination and rebuilds the index. The stored record
// with its assigned id is returned.
func (c *Client) AddSpot(spot Spot) (Spot, error) {
	return c.engine.AddSpot(spot)
}

// RemoveSpot deletes a destination by id and rebuilds the index.
func (c *Client) RemoveSpot(id int) error {
	return c.engine.RemoveSpot(id)
}

// Rebuild re-reads the catalog file and rebuilds the index. Useful when the
// file was modified outside the client.
func (c *Client) Rebuild() error {
	return c.engine.Reload()
}

// Close releases resources. Present for symmetry with future stores; the
// in-memory index needs no teardown.
func (c *Client) Close() {
	_ = c.logger.Sync()
}
