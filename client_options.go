package tripdex

import (
	"go.uber.org/zap"

	"github.com/roam-cloud/tripdex/internal/rank"
)

type clientConfig struct {
	weights   rank.Weights
	ceiling   int
	cacheSize int
	logger    *zap.Logger
}

// Option configures the Client.
type Option func(*clientConfig)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAffordableCeiling overrides the budget ceiling implied by words like
// "cheap" when the query carries no explicit amount.
func WithAffordableCeiling(ceiling int) Option {
	return func(c *clientConfig) {
		if ceiling > 0 {
			c.ceiling = ceiling
		}
	}
}

// WithCacheSize sets the recommendation result cache capacity. Zero disables
// caching.
func WithCacheSize(n int) Option {
	return func(c *clientConfig) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}

// WithWeights replaces the default scoring weights. The weights must sum to
// 1.0; Open fails otherwise.
func WithWeights(w rank.Weights) Option {
	return func(c *clientConfig) { c.weights = w }
}
