package domain

import "errors"

var (
	// ErrBadCatalog signals a malformed catalog: wrong top-level shape, a missing
	// required field, or an invalid field value. Fatal to load, never retried.
	ErrBadCatalog = errors.New("invalid catalog")
	// ErrNotLoaded signals an index operation invoked before the catalog was
	// loaded. Programming error, surfaced as-is.
	ErrNotLoaded = errors.New("catalog not loaded")
	// ErrEmptyQuery signals a blank query string. No partial parse is attempted.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrInvalidTopK signals a result-count hint below 1, rejected before any
	// scoring work begins.
	ErrInvalidTopK = errors.New("top_k must be at least 1")
	// ErrSpotNotFound signals a missing destination id.
	ErrSpotNotFound = errors.New("spot not found")
)
