package domain

// Result is one ranked candidate: the spot, its total relevance score, and an
// optional per-factor breakdown when explanation was requested.
type Result struct {
	SpotID    int
	Score     float64
	Spot      Spot
	Breakdown Breakdown
}

// Factor is a single scoring component with its weighted contribution and a
// human-readable justification. Used for diagnostics only, never for ranking.
type Factor struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Breakdown maps factor name to its contribution for one spot and one query.
type Breakdown map[string]Factor
