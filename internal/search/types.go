// Package search orchestrates variant fan-out against the retrieval layer
// and merges the per-variant rankings with Reciprocal Rank Fusion (RRF)
// into one deterministic, paginated result.
package search

import (
	"context"

	"github.com/brainer3220/law-sub000/internal/query"
	"github.com/brainer3220/law-sub000/internal/store"
)

// Backend executes a single query variant and returns ranked candidates.
// *store.Store satisfies this; tests substitute fakes.
type Backend interface {
	SearchVariant(ctx context.Context, v query.Variant, maxCandidates int) ([]*store.Candidate, error)
}

// VariantResult pairs one executed variant with its ranked candidate list
// (ordered by the backend's raw score, best first).
type VariantResult struct {
	Variant    query.Variant
	Candidates []*store.Candidate
}

// FusedDocument is the cross-variant merged, final ranked result record.
// It exists only for the lifetime of one search response.
type FusedDocument struct {
	// Key is the fusion key: the candidate's doc_id when non-empty,
	// otherwise its raw row id.
	Key string `json:"key"`

	Title   string `json:"title"`
	Path    string `json:"path"`
	Body    string `json:"body"`
	Snippet string `json:"snippet"`

	// Score is the summed, boost-weighted RRF score.
	Score float64 `json:"score"`

	// ScoreComponents breaks Score down per contributing variant. Keys
	// prefixed "raw:" carry the first backend raw score per variant for
	// observability and are never summed into Score.
	ScoreComponents map[string]float64 `json:"score_components"`
}

// EngineConfig configures the search engine.
type EngineConfig struct {
	// RRFConstant is the RRF smoothing parameter k (default: 60).
	RRFConstant int

	// Parallelism caps concurrent per-variant backend calls (default: 4).
	Parallelism int

	// DefaultLimit is used when callers pass limit 0 through the service
	// wrapper (default: 10).
	DefaultLimit int

	// MaxLimit is the hard page-size ceiling (default: 100).
	MaxLimit int

	// CacheSize is the service-level fused result cache capacity
	// (default: 256, 0 disables caching).
	CacheSize int
}

// DefaultEngineConfig returns the production engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		RRFConstant:  DefaultRRFConstant,
		Parallelism:  4,
		DefaultLimit: 10,
		MaxLimit:     100,
		CacheSize:    256,
	}
}
