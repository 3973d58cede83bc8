// Package store is the SQLite-backed persistence and retrieval layer.
// It executes one query variant at a time against whichever of the two
// ranking strategies the connected database supports: FTS5 BM25 (native)
// or a weighted LIKE relevance expression (fallback).
package store

import (
	"context"
	"time"

	"github.com/brainer3220/law-sub000/internal/query"
)

// Document is one indexable legal document row.
type Document struct {
	ID    string // storage row identifier
	DocID string // stable cross-system document identifier, may be empty
	Title string
	Path  string
	Body  string
}

// Candidate is one backend-returned row for a single variant: an ephemeral,
// per-variant scored match consumed immediately by fusion.
type Candidate struct {
	ID       string
	DocID    string
	Title    string
	Path     string
	Body     string
	Snippet  string
	RawScore float64 // engine relevance, always >= 0
}

// Strategy ranks one query variant against the backend. Exactly one
// strategy is active per connection, chosen at open time and never switched
// mid-query.
type Strategy interface {
	// Name identifies the strategy ("fts5" or "like").
	Name() string

	// Search executes the variant and returns up to maxCandidates rows
	// ordered by descending relevance.
	Search(ctx context.Context, v query.Variant, maxCandidates int) ([]*Candidate, error)
}

// Config tunes the retrieval layer. The fallback weights and title bonus
// are empirically chosen production values, kept configurable rather than
// hardcoded.
type Config struct {
	// QueryTimeout bounds a single variant execution (default: 3s).
	QueryTimeout time.Duration

	// TitleWeight is the fallback per-term weight for title hits.
	// Must stay strictly above BodyWeight.
	TitleWeight float64

	// BodyWeight is the fallback per-term weight for body hits.
	BodyWeight float64

	// TitleBonus is added once when the title matches the whole query text.
	TitleBonus float64

	// ForceFallback skips the FTS5 capability probe and uses the LIKE
	// strategy unconditionally. Used for tests and degraded deployments.
	ForceFallback bool
}

// DefaultConfig returns the production retrieval configuration.
func DefaultConfig() Config {
	return Config{
		QueryTimeout: 3 * time.Second,
		TitleWeight:  2.0,
		BodyWeight:   1.0,
		TitleBonus:   0.1,
	}
}

// CandidateCap returns the per-variant candidate cap for a page request:
// min(100, max(25, 2*(limit+offset))). Both strategies honor it exactly.
func CandidateCap(limit, offset int) int {
	n := 2 * (limit + offset)
	if n < 25 {
		n = 25
	}
	if n > 100 {
		n = 100
	}
	return n
}
