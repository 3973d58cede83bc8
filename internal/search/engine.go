package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brainer3220/law-sub000/internal/query"
	"github.com/brainer3220/law-sub000/internal/store"
)

// Engine turns raw query text into the variant set, fans the variants out
// against the backend, and fuses the per-variant rankings into one page.
//
// All per-query state (token lists, variant set, fusion map) is allocated
// per call, so a single Engine is safe for concurrent use.
type Engine struct {
	backend Backend
	builder *query.Builder
	fusion  *RRFFusion
	cfg     EngineConfig
}

// NewEngine creates a search engine over the given backend and variant
// builder.
func NewEngine(backend Backend, builder *query.Builder, cfg EngineConfig) *Engine {
	if cfg.RRFConstant <= 0 {
		cfg.RRFConstant = DefaultRRFConstant
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	return &Engine{
		backend: backend,
		builder: builder,
		fusion:  NewRRFFusionWithK(cfg.RRFConstant),
		cfg:     cfg,
	}
}

// Search executes one query: normalize, build variants, run each variant
// independently, fuse, paginate. limit and offset must be pre-clamped to
// >= 0 by the caller; a query that normalizes to zero tokens returns an
// empty result, not an error.
//
// A variant that fails or times out is logged and excluded from fusion;
// sibling variants proceed. Only caller cancellation aborts the query, and
// fusion output is all-or-nothing: a cancelled search never returns a
// partial page.
func (e *Engine) Search(ctx context.Context, text string, limit, offset int) ([]*FusedDocument, error) {
	start := time.Now()

	if limit <= 0 {
		return []*FusedDocument{}, nil
	}

	text = strings.TrimSpace(text)
	tokens := query.NormalizeQuery(text)
	if len(tokens) == 0 {
		slog.Debug("search_no_tokens", slog.String("query", text))
		return []*FusedDocument{}, nil
	}

	variants := e.builder.Build(tokens)
	maxCandidates := store.CandidateCap(limit, offset)

	results, failed, err := e.runVariants(ctx, variants, maxCandidates)
	if err != nil {
		return nil, err
	}

	fused := e.fusion.Fuse(results, limit, offset)

	candidates := 0
	for _, vr := range results {
		candidates += len(vr.Candidates)
	}
	slog.Debug("search_complete",
		slog.String("query", text),
		slog.Int("variants", len(variants)),
		slog.Int("failed_variants", failed),
		slog.Int("candidates", candidates),
		slog.Int("results", len(fused)),
		slog.Duration("duration", time.Since(start)))

	return fused, nil
}

// runVariants executes the variants concurrently with bounded parallelism.
// Per-variant errors degrade to an empty candidate list; only context
// cancellation propagates as an error.
func (e *Engine) runVariants(ctx context.Context, variants []query.Variant, maxCandidates int) ([]VariantResult, int, error) {
	results := make([]VariantResult, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, e.cfg.Parallelism)

	var mu sync.Mutex
	failed := 0

	for i, v := range variants {
		i, v := i, v

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			candidates, err := e.backend.SearchVariant(gctx, v, maxCandidates)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					// Caller cancellation, not a variant failure.
					return gctx.Err()
				}
				slog.Warn("variant_failed",
					slog.String("variant", v.Name),
					slog.String("error", err.Error()))
				failed++
				results[i] = VariantResult{Variant: v, Candidates: nil}
				return nil
			}
			results[i] = VariantResult{Variant: v, Candidates: candidates}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Cancelled mid-flight: never fuse a partial result set.
		return nil, 0, err
	}
	return results, failed, nil
}
