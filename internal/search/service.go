package search

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Service is the caller-facing wrapper around the engine: it clamps page
// parameters, applies defaults, and memoizes fused pages in a bounded LRU
// cache. Cached pages are shared read-only slices; callers must not mutate
// returned documents.
type Service struct {
	engine *Engine
	cache  *lru.Cache[string, []*FusedDocument]
	cfg    EngineConfig
}

// NewService wraps an engine with parameter clamping and result caching.
func NewService(engine *Engine) (*Service, error) {
	cfg := engine.cfg

	var cache *lru.Cache[string, []*FusedDocument]
	if cfg.CacheSize > 0 {
		var err error
		cache, err = lru.New[string, []*FusedDocument](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
	}

	return &Service{engine: engine, cache: cache, cfg: cfg}, nil
}

// Search clamps limit and offset, applies the default page size, and serves
// from cache when possible.
func (s *Service) Search(ctx context.Context, text string, limit, offset int) ([]*FusedDocument, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	key := fmt.Sprintf("%s|%d|%d", text, limit, offset)
	if s.cache != nil {
		if docs, ok := s.cache.Get(key); ok {
			slog.Debug("search_cache_hit", slog.String("query", text))
			return docs, nil
		}
	}

	docs, err := s.engine.Search(ctx, text, limit, offset)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Add(key, docs)
	}
	return docs, nil
}

// InvalidateCache drops all cached pages. The cache is per-process, so CLI
// invocations never see stale pages across runs; embedders that index and
// search in one process call this after loading documents.
func (s *Service) InvalidateCache() {
	if s.cache != nil {
		s.cache.Purge()
	}
}
