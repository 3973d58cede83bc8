package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainer3220/law-sub000/internal/query"
	"github.com/brainer3220/law-sub000/internal/store"
)

// fakeBackend serves canned candidate lists keyed by variant name and
// records every call it receives.
type fakeBackend struct {
	mu      sync.Mutex
	results map[string][]*store.Candidate
	errs    map[string]error
	calls   []string
	maxSeen int
	block   chan struct{}
}

func (f *fakeBackend) SearchVariant(ctx context.Context, v query.Variant, maxCandidates int) ([]*store.Candidate, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, v.Name)
	f.maxSeen = maxCandidates

	if err, ok := f.errs[v.Name]; ok {
		return nil, err
	}
	return f.results[v.Name], nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testBuilder(t *testing.T) *query.Builder {
	t.Helper()
	expander := query.NewExpander(map[string][]string{
		"근로자":  {"노동자", "피용자"},
		"손해배상": {"배상"},
	})
	return query.NewBuilder(expander, query.MustExtractor(nil), query.DefaultBoosts())
}

func newTestEngine(t *testing.T, backend Backend) *Engine {
	t.Helper()
	return NewEngine(backend, testBuilder(t), DefaultEngineConfig())
}

func TestEngine_Search(t *testing.T) {
	backend := &fakeBackend{
		results: map[string][]*store.Candidate{
			"base":    {{ID: "d1", Title: "근로기준법", RawScore: 3.0}, {ID: "d2", RawScore: 1.0}},
			"title":   {{ID: "d1", Title: "근로기준법", RawScore: 2.0}},
			"synonym": {{ID: "d3", Title: "노동조합법", RawScore: 1.5}},
		},
	}
	engine := newTestEngine(t, backend)

	docs, err := engine.Search(context.Background(), "근로자", 10, 0)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	// d1 ranks first in base and title; its fused score beats the
	// single-variant documents.
	assert.Equal(t, "d1", docs[0].Key)
	assert.InDelta(t, 1.0/61+1.25/61, docs[0].Score, 1e-9)
	assert.Equal(t, "근로기준법", docs[0].Title)

	// "근로자" has synonyms and is a single token, so the variant set is
	// base, title, synonym.
	assert.Equal(t, 3, backend.callCount())
}

func TestEngine_Search_EmptyQuery(t *testing.T) {
	backend := &fakeBackend{}
	engine := newTestEngine(t, backend)

	for _, text := range []string{"", "   ", "...", "—", "/-_"} {
		docs, err := engine.Search(context.Background(), text, 10, 0)
		require.NoError(t, err, "query %q", text)
		assert.Empty(t, docs, "query %q", text)
	}
	assert.Zero(t, backend.callCount(), "no backend calls for token-free queries")
}

func TestEngine_Search_NonPositiveLimit(t *testing.T) {
	backend := &fakeBackend{}
	engine := newTestEngine(t, backend)

	docs, err := engine.Search(context.Background(), "근로자", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Zero(t, backend.callCount())
}

func TestEngine_Search_VariantFailureDegrades(t *testing.T) {
	backend := &fakeBackend{
		results: map[string][]*store.Candidate{
			"base": {{ID: "d1", RawScore: 2.0}},
		},
		errs: map[string]error{
			"title": errors.New("backend exploded"),
		},
	}
	engine := newTestEngine(t, backend)

	docs, err := engine.Search(context.Background(), "손해배상", 10, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].Key)

	// Only the surviving variant contributes components.
	assert.Contains(t, docs[0].ScoreComponents, "base")
	assert.NotContains(t, docs[0].ScoreComponents, "title")
}

func TestEngine_Search_AllVariantsFail(t *testing.T) {
	boom := errors.New("backend exploded")
	backend := &fakeBackend{
		errs: map[string]error{"base": boom, "title": boom, "synonym": boom},
	}
	engine := newTestEngine(t, backend)

	docs, err := engine.Search(context.Background(), "근로자", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestEngine_Search_Cancellation(t *testing.T) {
	backend := &fakeBackend{block: make(chan struct{})}
	engine := newTestEngine(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs, err := engine.Search(ctx, "근로자", 10, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, docs, "cancelled searches never return a partial page")
}

func TestEngine_Search_CandidateCap(t *testing.T) {
	backend := &fakeBackend{
		results: map[string][]*store.Candidate{
			"base": {{ID: "d1", RawScore: 1.0}},
		},
	}
	engine := newTestEngine(t, backend)

	_, err := engine.Search(context.Background(), "손해배상", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, backend.maxSeen, "floor applies for small pages")

	_, err = engine.Search(context.Background(), "손해배상", 40, 5)
	require.NoError(t, err)
	assert.Equal(t, 90, backend.maxSeen)

	_, err = engine.Search(context.Background(), "손해배상", 80, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, backend.maxSeen, "ceiling caps deep pages")
}

func TestNewEngine_ConfigDefaults(t *testing.T) {
	engine := NewEngine(&fakeBackend{}, testBuilder(t), EngineConfig{})
	assert.Equal(t, DefaultRRFConstant, engine.fusion.K)
	assert.Equal(t, 4, engine.cfg.Parallelism)
}

func TestService_ClampsAndDefaults(t *testing.T) {
	backend := &fakeBackend{
		results: map[string][]*store.Candidate{
			"base": {{ID: "d1", RawScore: 1.0}},
		},
	}
	cfg := DefaultEngineConfig()
	cfg.CacheSize = 0
	engine := NewEngine(backend, testBuilder(t), cfg)
	svc, err := NewService(engine)
	require.NoError(t, err)

	// limit <= 0 becomes the default page size; the backend still gets a
	// capped candidate budget derived from it.
	_, err = svc.Search(context.Background(), "손해배상", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, store.CandidateCap(cfg.DefaultLimit, 0), backend.maxSeen)

	// limit above the ceiling is clamped to MaxLimit.
	_, err = svc.Search(context.Background(), "손해배상", 10_000, -5)
	require.NoError(t, err)
	assert.Equal(t, store.CandidateCap(cfg.MaxLimit, 0), backend.maxSeen)
}

func TestService_CacheHit(t *testing.T) {
	backend := &fakeBackend{
		results: map[string][]*store.Candidate{
			"base": {{ID: "d1", RawScore: 1.0}},
		},
	}
	engine := NewEngine(backend, testBuilder(t), DefaultEngineConfig())
	svc, err := NewService(engine)
	require.NoError(t, err)

	first, err := svc.Search(context.Background(), "손해배상", 10, 0)
	require.NoError(t, err)
	callsAfterFirst := backend.callCount()

	second, err := svc.Search(context.Background(), "손해배상", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, backend.callCount(), "second identical search must be served from cache")
	assert.Equal(t, first, second)

	// Different page parameters miss the cache.
	_, err = svc.Search(context.Background(), "손해배상", 10, 5)
	require.NoError(t, err)
	assert.Greater(t, backend.callCount(), callsAfterFirst)
}

func TestService_InvalidateCache(t *testing.T) {
	backend := &fakeBackend{
		results: map[string][]*store.Candidate{
			"base": {{ID: "d1", RawScore: 1.0}},
		},
	}
	engine := NewEngine(backend, testBuilder(t), DefaultEngineConfig())
	svc, err := NewService(engine)
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), "손해배상", 10, 0)
	require.NoError(t, err)
	calls := backend.callCount()

	svc.InvalidateCache()

	_, err = svc.Search(context.Background(), "손해배상", 10, 0)
	require.NoError(t, err)
	assert.Greater(t, backend.callCount(), calls, "invalidation must force a fresh backend search")
}

func TestService_ErrorsNotCached(t *testing.T) {
	backend := &fakeBackend{block: make(chan struct{})}
	engine := NewEngine(backend, testBuilder(t), DefaultEngineConfig())
	svc, err := NewService(engine)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Search(ctx, "손해배상", 10, 0)
	require.Error(t, err)

	close(backend.block)
	docs, err := svc.Search(context.Background(), "손해배상", 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, docs)
}
