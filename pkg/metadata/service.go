package metadata

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/moodboard/pkg/cache"
	"github.com/matzehuels/moodboard/pkg/errors"
	"github.com/matzehuels/moodboard/pkg/observability"
)

// DefaultStoreTTL is how long fetched previews live in the persistent tier.
const DefaultStoreTTL = 24 * time.Hour

// DefaultFetchTimeout bounds a shared fetch, which outlives the caller that
// started it.
const DefaultFetchTimeout = 30 * time.Second

// Cache hook key types.
const (
	keyTypeMemory = "metadata"
	keyTypeStore  = "metadata_store"
)

// Service resolves link previews. Lookups go through an in-memory LRU, then
// an optional persistent [cache.Cache], then the [Fetcher]. Concurrent
// lookups of the same URL share one fetch. The shared fetch is not tied to
// any caller's context: a caller that gives up gets the fallback at once
// while the others keep waiting for the page.
//
// A failed fetch yields the [Fallback] record, which is cached in memory so
// that a broken link is not refetched on every render. Fallbacks are never
// written to the persistent tier.
type Service struct {
	fetcher Fetcher
	logger  *log.Logger

	mu  sync.Mutex
	lru *LRU[string, OpenGraph]

	store    cache.Cache
	storeTTL time.Duration
	keyer    cache.Keyer

	group        singleflight.Group
	fetchTimeout time.Duration
}

// Option configures a [Service].
type Option func(*Service)

// WithCapacity sets the in-memory entry limit.
func WithCapacity(n int) Option {
	return func(s *Service) { s.lru = NewLRU(n, s.evicted) }
}

// WithStore adds a persistent tier. A ttl of zero uses [DefaultStoreTTL].
func WithStore(store cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		if ttl == 0 {
			ttl = DefaultStoreTTL
		}
		s.store, s.storeTTL = store, ttl
	}
}

// WithKeyer sets the key builder for the persistent tier.
func WithKeyer(k cache.Keyer) Option {
	return func(s *Service) { s.keyer = k }
}

// WithFetchTimeout bounds each shared fetch. Zero keeps
// [DefaultFetchTimeout].
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithLogger sets the logger for fetch failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService returns a service backed by f. A nil f fetches through the
// default proxy.
func NewService(f Fetcher, opts ...Option) *Service {
	if f == nil {
		f = NewProxyFetcher("", nil)
	}
	s := &Service{
		fetcher:      f,
		keyer:        cache.NewDefaultKeyer(),
		logger:       log.New(io.Discard),
		fetchTimeout: DefaultFetchTimeout,
	}
	s.lru = NewLRU(DefaultCapacity, s.evicted)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) evicted(string, OpenGraph) {
	observability.Cache().OnCacheEvict(context.Background(), keyTypeMemory)
}

// Fetch returns the preview for pageURL. It never returns nil: when the
// page cannot be fetched, or ctx ends first, the fallback record is
// returned instead. A fallback produced by a cancelled or timed out fetch
// is not cached.
func (s *Service) Fetch(ctx context.Context, pageURL string) *OpenGraph {
	hooks := observability.Cache()

	if og, ok := s.cached(pageURL); ok {
		hooks.OnCacheHit(ctx, keyTypeMemory)
		return &og
	}
	hooks.OnCacheMiss(ctx, keyTypeMemory)
	if ctx.Err() != nil {
		og := Fallback(pageURL)
		return &og
	}

	ch := s.group.DoChan(pageURL, func() (any, error) {
		// A fetch for this URL may have finished since the lookup above.
		if og, ok := s.cached(pageURL); ok {
			return og, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		og, cacheable := s.resolve(fetchCtx, pageURL)
		if cacheable {
			s.mu.Lock()
			s.lru.Add(pageURL, og)
			s.mu.Unlock()
		}
		return og, nil
	})

	select {
	case res := <-ch:
		og := res.Val.(OpenGraph)
		return &og
	case <-ctx.Done():
		og := Fallback(pageURL)
		return &og
	}
}

func (s *Service) cached(pageURL string) (OpenGraph, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Get(pageURL)
}

// resolve consults the persistent tier and then the fetcher. It reports
// whether the result may be kept in memory.
func (s *Service) resolve(ctx context.Context, pageURL string) (OpenGraph, bool) {
	if og, ok := s.load(ctx, pageURL); ok {
		return og, true
	}

	if err := errors.ValidateURL(pageURL); err != nil {
		s.logger.Debug("link preview skipped", "url", pageURL, "err", err)
		return Fallback(pageURL), true
	}

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return Fallback(pageURL), false
		}
		s.logger.Warn("link preview failed", "url", pageURL, "err", err)
		return Fallback(pageURL), true
	}

	og := Parse(html)
	if og.URL == "" {
		og.URL = pageURL
	}
	if og.Title == "" {
		og.Title = Fallback(pageURL).Title
	}
	s.save(ctx, pageURL, og)
	return og, true
}

func (s *Service) load(ctx context.Context, pageURL string) (OpenGraph, bool) {
	if s.store == nil {
		return OpenGraph{}, false
	}
	hooks := observability.Cache()
	data, ok, err := s.store.Get(ctx, s.keyer.MetadataKey(pageURL))
	if err != nil {
		s.logger.Debug("metadata store read failed", "err", err)
		return OpenGraph{}, false
	}
	var og OpenGraph
	if !ok || json.Unmarshal(data, &og) != nil {
		hooks.OnCacheMiss(ctx, keyTypeStore)
		return OpenGraph{}, false
	}
	hooks.OnCacheHit(ctx, keyTypeStore)
	return og, true
}

func (s *Service) save(ctx context.Context, pageURL string, og OpenGraph) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(og)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, s.keyer.MetadataKey(pageURL), data, s.storeTTL); err != nil {
		s.logger.Debug("metadata store write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeStore, len(data))
}

// Cached returns the in-memory entry for pageURL without refreshing it.
func (s *Service) Cached(pageURL string) (OpenGraph, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Peek(pageURL)
}

// Len returns the number of in-memory entries.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Clear empties the in-memory tier. The persistent tier is left alone.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Clear()
}
