// Package observability lets the application observe library events without
// the libraries importing a logging or metrics backend.
//
// Three hook families exist: [DocumentHooks] for canvas import and export,
// [CacheHooks] for the metadata and render caches, and [HTTPHooks] for
// outgoing link-preview requests. Each starts as a no-op. The command line
// installs log-backed hooks at startup when run with -v:
//
//	observability.SetDocumentHooks(myHooks)
//
// Libraries emit through the getters:
//
//	observability.Document().OnImport(ctx, nodes, edges, warnings, took, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// DocumentHooks receives events from the canvas serializer.
type DocumentHooks interface {
	// OnImport reports a deserialization. warnings counts the integrity
	// issues that were repaired.
	OnImport(ctx context.Context, nodeCount, edgeCount, warnings int, duration time.Duration, err error)
	OnExport(ctx context.Context, nodeCount, edgeCount, size int, duration time.Duration, err error)
}

// CacheHooks receives events from the metadata and render caches. keyType
// names the tier, for example "memory" or "store".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
	// OnCacheEvict reports a capacity eviction, not an explicit delete.
	OnCacheEvict(ctx context.Context, keyType string)
}

// HTTPHooks receives events from the outbound HTTP client.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError reports a transport failure. Non-2xx answers go to OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopDocumentHooks ignores every event.
type NoopDocumentHooks struct{}

func (NoopDocumentHooks) OnImport(context.Context, int, int, int, time.Duration, error) {}
func (NoopDocumentHooks) OnExport(context.Context, int, int, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}
func (NoopCacheHooks) OnCacheEvict(context.Context, string)    {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// slot holds one registered hook set.
type slot[T any] struct {
	mu  sync.RWMutex
	cur T
	def T
}

func newSlot[T any](def T) *slot[T] { return &slot[T]{cur: def, def: def} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) set(h T, ok bool) {
	if !ok {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.def
	s.mu.Unlock()
}

var (
	documentSlot = newSlot[DocumentHooks](NoopDocumentHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetDocumentHooks registers document hooks. A nil h is ignored.
func SetDocumentHooks(h DocumentHooks) { documentSlot.set(h, h != nil) }

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h, h != nil) }

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h, h != nil) }

// Document returns the registered document hooks.
func Document() DocumentHooks { return documentSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores the no-op hooks. Tests that install hooks call it in cleanup.
func Reset() {
	documentSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
