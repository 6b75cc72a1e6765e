// Package dedupe guards against duplicate import submissions.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen submission IDs so a re-posted import is acknowledged
// instead of processed twice.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID, allowing a retry. Used when a submission
	// was marked seen but failed to enqueue.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of IDs currently tracked.
	Size() int
}

// Option applies a configuration option to the guard.
type Option func(*guard)

// WithMaxSize bounds the number of remembered IDs. Zero or negative means
// unbounded.
func WithMaxSize(n int) Option {
	return func(g *guard) {
		g.maxSize = n
	}
}

// guard implements Deduper with a map plus a FIFO ring for bounded
// eviction: once full, the oldest remembered ID is forgotten first.
type guard struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	head    int
	maxSize int
}

const defaultMaxSize = 50000

// New creates a submission guard.
func New(opts ...Option) Deduper {
	g := &guard{
		maxSize: defaultMaxSize,
		seen:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxSize > 0 {
		g.order = make([]string, 0, g.maxSize)
	}
	return g
}

func (g *guard) SeenAndRecord(_ context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; ok {
		return true
	}

	if g.maxSize > 0 && len(g.seen) >= g.maxSize {
		g.evictOldest()
	}
	g.seen[id] = struct{}{}
	if g.maxSize > 0 {
		g.order = append(g.order, id)
	}
	return false
}

func (g *guard) Unrecord(_ context.Context, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	// The ring keeps a stale entry; evictOldest skips IDs no longer in
	// the map.
	delete(g.seen, id)
}

func (g *guard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

// evictOldest drops remembered IDs in arrival order until one is actually
// removed from the map. Must be called with g.mu held.
func (g *guard) evictOldest() {
	for g.head < len(g.order) {
		id := g.order[g.head]
		g.head++
		if _, ok := g.seen[id]; ok {
			delete(g.seen, id)
			break
		}
	}
	// Compact the ring once the consumed prefix dominates it.
	if g.head > 0 && g.head*2 >= len(g.order) {
		g.order = append(g.order[:0], g.order[g.head:]...)
		g.head = 0
	}
}
