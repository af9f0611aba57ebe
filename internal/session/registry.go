package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Registry owns one Store per client session id.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	now     func() time.Time
}

// NewRegistry returns a registry whose stores are evicted after ttl without access.
// A non-positive ttl disables eviction.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:     ttl,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the store for id and marks it as used.
func (r *Registry) Get(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.store, true
}

// GetOrCreate returns the store for id, creating a loading store when none exists.
// created is true only for the caller that created it.
func (r *Registry) GetOrCreate(id string) (s *Store, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
		return e.store, false
	}
	s = NewStore()
	r.entries[id] = &entry{store: s, lastSeen: r.now()}
	return s, true
}

// Remove drops the store for id. Holders of that store keep it, but Get no longer returns it.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Len reports how many stores are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts stores idle for longer than the ttl and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration, onSweep func(evicted int)) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n := r.Sweep(now)
			if onSweep != nil && n > 0 {
				onSweep(n)
			}
		}
	}
}
