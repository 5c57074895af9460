package dispatch

import (
	"sync"

	"roadassist/internal/domain"
)

// Pool is the ordered collection of unclaimed service requests offered to
// mechanics. New requests go to the front; a request taken by anyone is
// removed unconditionally, even if a local accept attempt for it is still in
// flight. The outcome of that attempt must never re-add the entry.
type Pool struct {
	mu       sync.RWMutex
	requests []domain.ServiceRequest
	removed  map[int64]bool
}

func NewPool() *Pool {
	return &Pool{removed: make(map[int64]bool)}
}

// Reset replaces the pool contents wholesale, preserving input order.
// Used after a refetch; last write wins. Ids removed by push events stay
// removed: a refetch that raced the removal must not resurrect them.
func (p *Pool) Reset(requests []domain.ServiceRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = p.requests[:0]
	for _, r := range requests {
		if p.removed[r.ID] {
			continue
		}
		p.requests = append(p.requests, r)
	}
}

// Prepend puts a freshly announced request at the front of the pool.
// Duplicate announcements of an id already present are dropped.
func (p *Pool) Prepend(r domain.ServiceRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.removed[r.ID] {
		return
	}
	for i := range p.requests {
		if p.requests[i].ID == r.ID {
			return
		}
	}
	p.requests = append([]domain.ServiceRequest{r}, p.requests...)
}

// Remove drops a request id from the pool and remembers it as taken so no
// later Prepend or Reset brings it back.
func (p *Pool) Remove(requestID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.removed[requestID] = true
	for i := range p.requests {
		if p.requests[i].ID == requestID {
			p.requests = append(p.requests[:i], p.requests[i+1:]...)
			return
		}
	}
}

// Snapshot returns a copy of the current pool in offer order.
func (p *Pool) Snapshot() []domain.ServiceRequest {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]domain.ServiceRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// Len reports how many requests are currently offered.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.requests)
}

// Contains reports whether the id is still offered.
func (p *Pool) Contains(requestID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i := range p.requests {
		if p.requests[i].ID == requestID {
			return true
		}
	}
	return false
}
