package repositories

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/propgate/propgate/internal/core/ports"
)

const (
	sweepInterval = 5 * time.Minute
	staleAfter    = 10 * time.Minute
)

// MemoryRateLimitStore keeps an ordered timestamp list per key. It is
// correct for a single process only; horizontally scaled deployments must
// use the Redis store so the limit holds across instances.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	stop    chan struct{}
	now     func() time.Time
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	s := &MemoryRateLimitStore{
		entries: make(map[string][]time.Time),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go s.sweep()
	return s
}

// Check prunes timestamps outside the window, then either rejects with the
// time until the oldest retained timestamp exits the window, or records the
// request and reports the remaining capacity.
func (s *MemoryRateLimitStore) Check(_ context.Context, key string, limit int, window time.Duration) (ports.RateLimitResult, error) {
	now := s.now()
	cutoff := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[key][:0]
	for _, ts := range s.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		s.entries[key] = kept
		reset := kept[0].Add(window).Sub(now)
		return ports.RateLimitResult{
			Allowed:      false,
			Remaining:    0,
			Limit:        limit,
			ResetSeconds: int(math.Ceil(reset.Seconds())),
		}, nil
	}

	s.entries[key] = append(kept, now)
	return ports.RateLimitResult{
		Allowed:   true,
		Remaining: limit - len(s.entries[key]),
		Limit:     limit,
	}, nil
}

// Close stops the background sweeper.
func (s *MemoryRateLimitStore) Close() {
	close(s.stop)
}

func (s *MemoryRateLimitStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.dropStale()
		}
	}
}

// dropStale removes keys whose entries are all older than staleAfter,
// bounding memory growth for one-off clients.
func (s *MemoryRateLimitStore) dropStale() {
	cutoff := s.now().Add(-staleAfter)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timestamps := range s.entries {
		stale := true
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(s.entries, key)
		}
	}
}
