package directory

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"yacen/internal/domain"
)

const limiterIdleTTL = 10 * time.Minute

// peerLimiter applies a token bucket per caller key and periodically evicts
// idle entries. A nil limiter allows everything.
type peerLimiter struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex
	byKey map[domain.Ed25519Public]*limiterEntry
	hits  uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newPeerLimiter(rps float64, burst int) *peerLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &peerLimiter{
		limit: rate.Limit(rps),
		burst: burst,
		byKey: make(map[domain.Ed25519Public]*limiterEntry),
	}
}

func (l *peerLimiter) allow(key domain.Ed25519Public, now time.Time) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-limiterIdleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}
	return allowed
}
