package blogster

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned when an action on the same key is repeated too
// often.
var ErrRateLimited = errors.New("too many attempts, try again shortly")

// ActionLimiter rate-limits repeated actions per key, such as publishing the
// same post.
type ActionLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
}

// NewActionLimiter creates an ActionLimiter that allows max actions per key
// per window.
func NewActionLimiter(max int, window time.Duration) *ActionLimiter {
	return &ActionLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
	}
}

// Allow reports whether key is under the limit and, if so, records the
// attempt. Expired entries for every key are dropped on the way.
func (l *ActionLimiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, hits := range l.attempts {
		kept := hits[:0]
		for _, t := range hits {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(l.attempts, k)
		} else {
			l.attempts[k] = kept
		}
	}

	if len(l.attempts[key]) >= l.max {
		return false
	}
	l.attempts[key] = append(l.attempts[key], now)
	return true
}

// Reset forgets all attempts for key.
func (l *ActionLimiter) Reset(key string) {
	l.mu.Lock()
	delete(l.attempts, key)
	l.mu.Unlock()
}
