package service

import (
	"sync"
	"time"
)

const (
	sweepInterval = 5 * time.Minute
	idleAfter     = 10 * time.Minute
)

// AttemptLimiter throttles authentication attempts per client key with a token
// bucket. It is safe for concurrent use and must be closed to stop its sweeper.
type AttemptLimiter struct {
	mu      sync.Mutex
	buckets map[string]*attempts
	rate    float64 // attempts regained per second
	burst   float64
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

type attempts struct {
	left float64
	seen time.Time
}

// NewAttemptLimiter allows burst attempts per key, regaining perMinute
// attempts every minute.
func NewAttemptLimiter(perMinute, burst int) *AttemptLimiter {
	l := &AttemptLimiter{
		buckets: make(map[string]*attempts),
		rate:    float64(perMinute) / 60,
		burst:   float64(burst),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Allow consumes one attempt for key and reports whether it was available.
func (l *AttemptLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &attempts{left: l.burst, seen: now}
		l.buckets[key] = b
	}

	b.left = min(b.left+now.Sub(b.seen).Seconds()*l.rate, l.burst)
	b.seen = now

	if b.left < 1 {
		return false
	}
	b.left--
	return true
}

// Close stops the background sweeper.
func (l *AttemptLimiter) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *AttemptLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.sweep(l.now().Add(-idleAfter))
		}
	}
}

// sweep forgets keys idle since before cutoff.
func (l *AttemptLimiter) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.seen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
