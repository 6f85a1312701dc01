package http

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"loan-engine/store"
)

const (
	bucketCleanupThreshold = 1 * time.Hour
	cleanupInterval        = 30 * time.Minute
)

// Limiter decides whether a client identified by key may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type clientBucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter is an in-process token bucket per client. Buckets refill
// completely once refillDur has passed since the last refill.
type RateLimiter struct {
	mu          sync.Mutex
	capacity    int
	refillDur   time.Duration
	clients     map[string]*clientBucket
	stopCleanup chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

func NewRateLimiter(capacity int, refillDur time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity:    capacity,
		refillDur:   refillDur,
		clients:     make(map[string]*clientBucket),
		stopCleanup: make(chan struct{}),
		now:         time.Now,
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, bucket := range r.clients {
		if now.Sub(bucket.lastRefill) > bucketCleanupThreshold {
			delete(r.clients, key)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

func (r *RateLimiter) Allow(_ context.Context, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, exists := r.clients[key]

	if !exists {
		r.clients[key] = &clientBucket{
			tokens:     r.capacity - 1,
			lastRefill: now,
		}
		return true
	}

	if now.Sub(bucket.lastRefill) >= r.refillDur {
		bucket.tokens = r.capacity
		bucket.lastRefill = now
	}

	if bucket.tokens <= 0 {
		return false
	}

	bucket.tokens--
	return true
}

// WindowLimiter allows capacity requests per window using a shared counter,
// so several server instances can enforce one limit through Redis.
type WindowLimiter struct {
	counter  store.Counter
	capacity int
	window   time.Duration
	logger   *zap.Logger
}

func NewWindowLimiter(counter store.Counter, capacity int, window time.Duration, logger *zap.Logger) *WindowLimiter {
	return &WindowLimiter{
		counter:  counter,
		capacity: capacity,
		window:   window,
		logger:   logger,
	}
}

// Allow fails open: if the counter is unreachable the request goes through.
func (l *WindowLimiter) Allow(ctx context.Context, key string) bool {
	n, err := l.counter.Incr(ctx, "ratelimit:"+key, l.window)
	if err != nil {
		l.logger.Warn("rate limit counter unavailable", zap.String("key", key), zap.Error(err))
		return true
	}
	return n <= int64(l.capacity)
}
