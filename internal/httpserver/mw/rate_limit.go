package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/utils"
)

type RateLimitConfig struct {
	Burst             int           // bucket capacity per client IP
	RefillPerIPPerMin int           // tokens regained per minute
	MaxEntries        int           // forces an eviction pass when reached, 0 = unbounded
	IdleTTL           time.Duration // buckets unused this long are evicted
	TrustProxy        bool          // resolve the client IP from proxy headers
	Now               func() time.Time
}

type tokenBucket struct {
	tokens float64
	last   time.Time
}

// ipLimiter keeps one token bucket per client key. A single mutex is enough:
// the critical section is a few float operations.
type ipLimiter struct {
	mu        sync.Mutex
	cfg       RateLimitConfig
	perMinute float64
	buckets   map[string]*tokenBucket
	nextSweep time.Time
}

func newIPLimiter(cfg RateLimitConfig) *ipLimiter {
	cfg.Burst = max(cfg.Burst, 1)
	cfg.RefillPerIPPerMin = max(cfg.RefillPerIPPerMin, 1)
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ipLimiter{
		cfg:       cfg,
		perMinute: float64(cfg.RefillPerIPPerMin),
		buckets:   make(map[string]*tokenBucket),
	}
}

// take consumes one token for key. When none is left it returns the number
// of whole seconds until one is available.
func (l *ipLimiter) take(key string) (remaining int, retryAfter int, ok bool) {
	now := l.cfg.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	full := l.cfg.MaxEntries > 0 && len(l.buckets) >= l.cfg.MaxEntries
	if full || now.After(l.nextSweep) {
		l.evictIdle(now)
	}

	b, found := l.buckets[key]
	if !found {
		b = &tokenBucket{tokens: float64(l.cfg.Burst), last: now}
		l.buckets[key] = b
	}
	if dt := now.Sub(b.last).Seconds(); dt > 0 {
		b.tokens = math.Min(float64(l.cfg.Burst), b.tokens+dt*l.perMinute/60)
	}
	b.last = now

	if b.tokens < 1 {
		wait := math.Ceil((1 - b.tokens) * 60 / l.perMinute)
		return 0, max(int(wait), 1), false
	}
	b.tokens--
	return int(b.tokens), 0, true
}

func (l *ipLimiter) evictIdle(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.last) > l.cfg.IdleTTL {
			delete(l.buckets, k)
		}
	}
	l.nextSweep = now.Add(time.Minute)
}

// RateLimit is a per-client-IP token bucket, used in front of the
// recommendation endpoint which costs a paid completion per call.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newIPLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, retryAfter, ok := l.take(utils.ClientIP(r, l.cfg.TrustProxy))

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				reject(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
