package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/metrics"
	"github.com/sony/gobreaker"
)

// DefaultTTL applies to every content entry. Hits do not extend it.
const DefaultTTL = 600 * time.Second

// Producer computes a value on a cache miss. The value must be JSON-serializable.
type Producer func(ctx context.Context) (any, error)

type Options struct {
	TTL     time.Duration
	Breaker BreakerOptions
}

// Gateway memoizes producers behind a Store. It is safe for concurrent use;
// concurrent misses on the same key each run the producer (last write wins).
type Gateway struct {
	store   Store
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
	log     logger.Logger
}

// NewGateway wires a Gateway. A nil store disables caching entirely.
func NewGateway(store Store, opts Options, log logger.Logger) *Gateway {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Breaker.Name == "" {
		opts.Breaker = DefaultBreakerOptions()
	}
	log = log.Named("cache")
	return &Gateway{
		store:   store,
		ttl:     opts.TTL,
		breaker: newBreaker(opts.Breaker, log),
		log:     log,
	}
}

// TTL reports the fixed time-to-live applied to new entries.
func (g *Gateway) TTL() time.Duration { return g.ttl }

// Enabled reports whether a store is attached.
func (g *Gateway) Enabled() bool { return g.store != nil }

// BreakerState is "closed", "half-open" or "open".
func (g *Gateway) BreakerState() string { return g.breaker.State().String() }

// Fetch returns the cached JSON for key, or runs produce, caches and returns it.
// Producer errors propagate unchanged and nothing is cached for them.
func (g *Gateway) Fetch(ctx context.Context, key string, produce Producer) (json.RawMessage, error) {
	if data, ok := g.lookup(ctx, key); ok {
		if json.Valid(data) {
			return json.RawMessage(data), nil
		}
		g.log.Warn("discarding undecodable cache entry", logger.String("key", key))
	}
	return g.produceAndStore(ctx, key, produce)
}

// Refresh always runs produce and overwrites the entry. Used by the warmer.
func (g *Gateway) Refresh(ctx context.Context, key string, produce Producer) (json.RawMessage, error) {
	return g.produceAndStore(ctx, key, produce)
}

// Cached is the typed form of Fetch: hits are decoded into T, and an entry
// that does not decode into T is treated as a miss.
func Cached[T any](ctx context.Context, g *Gateway, key string, produce func(ctx context.Context) (T, error)) (T, error) {
	if data, ok := g.lookup(ctx, key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		g.log.Warn("discarding undecodable cache entry", logger.String("key", key))
	}

	v, err := produce(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if data, err := json.Marshal(v); err == nil {
		g.save(ctx, key, data)
	} else {
		g.log.Warn("cannot serialize value for cache", logger.String("key", key), logger.Error(err))
	}
	return v, nil
}

func (g *Gateway) produceAndStore(ctx context.Context, key string, produce Producer) (json.RawMessage, error) {
	v, err := produce(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cache: serialize %s: %w", key, err)
	}
	g.save(ctx, key, data)
	return json.RawMessage(data), nil
}

// lookup never fails: store errors and an open breaker both read as a miss.
func (g *Gateway) lookup(ctx context.Context, key string) ([]byte, bool) {
	kind := kindOf(key)
	if g.store == nil {
		metrics.CacheLookups.WithLabelValues(kind, "bypass").Inc()
		return nil, false
	}

	type result struct {
		data []byte
		ok   bool
	}
	res, err := g.breaker.Execute(func() (any, error) {
		data, ok, err := g.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return result{data: data, ok: ok}, nil
	})

	switch {
	case isBreakerRejection(err):
		metrics.CacheLookups.WithLabelValues(kind, "bypass").Inc()
		return nil, false
	case err != nil:
		metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
		g.log.Warn("cache lookup failed, falling back to producer",
			logger.String("key", key), logger.Error(err))
		return nil, false
	}

	r := res.(result)
	if !r.ok {
		metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
	return r.data, true
}

// save never fails either; the produced value is returned uncached.
func (g *Gateway) save(ctx context.Context, key string, data []byte) {
	if g.store == nil {
		return
	}
	kind := kindOf(key)
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.store.Set(ctx, key, data, g.ttl)
	})
	if err != nil {
		metrics.CacheWrites.WithLabelValues(kind, "error").Inc()
		if !isBreakerRejection(err) {
			g.log.Warn("cache write failed, serving uncached value",
				logger.String("key", key), logger.Error(err))
		}
		return
	}
	metrics.CacheWrites.WithLabelValues(kind, "ok").Inc()
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
