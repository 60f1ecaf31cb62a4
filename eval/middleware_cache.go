package eval

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"
	"time"
)

// Cache is the interface for caching evaluation results.
type Cache interface {
	Get(key string) (*Response, bool)
	Set(key string, value *Response, ttl time.Duration)
}

// CacheKeyFunc generates a cache key from a request.
type CacheKeyFunc func(req Request) string

// DefaultCacheKey hashes the exact bit patterns of every request field.
func DefaultCacheKey(req Request) string {
	h := sha256.New()
	var buf [8]byte
	put := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		h.Write(buf[:])
	}

	put(math.Float64bits(req.Eta))
	put(uint64(req.Range.Min))
	put(uint64(req.Range.Max))
	if req.SkipG {
		put(1)
	} else {
		put(0)
	}
	put(uint64(len(req.Xs)))
	for _, x := range req.Xs {
		put(math.Float64bits(x))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// WithCache creates middleware that caches successful evaluations.
func WithCache(cache Cache, ttl time.Duration) Middleware {
	return WithCacheCustomKey(cache, ttl, DefaultCacheKey)
}

// WithCacheCustomKey creates caching middleware with a custom key function.
func WithCacheCustomKey(cache Cache, ttl time.Duration, keyFunc CacheKeyFunc) Middleware {
	return func(next EvalFunc) EvalFunc {
		return func(ctx context.Context, req Request) (*Response, error) {
			key := keyFunc(req)

			if cached, ok := cache.Get(key); ok {
				if ec := EvalContextFromContext(ctx); ec != nil && ec.Metadata != nil {
					ec.Metadata["cache_hit"] = true
				}
				return cached, nil
			}

			resp, err := next(ctx, req)
			if err != nil {
				return nil, err
			}

			cache.Set(key, resp, ttl)
			return resp, nil
		}
	}
}

// memoryCache is a simple in-memory cache implementation.
type memoryCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

type cacheItem struct {
	value   *Response
	expires time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() Cache {
	return &memoryCache{
		items: make(map[string]cacheItem),
	}
}

func (c *memoryCache) Get(key string) (*Response, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok || time.Now().After(item.expires) {
		return nil, false
	}
	return item.value, true
}

func (c *memoryCache) Set(key string, value *Response, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:   value,
		expires: time.Now().Add(ttl),
	}
}
