package mw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// CachedResponse is a captured GET response.
type CachedResponse struct {
	Status  int         `json:"status"`
	Headers http.Header `json:"headers"`
	Body    []byte      `json:"body"`
}

// ResponseCache stores captured responses by request URI. Flush bumps the
// generation so responses rendered before it can never be served again.
type ResponseCache interface {
	Get(ctx context.Context, key string) (CachedResponse, bool, error)
	Set(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) error
	Flush(ctx context.Context) error
	Generation(ctx context.Context) (int64, error)
}

// MemoryCache keeps responses in process memory.
type MemoryCache struct {
	store      *cache.Cache
	generation atomic.Int64
}

func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: cache.New(defaultExpiration, cleanupInterval)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (CachedResponse, bool, error) {
	v, found := m.store.Get(key)
	if !found {
		return CachedResponse{}, false, nil
	}
	return v.(CachedResponse), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, resp CachedResponse, ttl time.Duration) error {
	m.store.Set(key, resp, ttl)
	return nil
}

func (m *MemoryCache) Flush(_ context.Context) error {
	m.generation.Add(1)
	m.store.Flush()
	return nil
}

func (m *MemoryCache) Generation(_ context.Context) (int64, error) {
	return m.generation.Load(), nil
}

// RedisCache shares responses between replicas through Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) Get(ctx context.Context, key string) (CachedResponse, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedResponse{}, false, nil
	}
	if err != nil {
		return CachedResponse{}, false, err
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return CachedResponse{}, false, err
	}
	return resp, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, raw, ttl).Err()
}

func (r *RedisCache) generationKey() string {
	return r.prefix + "generation"
}

func (r *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Flush bumps the generation and deletes every response under the cache
// prefix. The generation counter itself survives.
func (r *RedisCache) Flush(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.generationKey()).Err(); err != nil {
		return err
	}

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		if iter.Val() == r.generationKey() {
			continue
		}
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache is a middleware for caching GET responses. Keys carry the cache
// generation read before the handler runs, so a response rendered across a
// Flush is stored under a generation nobody reads anymore. Cache backend
// failures are logged and the request is served uncached.
func Cache(store ResponseCache, duration time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		gen, err := store.Generation(ctx)
		if err != nil {
			log.Warn("response cache generation lookup failed", zap.Error(err))
			c.Next()
			return
		}

		key := fmt.Sprintf("%d:%s", gen, c.Request.URL.RequestURI())
		cached, found, err := store.Get(ctx, key)
		if err != nil {
			log.Warn("response cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		if found {
			for k, v := range cached.Headers {
				if k == RequestIDHeader {
					continue
				}
				c.Writer.Header()[k] = v
			}
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(cached.Status)
			c.Writer.Write(cached.Body)
			c.Abort()
			return
		}

		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only cache successful responses
		if blw.Status() >= 200 && blw.Status() < 300 {
			response := CachedResponse{
				Status:  blw.Status(),
				Headers: blw.Header().Clone(),
				Body:    blw.body.Bytes(),
			}
			if err := store.Set(ctx, key, response, duration); err != nil {
				log.Warn("response cache store failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
