package middleware

import (
	"context"  // Context for limiter calls
	"net/http" // HTTP status codes
	"strconv"  // Header values
	"sync"     // Guards the bucket map
	"time"     // Windows and clocks

	"game_store/internal/metrics" // Prometheus collectors

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/time/rate"       // Token buckets
)

// Rate-limit policy names.
const (
	PolicyLogin = "login"
	PolicyAPI   = "api"
)

// Limiter decides whether one more request from key fits the policy.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Limit() int
}

// NewLimiter returns a Redis fixed-window limiter when rdb is set and an
// in-process token bucket otherwise.
func NewLimiter(rdb *redis.Client, policy string, perMinute int) Limiter {
	if rdb != nil {
		return &RedisLimiter{rdb: rdb, prefix: "ratelimit:" + policy + ":", limit: perMinute, window: time.Minute}
	}
	return NewLocalLimiter(perMinute, time.Minute)
}

// RedisLimiter counts requests per key in fixed windows shared by every
// server instance.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func (l *RedisLimiter) Limit() int { return l.limit }

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key // Redis key for this client
	var incr *redis.IntCmd
	// The window starts with its expiry attached, so a counter can never outlive it
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, l.window)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.limit), nil
}

// LocalLimiter keeps one token bucket per key in memory.
type LocalLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	overflow *rate.Limiter // Shared by keys that arrive while the map is full
	every    rate.Limit
	limit    int
	window   time.Duration
	now      func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// maxBuckets bounds memory. Buckets idle for a whole window are dropped to
// make room; tracked clients are never forgotten while still active.
const maxBuckets = 10000

// NewLocalLimiter allows limit requests per window with a full burst.
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	every := rate.Every(window / time.Duration(limit))
	return &LocalLimiter{
		buckets:  make(map[string]*bucket),
		overflow: rate.NewLimiter(every, limit),
		every:    every,
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (l *LocalLimiter) Limit() int { return l.limit }

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now() // Injectable clock
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxBuckets {
			l.dropIdle(now)
		}
		if len(l.buckets) >= maxBuckets {
			return l.overflow.AllowN(now, 1), nil
		}
		b = &bucket{limiter: rate.NewLimiter(l.every, l.limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// dropIdle forgets buckets unused for a full window; they have refilled
// completely, so their clients lose nothing.
func (l *LocalLimiter) dropIdle(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.window {
			delete(l.buckets, k)
		}
	}
}

// RateLimit rejects requests over the policy with 429. Authenticated
// callers are keyed by user id, everyone else by client IP. Limiter
// failures let the request through.
func RateLimit(l Limiter, policy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() // Anonymous callers are keyed by IP
		if id, ok := UserID(c); ok {
			key = "user:" + id.String()
		}
		allowed, err := l.Allow(c.Request.Context(), key) // Count this request
		if err != nil {
			logrus.WithFields(logrus.Fields{"policy": policy, "error": err.Error()}).Warn("Rate limiter unavailable")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Limit())) // Advertise the policy
		if !allowed {
			metrics.RecordRateLimited(policy)
			logrus.WithFields(logrus.Fields{"policy": policy, "key": key, "path": c.FullPath()}).Warn("Rate limit exceeded")
			abort(c, http.StatusTooManyRequests, "มีการเรียกใช้งานมากเกินไป กรุณาลองใหม่ภายหลัง")
			return
		}
		c.Next()
	}
}
