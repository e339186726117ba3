package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Contabilizar/estoque/internal/apierror"
	"github.com/Contabilizar/estoque/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) Decision
}

// ── In-memory limiter ─────────────────────────────────────────────────────────

type windowEntry struct {
	count     int
	windowEnd time.Time
}

const purgeInterval = 5 * time.Minute

type memoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*windowEntry
	limit     int
	window    time.Duration
	lastPurge time.Time
	now       func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) Limiter {
	return newMemoryLimiter(limit, window)
}

func newMemoryLimiter(limit int, window time.Duration) *memoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryLimiter{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) >= purgeInterval {
		l.purge(now)
	}

	entry, ok := l.entries[key]
	if !ok || now.After(entry.windowEnd) {
		entry = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = entry
	}
	entry.count++

	remaining := l.limit - entry.count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: entry.count <= l.limit, Remaining: remaining, ResetAt: entry.windowEnd}
}

// purge drops expired windows so IPs that never return do not accumulate (must hold mu).
func (l *memoryLimiter) purge(now time.Time) {
	purged := 0
	for key, entry := range l.entries {
		if now.After(entry.windowEnd) {
			delete(l.entries, key)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter entries purged")
	}
}

// ── Redis limiter ─────────────────────────────────────────────────────────────
// Shared across replicas. Falls back to the in-memory limiter when Redis errors
// or the breaker is open.

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

type redisLimiter struct {
	rdb      *redis.Client
	cb       *infra.CircuitBreaker
	prefix   string
	limit    int
	window   time.Duration
	fallback *memoryLimiter
}

// NewLimiter returns a Redis-backed limiter, or an in-memory one when rdb is nil.
// cb may be nil.
func NewLimiter(rdb *redis.Client, cb *infra.CircuitBreaker, prefix string, limit int, window time.Duration) Limiter {
	mem := newMemoryLimiter(limit, window)
	if rdb == nil {
		return mem
	}
	return &redisLimiter{rdb: rdb, cb: cb, prefix: prefix, limit: mem.limit, window: mem.window, fallback: mem}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) Decision {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var res []int64
	err := l.cb.Execute(func() error {
		var err error
		res, err = rateLimitScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
		return err
	})
	if errors.Is(err, infra.ErrCircuitOpen) {
		return l.fallback.Allow(ctx, key)
	}
	if err != nil || len(res) < 2 {
		log.Warn().Err(err).Str("key", key).Msg("rate limiter: redis unavailable, using in-memory fallback")
		return l.fallback.Allow(ctx, key)
	}

	count, ttlMs := res[0], res[1]
	if ttlMs < 0 {
		ttlMs = l.window.Milliseconds()
	}
	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   int(count) <= l.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Duration(ttlMs) * time.Millisecond),
	}
}

// ── Gin middleware ────────────────────────────────────────────────────────────

// RateLimit rejects callers over the limiter's budget with 429, keyed by client IP.
func RateLimit(l Limiter, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := l.Allow(c.Request.Context(), c.ClientIP())
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(d.ResetAt).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}
