package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/utils"
)

// RateLimitConfig configures a per-client token bucket. Launch endpoints
// run editor commands and shell input, so a runaway client is throttled
// there rather than on reads.
type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int              // forces an idle sweep when reached, 0 = unbounded
	IdleTTL           time.Duration    // buckets unused this long are dropped
	TrustProxy        bool             // resolve IP from proxy headers when true
	Now               func() time.Time // defaults to time.Now
}

type bucket struct {
	tokens float64
	last   time.Time
}

// tokenBuckets holds one bucket per client behind a single mutex. The
// client population of a local API is tiny.
type tokenBuckets struct {
	mu        sync.Mutex
	perSecond float64
	capacity  float64
	idleTTL   time.Duration
	max       int
	byClient  map[string]*bucket
	swept     time.Time
}

func newTokenBuckets(cfg RateLimitConfig, now time.Time) *tokenBuckets {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &tokenBuckets{
		perSecond: float64(max(cfg.RefillPerIPPerMin, 1)) / 60,
		capacity:  float64(max(cfg.Burst, 1)),
		idleTTL:   ttl,
		max:       cfg.MaxEntries,
		byClient:  make(map[string]*bucket),
		swept:     now,
	}
}

// take spends one token of client. When none is left it reports how
// many whole seconds until the next one.
func (tb *tokenBuckets) take(client string, now time.Time) (ok bool, remaining, retryAfter int) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if now.Sub(tb.swept) >= tb.idleTTL || (tb.max > 0 && len(tb.byClient) >= tb.max) {
		tb.sweep(now)
	}

	b, found := tb.byClient[client]
	if !found {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.byClient[client] = b
	}
	if dt := now.Sub(b.last).Seconds(); dt > 0 {
		b.tokens = math.Min(tb.capacity, b.tokens+dt*tb.perSecond)
		b.last = now
	}

	if b.tokens < 1 {
		wait := int(math.Ceil((1 - b.tokens) / tb.perSecond))
		return false, 0, max(wait, 1)
	}
	b.tokens--
	return true, int(b.tokens), 0
}

// sweep drops full buckets idle for longer than the TTL; they would be
// recreated identical.
func (tb *tokenBuckets) sweep(now time.Time) {
	for client, b := range tb.byClient {
		if now.Sub(b.last) > tb.idleTTL {
			delete(tb.byClient, client)
		}
	}
	tb.swept = now
}

// RateLimit throttles requests per client IP. Rejected requests get 429
// with Retry-After.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	tb := newTokenBuckets(cfg, now())
	limit := strconv.Itoa(int(tb.capacity))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, retry := tb.take(utils.ClientIP(r, cfg.TrustProxy), now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				h.Set("Retry-After", strconv.Itoa(retry))
				deny(w, http.StatusTooManyRequests, "too many launches, retry later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
