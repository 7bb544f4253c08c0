package middlewares

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/clock"
	"github.com/yeremiapane/restaurant-hub/metrics"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// LimiterClass is an independent admission budget: Limit admissions per Window for each client key.
type LimiterClass struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	AuthClass = LimiterClass{Name: "auth", Limit: 5, Window: 15 * time.Minute}
	APIClass  = LimiterClass{Name: "api", Limit: 100, Window: time.Minute}
)

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	windows map[string]rateWindow
}

const (
	limiterShards = 64
	// sweepThreshold is the shard size above which expired windows are dropped when a new key arrives.
	sweepThreshold = 4096
)

// RateLimiter is a fixed-window counter per (client key, class). State is process-local and is lost on
// restart.
type RateLimiter struct {
	shards  [limiterShards]limiterShard
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewRateLimiter(clk clock.Clock, m *metrics.Metrics) *RateLimiter {
	if clk == nil {
		clk = clock.Real()
	}
	rl := &RateLimiter{clock: clk, metrics: m}
	for i := range rl.shards {
		rl.shards[i].windows = make(map[string]rateWindow)
	}
	return rl
}

// ClientKey joins the caller's network origin and declared agent. Equal keys share one window.
func ClientKey(ip, userAgent string) string {
	return ip + ":" + userAgent
}

func windowKey(clientKey string, class LimiterClass) string {
	return class.Name + "|" + clientKey
}

func (rl *RateLimiter) shard(key string) *limiterShard {
	return &rl.shards[xxhash.Sum64String(key)%limiterShards]
}

// Admit counts one request against the client's window. A missing or expired window is replaced by a
// fresh one holding this request. Windows cover [start, start+Window).
func (rl *RateLimiter) Admit(clientKey string, class LimiterClass) Decision {
	key := windowKey(clientKey, class)
	sh := rl.shard(key)
	now := rl.clock.Now()

	sh.mu.Lock()
	w, ok := sh.windows[key]
	allowed := true
	switch {
	case !ok || !now.Before(w.resetAt):
		if !ok && len(sh.windows) >= sweepThreshold {
			sh.sweep(now)
		}
		w = rateWindow{count: 1, resetAt: now.Add(class.Window)}
		sh.windows[key] = w
	case w.count < class.Limit:
		w.count++
		sh.windows[key] = w
	default:
		allowed = false
	}
	sh.mu.Unlock()

	rl.metrics.RateLimitDecision(class.Name, allowed)
	return Decision{
		Allowed:   allowed,
		Limit:     class.Limit,
		Remaining: remaining(class.Limit, w.count),
		ResetAt:   w.resetAt,
	}
}

// Remaining reports admissions left in the client's current window, or the full limit when there is no
// live window.
func (rl *RateLimiter) Remaining(clientKey string, class LimiterClass) int {
	key := windowKey(clientKey, class)
	sh := rl.shard(key)
	now := rl.clock.Now()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	w, ok := sh.windows[key]
	if !ok || !now.Before(w.resetAt) {
		return class.Limit
	}
	return remaining(class.Limit, w.count)
}

func (sh *limiterShard) sweep(now time.Time) {
	for k, w := range sh.windows {
		if !now.Before(w.resetAt) {
			delete(sh.windows, k)
		}
	}
}

func remaining(limit, count int) int {
	if count >= limit {
		return 0
	}
	return limit - count
}

// RateLimit admits the request under class. The X-RateLimit-* headers are written on every response;
// denied requests get 429 with Retry-After.
func RateLimit(rl *RateLimiter, class LimiterClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := rl.Admit(ClientKey(c.ClientIP(), c.Request.UserAgent()), class)

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			wait := d.ResetAt.Sub(rl.clock.Now()).Seconds()
			c.Header("Retry-After", strconv.Itoa(int(math.Max(1, math.Ceil(wait)))))
			utils.AbortWithError(c, fmt.Errorf("%s limiter: %w", class.Name, utils.ErrRateLimited))
			return
		}
		c.Next()
	}
}
