package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-hub/clock"
)

func newFakeClock() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
}

func TestAdmitDeniesAfterCeiling(t *testing.T) {
	rl := NewRateLimiter(newFakeClock(), nil)
	key := ClientKey("10.0.0.1", "curl/8")

	for i := 0; i < APIClass.Limit; i++ {
		d := rl.Admit(key, APIClass)
		require.True(t, d.Allowed, "request %d", i+1)
		assert.Equal(t, APIClass.Limit-i-1, d.Remaining)
	}
	d := rl.Admit(key, APIClass)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 0, rl.Remaining(key, APIClass))
}

func TestWindowRolloverRestoresCapacity(t *testing.T) {
	clk := newFakeClock()
	rl := NewRateLimiter(clk, nil)
	key := ClientKey("10.0.0.1", "curl/8")

	for i := 0; i < APIClass.Limit; i++ {
		rl.Admit(key, APIClass)
	}
	require.False(t, rl.Admit(key, APIClass).Allowed)

	clk.Advance(59 * time.Second)
	assert.False(t, rl.Admit(key, APIClass).Allowed, "still inside the window")

	clk.Advance(time.Second)
	assert.Equal(t, APIClass.Limit, rl.Remaining(key, APIClass))
	d := rl.Admit(key, APIClass)
	assert.True(t, d.Allowed)
	assert.Equal(t, APIClass.Limit-1, d.Remaining)
	assert.Equal(t, clk.Now().Add(time.Minute), d.ResetAt)
}

func TestAuthClassScenario(t *testing.T) {
	clk := newFakeClock()
	rl := NewRateLimiter(clk, nil)
	key := ClientKey("192.168.1.5", "Mozilla/5.0")

	for i := 0; i < 5; i++ {
		clk.Advance(time.Minute)
		assert.True(t, rl.Admit(key, AuthClass).Allowed, "attempt %d", i+1)
	}
	assert.False(t, rl.Admit(key, AuthClass).Allowed, "6th attempt")

	clk.Advance(15 * time.Minute)
	assert.True(t, rl.Admit(key, AuthClass).Allowed, "after the window")
}

func TestClassesAndKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(newFakeClock(), nil)
	a := ClientKey("1.1.1.1", "ua")
	b := ClientKey("1.1.1.1", "other-ua")

	for i := 0; i < AuthClass.Limit; i++ {
		rl.Admit(a, AuthClass)
	}
	assert.False(t, rl.Admit(a, AuthClass).Allowed)
	assert.True(t, rl.Admit(a, APIClass).Allowed, "api budget untouched")
	assert.True(t, rl.Admit(b, AuthClass).Allowed, "different agent, different window")
	assert.Equal(t, AuthClass.Limit, rl.Remaining(ClientKey("9.9.9.9", "x"), AuthClass))
}

func TestAdmitConcurrentNoLostUpdates(t *testing.T) {
	rl := NewRateLimiter(newFakeClock(), nil)
	class := LimiterClass{Name: "burst", Limit: 50, Window: time.Minute}
	key := ClientKey("10.1.1.1", "bench")

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Admit(key, class).Allowed {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), allowed)
}

func TestSweepDropsExpiredWindows(t *testing.T) {
	clk := newFakeClock()
	rl := NewRateLimiter(clk, nil)
	class := LimiterClass{Name: "tiny", Limit: 1, Window: time.Second}

	key := windowKey("newcomer", class)
	sh := rl.shard(key)
	for i := 0; i < sweepThreshold; i++ {
		sh.windows[fmt.Sprintf("old%d", i)] = rateWindow{count: 1, resetAt: clk.Now()}
	}
	sh.windows["live"] = rateWindow{count: 1, resetAt: clk.Now().Add(time.Hour)}

	clk.Advance(time.Minute)
	require.True(t, rl.Admit("newcomer", class).Allowed)

	assert.Len(t, sh.windows, 2)
	assert.Contains(t, sh.windows, "live")
	assert.Contains(t, sh.windows, key)
}

func setupLimitedRouter(rl *RateLimiter, class LimiterClass) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", RateLimit(rl, class), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRateLimitMiddlewareHeaders(t *testing.T) {
	clk := newFakeClock()
	rl := NewRateLimiter(clk, nil)
	class := LimiterClass{Name: "test", Limit: 2, Window: time.Minute}
	router := setupLimitedRouter(rl, class)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		req.Header.Set("User-Agent", "tests")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	reset := strconv.FormatInt(clk.Now().Add(time.Minute).Unix(), 10)

	w := do()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, reset, w.Header().Get("X-RateLimit-Reset"))

	w = do()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, reset, w.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "too many requests")
	assert.NotEqual(t, http.StatusUnauthorized, w.Code)
}
