package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_TokenBucket(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, remaining := rl.Allow("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, remaining = rl.Allow("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)
	ok, _ = rl.Allow("1.2.3.4")
	assert.False(t, ok)

	ok, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok, "keys are limited independently")

	// one token comes back every window/limit
	now = now.Add(30 * time.Second)
	ok, remaining = rl.Allow("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)
	ok, _ = rl.Allow("1.2.3.4")
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, remaining = rl.Allow("1.2.3.4")
	assert.True(t, ok, "a full window refills the bucket")
	assert.Equal(t, 1, remaining)

	now = now.Add(5 * time.Minute)
	rl.evictIdle()
	assert.Empty(t, rl.clients)
}

func TestRateLimit_Middleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RateLimit(NewRateLimiter(1, time.Hour)))
	router.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"ERR_RATE_LIMITED"`)
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	assert.Equal(t, 12, NewRateLimiter(5, time.Minute).retryAfter())
	assert.Equal(t, 1, NewRateLimiter(1000, time.Second).retryAfter())
}
