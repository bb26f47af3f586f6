package middleware

import (
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/formgate/formgate-backend/errors"
	"github.com/gin-gonic/gin"
)

// slidingWindow tracks request timestamps per client address. State is
// process-local by design: the whole service is single-process and volatile.
type slidingWindow struct {
	mu      sync.Mutex
	hits    map[string][]time.Time
	limit   int
	window  time.Duration
	nowFunc func() time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		hits:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		nowFunc: time.Now,
	}
}

// allow records a hit for key and reports whether it is within the limit,
// along with the remaining quota and the seconds until the window frees up.
func (w *slidingWindow) allow(key string) (ok bool, remaining int, retryAfter int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.nowFunc()
	cutoff := now.Add(-w.window)

	recent := w.hits[key][:0]
	for _, t := range w.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= w.limit {
		w.hits[key] = recent
		oldest := recent[0]
		retryAfter = int(oldest.Add(w.window).Sub(now).Seconds()) + 1
		return false, 0, retryAfter
	}

	w.hits[key] = append(recent, now)
	return true, w.limit - len(w.hits[key]), 0
}

// ContactRateLimiter caps accepted requests per client address within a
// sliding window. The check runs before validation; rejected requests carry
// the teacher-standard X-RateLimit-* headers and a fixed message.
func ContactRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	sw := newSlidingWindow(limit, window)

	return func(c *gin.Context) {
		ip := getClientIP(c)

		ok, remaining, retryAfter := sw.allow(ip)
		if !ok {
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Duration(retryAfter)*time.Second).Unix()))
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))

			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", retryAfter))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))

		c.Next()
	}
}

// getClientIP extracts the real client IP from the request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxies/load balancers),
// then falls back to RemoteAddr.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}

	return c.ClientIP()
}
